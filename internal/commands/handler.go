package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pixil98/go-farm/internal/farm"
)

// Session is the per-connection state commands act on.
type Session struct {
	Name  string
	Game  *farm.Game
	Color bool
	Quit  bool
}

// CommandFunc is the signature for compiled command functions. It returns
// the text to show the farmer.
type CommandFunc func(ctx context.Context, s *Session, inputs map[string]any) (string, error)

// HandlerFactory creates CommandFuncs from command configurations.
// Implementations should expose their expected config structure.
type HandlerFactory interface {
	// ValidateConfig validates that the config contains required fields.
	ValidateConfig(config map[string]any) error
	// Create creates a CommandFunc from the validated config.
	Create(config map[string]any) (CommandFunc, error)
}

// compiledCommand holds a command that's been validated and compiled.
type compiledCommand struct {
	name    string
	cmd     *Command
	cmdFunc CommandFunc
}

type Handler struct {
	keymap    *Keymap
	factories map[string]HandlerFactory
	compiled  map[string]*compiledCommand
	aliases   map[string]string
}

func NewHandler(km *Keymap) *Handler {
	h := &Handler{
		keymap:    km,
		factories: make(map[string]HandlerFactory),
		compiled:  make(map[string]*compiledCommand),
		aliases:   make(map[string]string),
	}
	// Register built-in handlers
	_ = h.RegisterFactory("move", &MoveHandlerFactory{})
	_ = h.RegisterFactory("step", &StepHandlerFactory{})
	_ = h.RegisterFactory("sow", &SowHandlerFactory{})
	_ = h.RegisterFactory("reap", &ReapHandlerFactory{})
	_ = h.RegisterFactory("select", &SelectHandlerFactory{})
	_ = h.RegisterFactory("advance", &AdvanceHandlerFactory{})
	_ = h.RegisterFactory("undo", &UndoHandlerFactory{})
	_ = h.RegisterFactory("redo", &RedoHandlerFactory{})
	_ = h.RegisterFactory("save", &SaveHandlerFactory{})
	_ = h.RegisterFactory("load", &LoadHandlerFactory{})
	_ = h.RegisterFactory("erase", &EraseHandlerFactory{})
	_ = h.RegisterFactory("new", &NewGameHandlerFactory{})
	_ = h.RegisterFactory("look", &LookHandlerFactory{})
	_ = h.RegisterFactory("map", &MapHandlerFactory{})
	_ = h.RegisterFactory("help", &HelpHandlerFactory{handler: h})
	_ = h.RegisterFactory("quit", &QuitHandlerFactory{})
	return h
}

// RegisterFactory registers a handler factory by name.
// The name must match the "handler" field in keymap definitions.
func (h *Handler) RegisterFactory(name string, factory HandlerFactory) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("handler factory cannot be nil")
	}
	if _, exists := h.factories[name]; exists {
		return fmt.Errorf("handler factory %q already registered", name)
	}
	h.factories[name] = factory
	return nil
}

// CompileAll compiles all commands from the keymap.
// Call this after all handler factories have been registered.
func (h *Handler) CompileAll() error {
	for name, cmd := range h.keymap.Commands {
		err := h.compile(name, cmd)
		if err != nil {
			return fmt.Errorf("compiling command %q: %w", name, err)
		}
	}
	if err := checkTemplate(h.keymap.WinMessage); err != nil {
		return fmt.Errorf("win message: %w", err)
	}
	return nil
}

func (h *Handler) compile(name string, cmd *Command) error {
	factory, ok := h.factories[cmd.Handler]
	if !ok {
		return fmt.Errorf("unknown handler %q", cmd.Handler)
	}

	if err := factory.ValidateConfig(cmd.Config); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	cmdFunc, err := factory.Create(cmd.Config)
	if err != nil {
		return fmt.Errorf("creating handler: %w", err)
	}

	h.compiled[name] = &compiledCommand{
		name:    name,
		cmd:     cmd,
		cmdFunc: cmdFunc,
	}
	h.aliases[name] = name
	for _, alias := range cmd.Aliases {
		h.aliases[strings.ToLower(alias)] = name
	}
	return nil
}

// Exec runs one line of input and returns the text to show.
func (h *Handler) Exec(ctx context.Context, s *Session, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	word := strings.ToLower(fields[0])
	compiled, ok := h.compiled[h.aliases[word]]
	if !ok {
		return "", h.unknownCommand(word)
	}

	// Validate and parse arguments
	inputs, err := h.parseArgs(compiled.cmd.Inputs, fields[1:])
	if err != nil {
		return "", err
	}

	depth, _ := s.Game.History().Depth()

	out, err := compiled.cmdFunc(ctx, s, inputs)
	if err != nil {
		return "", userError(s, err)
	}

	// Only an action that opened a new undo step can cross the threshold.
	if after, _ := s.Game.History().Depth(); after > depth && s.Game.JustWon() {
		win, err := ExpandTemplate(h.keymap.WinMessage, newTemplateData(s, inputs))
		if err != nil {
			return "", fmt.Errorf("expanding win message: %w", err)
		}
		out = strings.TrimSpace(out + "\n" + win)
	}

	return out, nil
}

func (h *Handler) unknownCommand(word string) error {
	msg := fmt.Sprintf("Unknown command: %s.", word)
	if near := Suggest(word, h.words()); len(near) > 0 {
		msg += fmt.Sprintf(" Did you mean: %s?", strings.Join(near, ", "))
	}
	return NewUserError(msg)
}

// words returns every command name and alias.
func (h *Handler) words() []string {
	words := make([]string, 0, len(h.aliases))
	for w := range h.aliases {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Names returns the compiled command names, sorted.
func (h *Handler) Names() []string {
	names := make([]string, 0, len(h.compiled))
	for name := range h.compiled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseArgs validates raw string arguments against input specs.
func (h *Handler) parseArgs(specs []InputSpec, rawArgs []string) (map[string]any, error) {
	requiredCount := 0
	for _, spec := range specs {
		if spec.Required {
			requiredCount++
		}
	}

	if len(rawArgs) < requiredCount {
		return nil, NewUserError(fmt.Sprintf("Expected at least %d argument(s), got %d", requiredCount, len(rawArgs)))
	}

	// If no rest param, check we don't have too many args
	hasRest := len(specs) > 0 && specs[len(specs)-1].Rest
	if !hasRest && len(rawArgs) > len(specs) {
		return nil, NewUserError(fmt.Sprintf("Expected at most %d argument(s), got %d", len(specs), len(rawArgs)))
	}

	inputs := make(map[string]any, len(specs))
	argIndex := 0

	for i := range specs {
		spec := &specs[i]

		if argIndex >= len(rawArgs) {
			// No more input - this param must be optional
			if spec.Required {
				return nil, NewUserError(fmt.Sprintf("Missing required parameter: %s", spec.Name))
			}
			continue
		}

		var raw string
		if spec.Rest {
			// Consume all remaining args joined with spaces
			raw = strings.Join(rawArgs[argIndex:], " ")
			argIndex = len(rawArgs)
		} else {
			raw = rawArgs[argIndex]
			argIndex++
		}

		value, err := h.parseValue(spec.Type, raw)
		if err != nil {
			return nil, err
		}

		inputs[spec.Name] = value
	}

	return inputs, nil
}

// parseValue parses a raw string into the appropriate type.
func (h *Handler) parseValue(inputType InputType, raw string) (any, error) {
	switch inputType {
	case InputTypeString:
		return raw, nil

	case InputTypeNumber:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, NewUserError(fmt.Sprintf("%q is not a valid number", raw))
		}
		return n, nil

	default:
		return nil, fmt.Errorf("unknown input type %q", inputType)
	}
}
