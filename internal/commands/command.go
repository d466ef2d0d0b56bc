package commands

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// InputType represents the type of a command input parameter.
type InputType string

const (
	InputTypeString InputType = "string" // Text input (single word if rest=false, multi-word if rest=true)
	InputTypeNumber InputType = "number" // Integer
)

// InputSpec defines an input parameter that a command accepts from user input.
type InputSpec struct {
	Name     string    `yaml:"name"`
	Type     InputType `yaml:"type"`
	Required bool      `yaml:"required"`
	Rest     bool      `yaml:"rest"` // If true, captures all remaining input
}

// Command defines a command loaded from the keymap.
type Command struct {
	Handler string         `yaml:"handler"`
	Help    string         `yaml:"help"`
	Aliases []string       `yaml:"aliases"`
	Config  map[string]any `yaml:"config"` // Config passed to handler, may contain templates
	Inputs  []InputSpec    `yaml:"inputs"` // User input parameters
}

func (c *Command) Validate() error {
	if c.Handler == "" {
		return fmt.Errorf("command handler not set")
	}

	for i, input := range c.Inputs {
		if input.Name == "" {
			return fmt.Errorf("input %d: name is required", i)
		}
		if input.Type == "" {
			return fmt.Errorf("input %q: type is required", input.Name)
		}
		// Validate input type is a known primitive
		switch input.Type {
		case InputTypeString, InputTypeNumber:
			// Valid
		default:
			return fmt.Errorf("input %q: unknown type %q", input.Name, input.Type)
		}
		// Only the last input can have rest=true
		if input.Rest && i != len(c.Inputs)-1 {
			return fmt.Errorf("input %q: only the last input can have rest=true", input.Name)
		}
	}

	return nil
}

// Keymap is the full command table.
type Keymap struct {
	// WinMessage is appended to the output of the action that wins the game.
	WinMessage string              `yaml:"win_message"`
	Commands   map[string]*Command `yaml:"commands"`
}

//go:embed keymap.yaml
var defaultKeymap []byte

// DefaultKeymap returns the built-in command table.
func DefaultKeymap() (*Keymap, error) {
	return ParseKeymap(defaultKeymap)
}

// ParseKeymap decodes and validates a YAML command table.
func ParseKeymap(data []byte) (*Keymap, error) {
	km := &Keymap{}
	if err := yaml.Unmarshal(data, km); err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}
	if err := km.Validate(); err != nil {
		return nil, err
	}
	return km, nil
}

func (km *Keymap) Validate() error {
	if len(km.Commands) == 0 {
		return fmt.Errorf("keymap has no commands")
	}

	seen := map[string]string{}
	for name, cmd := range km.Commands {
		if cmd == nil {
			return fmt.Errorf("command %q: empty definition", name)
		}
		if name != strings.ToLower(name) {
			return fmt.Errorf("command %q: names must be lower case", name)
		}
		if err := cmd.Validate(); err != nil {
			return fmt.Errorf("command %q: %w", name, err)
		}

		for _, word := range append([]string{name}, cmd.Aliases...) {
			word = strings.ToLower(word)
			if other, ok := seen[word]; ok {
				return fmt.Errorf("command %q: %q is already bound to %q", name, word, other)
			}
			seen[word] = name
		}
	}

	return nil
}
