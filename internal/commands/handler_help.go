package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-farm/internal/display"
)

// HelpHandlerFactory creates handlers that list the commands.
// Config:
//   - intro (optional): template shown above the command list
type HelpHandlerFactory struct {
	handler *Handler
}

func (f *HelpHandlerFactory) ValidateConfig(config map[string]any) error {
	raw, ok := config["intro"]
	if !ok {
		return nil
	}
	intro, ok := raw.(string)
	if !ok {
		return fmt.Errorf("intro must be a string")
	}
	return checkTemplate(intro)
}

func (f *HelpHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	intro, _ := config["intro"].(string)

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		var b strings.Builder

		if intro != "" {
			text, err := render(s, inputs, intro, nil)
			if err != nil {
				return "", err
			}
			b.WriteString(display.Wrap(text))
			b.WriteString("\n\n")
		}

		for _, name := range f.handler.Names() {
			cmd := f.handler.compiled[name].cmd
			usage := name
			for _, in := range cmd.Inputs {
				if in.Required {
					usage += fmt.Sprintf(" <%s>", in.Name)
				} else {
					usage += fmt.Sprintf(" [%s]", in.Name)
				}
			}
			if len(cmd.Aliases) > 0 {
				usage += fmt.Sprintf(" (%s)", strings.Join(cmd.Aliases, ", "))
			}
			fmt.Fprintf(&b, "  %-32s %s\n", usage, cmd.Help)
		}

		return strings.TrimRight(b.String(), "\n"), nil
	}, nil
}
