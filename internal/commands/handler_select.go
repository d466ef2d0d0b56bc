package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-farm/internal/farm"
)

// SelectHandlerFactory creates handlers that choose the seed to sow.
// Config:
//   - plant (optional): fixed plant type; otherwise the "plant" input is used
//   - message (optional): template shown after selecting
type SelectHandlerFactory struct{}

func (f *SelectHandlerFactory) ValidateConfig(config map[string]any) error {
	if raw, ok := config["plant"]; ok {
		name, ok := raw.(string)
		if !ok {
			return fmt.Errorf("plant must be a string")
		}
		if _, err := farm.ParsePlantType(name); err != nil {
			return err
		}
	}
	return validateMessage(config)
}

func (f *SelectHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	fixed, _ := config["plant"].(string)
	msg := messageFrom(config, "Selected {{ .Selected }} seeds.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		name := fixed
		if name == "" {
			name, _ = inputs["plant"].(string)
		}

		t, err := farm.ParsePlantType(name)
		if err != nil {
			names := make([]string, 0, len(farm.PlantTypes))
			for _, pt := range farm.PlantTypes {
				names = append(names, pt.Name())
			}
			return "", NewUserError(fmt.Sprintf("There are no %q seeds. Choose one of: %s.", name, strings.Join(names, ", ")))
		}

		if err := s.Game.SelectInventoryPlant(ctx, t); err != nil {
			return "", err
		}
		return render(s, inputs, msg, nil)
	}, nil
}
