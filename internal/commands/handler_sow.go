package commands

import (
	"context"
)

// SowHandlerFactory creates handlers that plant the selected seed.
type SowHandlerFactory struct{}

func (f *SowHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateMessage(config)
}

func (f *SowHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	msg := messageFrom(config, "Planted a {{ .Selected }} plant.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		if err := s.Game.Sow(ctx); err != nil {
			return "", err
		}
		return render(s, inputs, msg, nil)
	}, nil
}

// ReapHandlerFactory creates handlers that harvest the plant underfoot.
// The message sees the harvested plant as .Plant.
type ReapHandlerFactory struct{}

func (f *ReapHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateMessage(config)
}

func (f *ReapHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	msg := messageFrom(config, "Reaped lv{{ .Plant.Growth }} {{ .Plant.Type }} plant.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		reaped, err := s.Game.Reap(ctx)
		if err != nil {
			return "", err
		}
		return render(s, inputs, msg, func(d *TemplateData) {
			d.Plant = plantRefFrom(&reaped)
		})
	}, nil
}
