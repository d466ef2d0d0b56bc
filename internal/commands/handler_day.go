package commands

import (
	"context"
)

// AdvanceHandlerFactory creates handlers that end the day.
type AdvanceHandlerFactory struct{}

func (f *AdvanceHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateMessage(config)
}

func (f *AdvanceHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	msg := messageFrom(config, "Advanced to the next day.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		s.Game.AdvanceDay(ctx)
		return render(s, inputs, msg, nil)
	}, nil
}
