package commands

import (
	"context"
)

// UndoHandlerFactory creates handlers that step back through history.
type UndoHandlerFactory struct{}

func (f *UndoHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateMessage(config)
}

func (f *UndoHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	msg := messageFrom(config, "Reverted to previous game state.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		if err := s.Game.Undo(ctx); err != nil {
			return "", err
		}
		return render(s, inputs, msg, nil)
	}, nil
}

// RedoHandlerFactory creates handlers that step forward through history.
type RedoHandlerFactory struct{}

func (f *RedoHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateMessage(config)
}

func (f *RedoHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	msg := messageFrom(config, "Restored future game state.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		if err := s.Game.Redo(ctx); err != nil {
			return "", err
		}
		return render(s, inputs, msg, nil)
	}, nil
}
