package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// slotInput picks the slot named on the command line, making it the
// session's current slot.
func slotInput(s *Session, inputs map[string]any) error {
	slot, ok := inputs["slot"].(int)
	if !ok {
		return nil
	}
	if slot < 1 {
		return NewUserError("Save slots are numbered from 1.")
	}
	s.Game.SetSlot(slot)
	return nil
}

// storageFailure keeps rule failures as they are and hides store errors
// behind a generic message.
func storageFailure(ctx context.Context, s *Session, op string, err error) error {
	translated := userError(s, err)
	var ue *UserError
	if errors.As(translated, &ue) {
		return translated
	}

	slog.ErrorContext(ctx, "save store failure", "farmer", s.Name, "op", op, "slot", s.Game.Slot(), "error", err)
	return NewUserError(fmt.Sprintf("Could not %s the game. The save store is unavailable.", op))
}

// SaveHandlerFactory creates handlers that write the game to a slot.
type SaveHandlerFactory struct{}

func (f *SaveHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateMessage(config)
}

func (f *SaveHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	msg := messageFrom(config, "Game saved.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		if err := slotInput(s, inputs); err != nil {
			return "", err
		}
		if err := s.Game.Save(ctx, 0); err != nil {
			return "", storageFailure(ctx, s, "save", err)
		}
		return render(s, inputs, msg, nil)
	}, nil
}

// LoadHandlerFactory creates handlers that replace the game with a saved one.
type LoadHandlerFactory struct{}

func (f *LoadHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateMessage(config)
}

func (f *LoadHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	msg := messageFrom(config, "Game loaded.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		if err := slotInput(s, inputs); err != nil {
			return "", err
		}
		if _, err := s.Game.Load(ctx, 0); err != nil {
			return "", storageFailure(ctx, s, "load", err)
		}
		return render(s, inputs, msg, nil)
	}, nil
}

// EraseHandlerFactory creates handlers that delete a saved game.
type EraseHandlerFactory struct{}

func (f *EraseHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateMessage(config)
}

func (f *EraseHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	msg := messageFrom(config, "Game erased.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		if err := slotInput(s, inputs); err != nil {
			return "", err
		}
		if err := s.Game.Erase(ctx, 0); err != nil {
			return "", storageFailure(ctx, s, "erase", err)
		}
		return render(s, inputs, msg, nil)
	}, nil
}

// NewGameHandlerFactory creates handlers that start a fresh farm.
type NewGameHandlerFactory struct{}

func (f *NewGameHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateMessage(config)
}

func (f *NewGameHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	msg := messageFrom(config, "Playing on a new game (not yet saved or loaded).")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		s.Game.NewGame(ctx)
		return render(s, inputs, msg, nil)
	}, nil
}
