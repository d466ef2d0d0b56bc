package commands

import (
	"context"
	"fmt"

	"github.com/pixil98/go-farm/internal/farm"
)

// MoveHandlerFactory creates handlers that move the farmer.
// Config:
//   - drow (required): rows to move, negative is up
//   - dcol (required): columns to move, negative is left
//   - message (optional): template shown after the move
type MoveHandlerFactory struct{}

func (f *MoveHandlerFactory) ValidateConfig(config map[string]any) error {
	drow, err := intConfig(config, "drow")
	if err != nil {
		return err
	}
	dcol, err := intConfig(config, "dcol")
	if err != nil {
		return err
	}
	if drow == 0 && dcol == 0 {
		return fmt.Errorf("move must change position")
	}
	return validateMessage(config)
}

func (f *MoveHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	drow, _ := intConfig(config, "drow")
	dcol, _ := intConfig(config, "dcol")
	msg := messageFrom(config, "Moved to cell {{ .Player }}.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		if err := s.Game.Move(ctx, drow, dcol); err != nil {
			return "", err
		}
		return render(s, inputs, msg, nil)
	}, nil
}

// StepHandlerFactory creates handlers that move the farmer onto a
// neighbouring plot given by its row and column inputs.
// Config:
//   - message (optional): template shown after the move
type StepHandlerFactory struct{}

func (f *StepHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateMessage(config)
}

func (f *StepHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	msg := messageFrom(config, "Moved to cell {{ .Player }}.")

	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		row, _ := inputs["row"].(int)
		col, _ := inputs["col"].(int)
		if err := s.Game.MoveTo(ctx, farm.GridPoint{Row: row, Col: col}); err != nil {
			return "", err
		}
		return render(s, inputs, msg, nil)
	}, nil
}
