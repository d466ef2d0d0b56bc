package commands

import (
	"context"
	"strings"

	"github.com/pixil98/go-farm/internal/display"
)

// LookHandlerFactory creates handlers that describe the plot underfoot.
type LookHandlerFactory struct{}

func (f *LookHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *LookHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		st := s.Game.State()
		lines := []string{
			display.Status(st),
			display.CellReport(st),
			st.Describe(st.PlayerCell()),
		}
		return display.Wrap(strings.Join(lines, "\n")), nil
	}, nil
}

// MapHandlerFactory creates handlers that draw the farm.
type MapHandlerFactory struct{}

func (f *MapHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *MapHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		st := s.Game.State()
		return display.Board(st, s.Color) + display.Status(st), nil
	}, nil
}
