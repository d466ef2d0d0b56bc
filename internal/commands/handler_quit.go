package commands

import (
	"context"
)

// QuitHandlerFactory creates handlers that signal the farmer wants to quit.
type QuitHandlerFactory struct{}

func (f *QuitHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *QuitHandlerFactory) Create(config map[string]any) (CommandFunc, error) {
	return func(ctx context.Context, s *Session, inputs map[string]any) (string, error) {
		s.Quit = true
		return "Goodbye! Your farm will be here when you get back.", nil
	}, nil
}
