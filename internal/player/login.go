package player

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/pixil98/go-farm/internal/storage"
)

const (
	maxNameLength = 16
	maxNameTries  = 5
)

type loginFlow struct {
	store storage.Storer
}

// Run asks for a farmer name until one is confirmed. Returning farmers, the
// ones with saved games, are not asked to confirm.
func (f *loginFlow) Run(ctx context.Context, term *Terminal) (string, error) {
	if err := term.Write("Welcome to GoFarm!\n"); err != nil {
		return "", err
	}

	for {
		name, err := term.Prompt("By what name do you wish to be known? ",
			WithMaxTries(maxNameTries),
			WithValidator(func(str string) (bool, string) {
				if !validName(str) {
					return false, fmt.Sprintf("Names are 1 to %d letters or digits. Please try another.\n", maxNameLength)
				}
				return true, ""
			}),
		)
		if err != nil {
			return "", err
		}

		keys, err := f.store.Keys(ctx, strings.ToLower(name)+".")
		if err != nil {
			return "", fmt.Errorf("looking up farmer %q: %w", name, err)
		}
		if len(keys) > 0 {
			return name, nil
		}

		ok, err := term.PromptYN(fmt.Sprintf("Did I get that right, %s (Y/N)? ", name))
		if err != nil {
			return "", err
		}
		if ok {
			return name, nil
		}
	}
}

// validName reports whether name can key a farmer's saves.
func validName(name string) bool {
	if len(name) == 0 || len(name) > maxNameLength {
		return false
	}
	for _, r := range name {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
