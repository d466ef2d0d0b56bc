package player

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrTooManyTries is returned when a prompt's answers keep failing validation.
var ErrTooManyTries = errors.New("too many tries")

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	validator promptValidator
}

type PromptOpt func(*promptConfig)

func WithValidator(v promptValidator) PromptOpt {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(i int) PromptOpt {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

// Terminal is a line-oriented view of a connection. All reads share one
// buffer, so a prompt never swallows input meant for the next reader.
type Terminal struct {
	r *bufio.Reader
	w io.Writer
}

func NewTerminal(rw io.ReadWriter) *Terminal {
	return &Terminal{
		r: bufio.NewReader(rw),
		w: rw,
	}
}

// ReadLine returns the next line without its line ending.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) Write(s string) error {
	_, err := io.WriteString(t.w, s)
	return err
}

// WriteLine writes msg followed by a blank line.
func (t *Terminal) WriteLine(msg string) error {
	return t.Write(msg + "\n\n")
}

func (t *Terminal) Prompt(prompt string, opts ...PromptOpt) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	tries := 0
	for {
		if err := t.Write(prompt); err != nil {
			return "", err
		}

		input, err := t.ReadLine()
		if err != nil {
			return "", err
		}
		input = strings.TrimSpace(input)

		if config.validator != nil {
			ok, msg := config.validator(input)
			if !ok {
				if err := t.Write(msg); err != nil {
					return "", err
				}

				tries++
				if config.tries > 0 && config.tries == tries {
					_ = t.Write("Too many tries.\n")
					return "", ErrTooManyTries
				}

				continue
			}
		}

		return input, nil
	}
}

func (t *Terminal) PromptYN(prompt string) (bool, error) {
	str, err := t.Prompt(prompt, WithValidator(
		func(str string) (bool, string) {
			switch strings.ToLower(str) {
			case "y", "yes", "n", "no":
				return true, ""
			default:
				return false, "Enter 'yes' or 'no'.\n"
			}
		},
	))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(str) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
