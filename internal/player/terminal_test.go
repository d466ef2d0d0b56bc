package player

import (
	"errors"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestTerminal_ReadLine(t *testing.T) {
	term := NewTerminal(&fakeConn{in: strings.NewReader("one\r\ntwo\nthree")})

	for _, exp := range []string{"one", "two", "three"} {
		got, err := term.ReadLine()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "line", got, exp)
	}

	_, err := term.ReadLine()
	if err == nil {
		t.Fatalf("expected EOF")
	}
}

func TestTerminal_Prompt(t *testing.T) {
	nonEmpty := WithValidator(func(s string) (bool, string) {
		if s == "" {
			return false, "try again\n"
		}
		return true, ""
	})

	tests := map[string]struct {
		input  string
		opts   []PromptOpt
		exp    string
		expOut string
		expErr error
	}{
		"no validator": {
			input:  "  hello  \n",
			exp:    "hello",
			expOut: "? ",
		},
		"retries until valid": {
			input:  "\n\nok\n",
			opts:   []PromptOpt{nonEmpty},
			exp:    "ok",
			expOut: "? try again\n? try again\n? ",
		},
		"gives up": {
			input:  "\n\nok\n",
			opts:   []PromptOpt{nonEmpty, WithMaxTries(2)},
			expOut: "? try again\n? try again\nToo many tries.\n",
			expErr: ErrTooManyTries,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			conn := &fakeConn{in: strings.NewReader(tt.input)}
			got, err := NewTerminal(conn).Prompt("? ", tt.opts...)
			if tt.expErr != nil {
				testutil.AssertEqual(t, "error", errors.Is(err, tt.expErr), true)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "answer", got, tt.exp)
			testutil.AssertEqual(t, "output", conn.Output(), tt.expOut)
		})
	}
}

func TestTerminal_PromptYN(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   bool
	}{
		"yes": {
			input: "yes\n",
			exp:   true,
		},
		"upper case": {
			input: "Y\n",
			exp:   true,
		},
		"no": {
			input: "no\n",
			exp:   false,
		},
		"retry then no": {
			input: "maybe\nn\n",
			exp:   false,
		},
		"retry then yes": {
			input: "\ny\n",
			exp:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NewTerminal(&fakeConn{in: strings.NewReader(tt.input)}).PromptYN("? ")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "answer", got, tt.exp)
		})
	}
}
