package player

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/pixil98/go-farm/internal/commands"
	"github.com/pixil98/go-farm/internal/farm"
)

// fakeConn replays scripted input and records output.
type fakeConn struct {
	in io.Reader

	mu  sync.Mutex
	out bytes.Buffer
}

func newFakeConn(lines ...string) *fakeConn {
	return &fakeConn{in: strings.NewReader(strings.Join(lines, "\n") + "\n")}
}

func (c *fakeConn) Read(p []byte) (int, error) {
	return c.in.Read(p)
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(p)
}

func (c *fakeConn) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

func newTestHandler(t *testing.T) *commands.Handler {
	t.Helper()
	km, err := commands.DefaultKeymap()
	if err != nil {
		t.Fatalf("loading keymap: %v", err)
	}
	h := commands.NewHandler(km)
	if err := h.CompileAll(); err != nil {
		t.Fatalf("compiling keymap: %v", err)
	}
	return h
}

func newTestPlayer(t *testing.T, h *commands.Handler, conn io.ReadWriter, name string) *Player {
	t.Helper()
	rules := farm.DefaultRules()
	rules.SeedChance = 0
	g := farm.New(
		farm.WithSeed(3),
		farm.WithRules(rules),
		farm.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return newPlayer(NewTerminal(conn), &commands.Session{Name: name, Game: g}, h)
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
