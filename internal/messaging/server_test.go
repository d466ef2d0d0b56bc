package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-farm/internal/farm"
)

func startServer(t *testing.T, opts ...NatsServerOpt) *NatsServer {
	t.Helper()
	s, err := NewNatsServer(append([]NatsServerOpt{WithPort(-1)}, opts...)...)
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-s.Ready():
	case err := <-done:
		t.Fatalf("server exited: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not become ready")
	}
	return s
}

func TestNatsServer_NotStarted(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	testutil.AssertErrorContains(t, s.Publish("farm.x", nil), "not started")
	_, err = s.Subscribe("farm.x", func([]byte) {})
	testutil.AssertErrorContains(t, err, "not started")
}

func TestSubscribeGame(t *testing.T) {
	s := startServer(t)

	events := make(chan farm.Event, 4)
	unsub, err := SubscribeGame(s, "abc", func(ev farm.Event) { events <- ev })
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer unsub()

	// Malformed payloads are dropped, other games are not delivered.
	if err := s.Publish(farm.Subject("abc"), []byte("not json")); err != nil {
		t.Fatalf("publishing: %v", err)
	}
	if err := s.Publish(farm.Subject("other"), []byte(`{"type":"won"}`)); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	g := farm.New(farm.WithID("abc"), farm.WithSeed(1), farm.WithPublisher(s))
	g.AdvanceDay(context.Background())
	if err := s.Flush(); err != nil {
		t.Fatalf("flushing: %v", err)
	}

	select {
	case ev := <-events:
		testutil.AssertEqual(t, "type", ev.Type, farm.EventDayAdvanced)
		testutil.AssertEqual(t, "game", ev.Game, "abc")
		testutil.AssertEqual(t, "day", ev.Day, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered")
	}

	select {
	case ev := <-events:
		t.Fatalf("unexpected extra event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestNewNatsServer_Options(t *testing.T) {
	tests := map[string]struct {
		opts          []NatsServerOpt
		expHost       string
		expPort       int
		expName       string
		expMaxPayload int32
		expTimeout    time.Duration
	}{
		"defaults": {
			expHost:       "127.0.0.1",
			expName:       DefaultServerName,
			expMaxPayload: DefaultMaxPayload,
			expTimeout:    10 * time.Second,
		},
		"overridden": {
			opts: []NatsServerOpt{
				WithHost("0.0.0.0"),
				WithPort(-1),
				WithServerName("north-field"),
				WithMaxPayload(1024),
				WithStartTimeout(time.Second),
			},
			expHost:       "0.0.0.0",
			expPort:       -1,
			expName:       "north-field",
			expMaxPayload: 1024,
			expTimeout:    time.Second,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := NewNatsServer(tt.opts...)
			if err != nil {
				t.Fatalf("creating server: %v", err)
			}
			testutil.AssertEqual(t, "host", s.opts.Host, tt.expHost)
			testutil.AssertEqual(t, "port", s.opts.Port, tt.expPort)
			testutil.AssertEqual(t, "server name", s.opts.ServerName, tt.expName)
			testutil.AssertEqual(t, "client name", s.clientName, tt.expName)
			testutil.AssertEqual(t, "max payload", s.opts.MaxPayload, tt.expMaxPayload)
			testutil.AssertEqual(t, "timeout", s.startupTimeout, tt.expTimeout)
			testutil.AssertEqual(t, "no signals", s.opts.NoSigs, true)
		})
	}
}

func TestNatsServer_MaxPayload(t *testing.T) {
	s := startServer(t, WithMaxPayload(16))

	testutil.AssertErrorContains(t, s.Publish("farm.x", make([]byte, 64)), "maximum payload exceeded")
	if err := s.Publish("farm.x", []byte("ok")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
