package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-farm/internal/commands"
	"github.com/pixil98/go-farm/internal/display"
	"github.com/pixil98/go-farm/internal/farm"
)

// ErrKicked is returned by Play when the session was ended from outside.
var ErrKicked = errors.New("session ended by server")

const msgBuffer = 16

type Player struct {
	term    *Terminal
	session *commands.Session
	handler *commands.Handler

	msgs chan string

	done     chan struct{}
	kickOnce sync.Once
	reason   string

	stopped    chan struct{}
	finishOnce sync.Once

	mu         sync.Mutex
	lastActive time.Time
}

func newPlayer(term *Terminal, session *commands.Session, handler *commands.Handler) *Player {
	return &Player{
		term:       term,
		session:    session,
		handler:    handler,
		msgs:       make(chan string, msgBuffer),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		lastActive: time.Now(),
	}
}

// Id returns the lower-case farmer name.
func (p *Player) Id() string {
	return strings.ToLower(p.session.Name)
}

func (p *Player) Name() string {
	return p.session.Name
}

func (p *Player) Game() *farm.Game {
	return p.session.Game
}

// Notify queues a message for the farmer. It is dropped when the queue is
// full.
func (p *Player) Notify(msg string) bool {
	select {
	case p.msgs <- msg:
		return true
	default:
		return false
	}
}

// Kick ends the session with reason shown to the farmer.
func (p *Player) Kick(reason string) {
	p.kickOnce.Do(func() {
		p.reason = reason
		close(p.done)
	})
}

// Stopped is closed once the session has stopped touching its game.
func (p *Player) Stopped() <-chan struct{} {
	return p.stopped
}

func (p *Player) finish() {
	p.finishOnce.Do(func() { close(p.stopped) })
}

// Idle returns how long since the farmer last sent input.
func (p *Player) Idle(now time.Time) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return now.Sub(p.lastActive)
}

func (p *Player) markActive() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastActive = time.Now()
}

func (p *Player) Play(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)

	// Read input lines into a channel
	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		defer close(inputChan)
		for {
			line, err := p.term.ReadLine()
			if err != nil {
				inputErrChan <- err
				return
			}
			select {
			case inputChan <- line:
			case <-stop:
				return
			}
		}
	}()

	// Show the farm on arrival
	st := p.session.Game.State()
	err := p.term.WriteLine(display.Board(st, p.session.Color) + display.Status(st))
	if err != nil {
		return err
	}
	if err := p.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-p.done:
			_ = p.term.WriteLine("\n" + p.reason)
			return ErrKicked

		case msg := <-p.msgs:
			if err := p.term.WriteLine("\n" + msg); err != nil {
				return err
			}
			if err := p.prompt(); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				err := <-inputErrChan
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}

			// Any input resets the idle timer.
			p.markActive()

			if err := p.exec(ctx, line); err != nil {
				return err
			}

			if p.session.Quit {
				return nil
			}

			if err := p.prompt(); err != nil {
				return err
			}
		}
	}
}

// exec runs one line. Only write failures and system errors end the session.
func (p *Player) exec(ctx context.Context, line string) error {
	out, err := p.handler.Exec(ctx, p.session, line)
	if err != nil {
		var userErr *commands.UserError
		if errors.As(err, &userErr) {
			return p.term.WriteLine(display.Wrap(userErr.Message))
		}
		return fmt.Errorf("command execution failed: %w", err)
	}
	if out == "" {
		return nil
	}
	return p.term.WriteLine(out)
}

func (p *Player) prompt() error {
	st := p.session.Game.State()
	return p.term.Write(fmt.Sprintf("[Day %d %s | %d/%d crops] > ",
		st.Day, st.Weather, st.Inventory.Total(), p.session.Game.Rules().WinThreshold))
}
