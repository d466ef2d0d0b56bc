package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"syscall"

	"github.com/iammegalith/telnet"
)

type TelnetListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewTelnetListener(port uint16, cm *ConnectionManager) *TelnetListener {
	return &TelnetListener{
		port: port,
		cm:   cm,
	}
}

// Start serves telnet farmers until ctx ends, then closes their sessions.
func (l *TelnetListener) Start(ctx context.Context) error {
	handler := &telnetHandler{
		cm:     l.cm,
		conns:  newConnGroup(),
		logger: slog.Default().With("listener", "telnet", "port", l.port),
	}

	svr := telnet.NewServer(fmt.Sprintf(":%d", l.port), handler)
	handler.logger.InfoContext(ctx, "listening for telnet")

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			svr.Stop()
			handler.conns.Close()
		case <-stopped:
		}
	}()

	if err := svr.ListenAndServe(); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another farm running?)", l.port)
		}
		return fmt.Errorf("serving telnet on port %d: %w", l.port, err)
	}
	return nil
}

// telnetHandler runs one farmer session per telnet connection. The telnet
// server calls HandleTelnet on its own goroutine per connection.
type telnetHandler struct {
	cm     *ConnectionManager
	conns  *connGroup
	logger *slog.Logger
}

func (h *telnetHandler) HandleTelnet(conn *telnet.Connection) {
	h.conns.Run(func(ctx context.Context) {
		defer func() {
			if err := conn.Close(); err != nil {
				h.logger.Warn("closing telnet connection", "error", err)
			}
		}()

		h.logger.InfoContext(ctx, "telnet connection established")
		h.cm.AcceptConnection(ctx, newLineEndings(conn))
	})
}
