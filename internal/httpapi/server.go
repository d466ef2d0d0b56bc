package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
)

const shutdownTimeout = 5 * time.Second

// Server serves the farm API until its context ends.
type Server struct {
	addr    string
	handler Handler
}

func NewServer(addr string, farms *Registry) *Server {
	return &Server{
		addr:    addr,
		handler: Handler{Farms: farms},
	}
}

func (s *Server) Start(ctx context.Context) error {
	h := server.New(
		server.WithHostPorts(s.addr),
		server.WithExitWaitTime(shutdownTimeout),
	)
	s.handler.RegisterRoutes(h)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := h.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutting down http api", "error", err)
		}
	}()

	slog.InfoContext(ctx, "serving http api", "addr", s.addr)
	if err := h.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serving http api on %s: %w", s.addr, err)
	}
	return nil
}
