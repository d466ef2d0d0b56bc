package listener

import (
	"context"
	"io"
	"log/slog"

	"github.com/pixil98/go-farm/internal/player"
)

// ConnectionManager hands accepted connections to farmer sessions.
type ConnectionManager struct {
	pm *player.PlayerManager
}

func NewConnectionManager(pm *player.PlayerManager) *ConnectionManager {
	return &ConnectionManager{
		pm: pm,
	}
}

// AcceptConnection runs a session that starts at the login prompt.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.pm.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "farmer session", "error", err)
	}
}

// AcceptFarmer runs a session for a farmer the transport already named.
func (m *ConnectionManager) AcceptFarmer(ctx context.Context, conn io.ReadWriter, name string) {
	if err := m.pm.RunNamedSession(ctx, conn, name); err != nil {
		slog.WarnContext(ctx, "farmer session", "farmer", name, "error", err)
	}
}
