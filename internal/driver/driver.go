package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

// Manager is housekeeping run once per tick, such as sweeping idle sessions.
type Manager interface {
	Tick(context.Context) error
}

type FarmDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewFarmDriver(managers []Manager, opts ...FarmDriverOpt) *FarmDriver {
	d := &FarmDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *FarmDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick", d.tickLength, "managers", len(d.managers))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *FarmDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
