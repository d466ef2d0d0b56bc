package command

import (
	"fmt"

	"github.com/pixil98/go-farm/internal/driver"
	"github.com/pixil98/go-farm/internal/httpapi"
	"github.com/pixil98/go-farm/internal/listener"
	"github.com/pixil98/go-farm/internal/player"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tick, err := cfg.tickInterval()
	if err != nil {
		return nil, err
	}

	store, err := cfg.Storage.BuildStore()
	if err != nil {
		return nil, fmt.Errorf("creating save store: %w", err)
	}

	cmdHandler, err := cfg.Farm.BuildCommandHandler()
	if err != nil {
		return nil, err
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	pm := player.NewPlayerManager(cmdHandler, store,
		player.WithEventBus(natsServer),
		player.WithRules(cfg.Farm.Rules()),
		player.WithGameOpts(cfg.Farm.GameOpts()...),
		player.WithIdleTimeout(cfg.Farm.idleTimeout()),
		player.WithColor(cfg.Farm.Color),
	)
	managers := []driver.Manager{pm}

	// Create Listeners
	cm := listener.NewConnectionManager(pm)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = w
	}

	workers := service.WorkerList{
		"nats":      natsServer,
		"players":   pm,
		"listeners": &listeners,
	}

	if cfg.HTTP.enabled() {
		httpIdle, _ := parseOptionalDuration("idle_timeout", cfg.HTTP.IdleTimeout)
		farms := httpapi.NewRegistry(store,
			httpapi.WithPublisher(natsServer),
			httpapi.WithRules(cfg.Farm.Rules()),
			httpapi.WithGameOpts(cfg.Farm.GameOpts()...),
			httpapi.WithIdleTimeout(httpIdle),
		)
		managers = append(managers, farms)
		workers["http"] = httpapi.NewServer(cfg.HTTP.Addr, farms)
	}

	// Setup the farm driver
	workers["driver"] = driver.NewFarmDriver(managers, driver.WithTickLength(tick))

	return workers, nil
}
