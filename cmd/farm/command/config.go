package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string           `json:"tick_interval"`
	Listeners    []ListenerConfig `json:"listeners"`
	Storage      StorageConfig    `json:"storage"`
	Nats         NatsConfig       `json:"nats"`
	Farm         FarmConfig       `json:"farm"`
	HTTP         HTTPConfig       `json:"http"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if _, err := c.tickInterval(); err != nil {
		el.Add(err)
	}

	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Farm.validate())
	el.Add(c.HTTP.validate())

	return el.Err()
}

func (c *Config) tickInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0, fmt.Errorf("parsing tick_interval: %w", err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("tick_interval must be at least 1 second")
	}
	return d, nil
}

// parseOptionalDuration parses s, treating the empty string as zero.
func parseOptionalDuration(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return d, nil
}
