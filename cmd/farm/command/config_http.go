package command

import (
	"fmt"
	"net"

	"github.com/pixil98/go-errors"
)

// HTTPConfig enables the JSON API when Addr is set.
type HTTPConfig struct {
	Addr        string `json:"addr,omitempty"`
	IdleTimeout string `json:"idle_timeout,omitempty"`
}

func (c *HTTPConfig) validate() error {
	el := errors.NewErrorList()

	if c.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Addr); err != nil {
			el.Add(fmt.Errorf("http: invalid addr %q: %w", c.Addr, err))
		}
	}
	if _, err := parseOptionalDuration("idle_timeout", c.IdleTimeout); err != nil {
		el.Add(fmt.Errorf("http: %w", err))
	}

	return el.Err()
}

func (c *HTTPConfig) enabled() bool {
	return c.Addr != ""
}
