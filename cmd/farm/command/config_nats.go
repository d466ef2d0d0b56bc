package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-farm/internal/messaging"
)

type NatsConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
	// ServerName tells farms sharing a host apart.
	ServerName string `json:"server_name,omitempty"`
	MaxPayload int32  `json:"max_payload,omitempty"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if _, err := parseOptionalDuration("start_timeout", n.StartTimeout); err != nil {
		el.Add(err)
	}
	if n.Port < -1 || n.Port > 65535 {
		el.Add(fmt.Errorf("nats port %d is out of range", n.Port))
	}
	if n.MaxPayload < 0 {
		el.Add(fmt.Errorf("nats max_payload must not be negative"))
	}

	return el.Err()
}

func (c *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	d, err := parseOptionalDuration("start_timeout", c.StartTimeout)
	if err != nil {
		return nil, err
	}
	if d > 0 {
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}
	if c.ServerName != "" {
		opts = append(opts, messaging.WithServerName(c.ServerName))
	}
	if c.MaxPayload > 0 {
		opts = append(opts, messaging.WithMaxPayload(c.MaxPayload))
	}

	s, err := messaging.NewNatsServer(opts...)
	if err != nil {
		return nil, err
	}

	return s, nil
}
