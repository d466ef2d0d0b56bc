package messaging

import "time"

const (
	// DefaultServerName names the embedded server and its internal client.
	DefaultServerName = "go-farm"
	// DefaultMaxPayload bounds a published message. Farm events are a few
	// hundred bytes.
	DefaultMaxPayload int32 = 64 * 1024
)

type NatsServerOpt func(*NatsServer)

// WithStartTimeout bounds how long Start waits for the server to accept
// connections.
func WithStartTimeout(d time.Duration) NatsServerOpt {
	return func(n *NatsServer) {
		n.startupTimeout = d
	}
}

func WithHost(host string) NatsServerOpt {
	return func(n *NatsServer) {
		n.opts.Host = host
	}
}

// WithPort sets the client port. -1 picks a free port and 0 keeps the NATS
// default.
func WithPort(port int) NatsServerOpt {
	return func(n *NatsServer) {
		n.opts.Port = port
	}
}

// WithServerName names the server and the internal client connection, so
// one farm's traffic is recognisable when several share a host.
func WithServerName(name string) NatsServerOpt {
	return func(n *NatsServer) {
		n.opts.ServerName = name
		n.clientName = name
	}
}

// WithMaxPayload bounds the size of a published message.
func WithMaxPayload(bytes int32) NatsServerOpt {
	return func(n *NatsServer) {
		n.opts.MaxPayload = bytes
	}
}
