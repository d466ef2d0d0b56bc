package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// NatsServer runs an embedded NATS server and holds an internal client
// connection for publishing and subscribing.
type NatsServer struct {
	ns *server.Server

	mu   sync.RWMutex
	conn *nats.Conn

	ready          chan struct{}
	startupTimeout time.Duration
	opts           server.Options
	clientName     string
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		ready:          make(chan struct{}),
		startupTimeout: 10 * time.Second,
		opts: server.Options{
			Host:       "127.0.0.1",
			ServerName: DefaultServerName,
			MaxPayload: DefaultMaxPayload,
			NoSigs:     true, // Let the application handle signals
		},
		clientName: DefaultServerName,
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&s.opts)
	if err != nil {
		return nil, err
	}

	s.ns = ns
	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	// Create internal client connection
	conn, err := nats.Connect(n.ns.ClientURL(), nats.Name(n.clientName))
	if err != nil {
		return fmt.Errorf("creating nats client connection: %w", err)
	}

	n.mu.Lock()
	n.conn = conn
	n.mu.Unlock()
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr(), "name", n.opts.ServerName)

	<-ctx.Done()

	n.mu.Lock()
	n.conn.Close()
	n.conn = nil
	n.mu.Unlock()

	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// Ready is closed once the server accepts connections.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// Subscribe creates a subscription on the given subject.
// The handler is called for each message received.
// Returns an unsubscribe function to remove the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.conn == nil {
		return nil, fmt.Errorf("nats server not started")
	}
	sub, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Publish sends a message to the given subject
func (n *NatsServer) Publish(subject string, data []byte) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.conn == nil {
		return fmt.Errorf("nats server not started")
	}
	return n.conn.Publish(subject, data)
}

// Flush waits until the server has processed everything published so far.
func (n *NatsServer) Flush() error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.conn == nil {
		return fmt.Errorf("nats server not started")
	}
	return n.conn.Flush()
}
