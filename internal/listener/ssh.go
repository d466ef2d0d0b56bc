package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"golang.org/x/crypto/ssh"
)

// SshListener serves farmers over ssh. Any client key or none is accepted;
// the ssh user name is taken as the farmer name when it is a valid one.
type SshListener struct {
	port    uint16
	cm      *ConnectionManager
	hostKey ssh.Signer
}

func NewSshListener(port uint16, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	return &SshListener{
		port:    port,
		cm:      cm,
		hostKey: hostKey,
	}
}

// Start serves ssh farmers until ctx ends, then closes their sessions.
func (l *SshListener) Start(ctx context.Context) error {
	config := &ssh.ServerConfig{
		NoClientAuth: true,
	}
	config.AddHostKey(l.hostKey)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}
	logger := slog.Default().With("listener", "ssh", "port", l.port)
	logger.InfoContext(ctx, "listening for ssh")

	conns := newConnGroup()
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				conns.Close()
				return nil
			default:
			}
			logger.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		conns.Go(func(ctx context.Context) {
			l.handleConnection(ctx, logger, conn, config)
		})
	}
}

func (l *SshListener) handleConnection(ctx context.Context, logger *slog.Logger, conn net.Conn, config *ssh.ServerConfig) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		logger.WarnContext(ctx, "ssh handshake", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer sshConn.Close()

	farmer := sshConn.User()
	logger.InfoContext(ctx, "ssh connection established", "remote", conn.RemoteAddr(), "user", farmer)

	// Closing the connection ends the channel loop below.
	go func() {
		<-ctx.Done()
		sshConn.Close()
	}()
	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			_ = newChan.Reject(ssh.UnknownChannelType, "only shell sessions are served")
			continue
		}
		l.serveChannel(ctx, logger, newChan, farmer)
	}
}

// serveChannel plays one farm session on an ssh session channel once the
// client has asked for a shell.
func (l *SshListener) serveChannel(ctx context.Context, logger *slog.Logger, newChan ssh.NewChannel, farmer string) {
	ch, requests, err := newChan.Accept()
	if err != nil {
		logger.ErrorContext(ctx, "accepting ssh channel", "error", err)
		return
	}
	defer ch.Close()

	// Clients forward no input until the shell request is answered.
	shellReady := make(chan struct{})
	go func() {
		for req := range requests {
			switch req.Type {
			case "shell":
				_ = req.Reply(true, nil)
				close(shellReady)
			default:
				// Without a pty the client keeps local echo and line editing.
				_ = req.Reply(false, nil)
			}
		}
	}()

	select {
	case <-shellReady:
	case <-ctx.Done():
		return
	}

	l.cm.AcceptFarmer(ctx, newLineEndings(ch), farmer)
}
