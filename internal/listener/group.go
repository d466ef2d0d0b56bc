package listener

import (
	"context"
	"sync"
)

// connGroup tracks a listener's open connections so shutdown can end them
// all and wait until every farmer session has returned.
type connGroup struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// newConnGroup detaches from the accept context: sessions are ended by Close,
// not by the listener losing its socket.
func newConnGroup() *connGroup {
	ctx, cancel := context.WithCancel(context.Background())
	return &connGroup{ctx: ctx, cancel: cancel}
}

// Run serves one connection on the calling goroutine.
func (g *connGroup) Run(fn func(ctx context.Context)) {
	g.wg.Add(1)
	defer g.wg.Done()
	fn(g.ctx)
}

// Go serves one connection on a new goroutine.
func (g *connGroup) Go(fn func(ctx context.Context)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn(g.ctx)
	}()
}

// Close ends every connection and waits for them.
func (g *connGroup) Close() {
	g.cancel()
	g.wg.Wait()
}
