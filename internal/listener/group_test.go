package listener

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestConnGroup_CloseEndsAndWaits(t *testing.T) {
	g := newConnGroup()

	var finished atomic.Int32
	started := make(chan struct{}, 2)
	serve := func(ctx context.Context) {
		started <- struct{}{}
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		finished.Add(1)
	}

	g.Go(serve)
	go g.Run(serve)
	<-started
	<-started

	g.Close()
	testutil.AssertEqual(t, "finished", finished.Load(), int32(2))
}
