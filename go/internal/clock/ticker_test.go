package clock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	n atomic.Int32
}

func (c *counter) Tick() { c.n.Add(1) }

func TestTickerRun(t *testing.T) {
	fake := clockwork.NewFakeClock()
	target := &counter{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewTicker(fake, target).Run(ctx)
		close(done)
	}()

	require.NoError(t, fake.BlockUntilContext(ctx, 1))
	for i := 1; i <= 3; i++ {
		fake.Advance(Interval)
		want := int32(i)
		assert.Eventually(t, func() bool { return target.n.Load() == want }, time.Second, time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop after cancel")
	}
	assert.Equal(t, int32(3), target.n.Load())
}
