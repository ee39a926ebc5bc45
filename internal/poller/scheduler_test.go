package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura-radar/internal/runloop"
)

type countingPoller struct {
	name  string
	ticks atomic.Int32
	delay time.Duration
}

func (c *countingPoller) Name() string { return c.name }

func (c *countingPoller) Tick(ctx context.Context) error {
	c.ticks.Add(1)
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
		}
	}
	return nil
}

func TestSchedulerTicksImmediatelyAndPeriodically(t *testing.T) {
	fast := &countingPoller{name: "fast"}
	slow := &countingPoller{name: "slow"}

	loop := runloop.New(8)
	s := NewScheduler(loop, zerolog.Nop(),
		Job{Poller: fast, Interval: 10 * time.Millisecond},
		Job{Poller: slow, Interval: time.Hour},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return fast.ticks.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return slow.ticks.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	assert.False(t, loop.Post(func() {}), "loop is torn down with the scheduler")
}

func TestSlowTickDoesNotBlockSchedule(t *testing.T) {
	slow := &countingPoller{name: "slow", delay: time.Second}
	s := NewScheduler(nil, zerolog.Nop(), Job{Poller: slow, Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Ticks overlap: more than one starts while the first is still sleeping.
	assert.Eventually(t, func() bool { return slow.ticks.Load() >= 3 }, 500*time.Millisecond, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
