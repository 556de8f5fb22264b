package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mverett/fabula/internal/logging"
)

// countingTicker records delivered ticks.
type countingTicker struct {
	mu    sync.Mutex
	ticks []time.Time
}

func (c *countingTicker) Tick(now time.Time) {
	c.mu.Lock()
	c.ticks = append(c.ticks, now)
	c.mu.Unlock()
}

func (c *countingTicker) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ticks)
}

func TestDriver_DeliversTicks(t *testing.T) {
	target := &countingTicker{}
	d := NewDriver(target, 5*time.Millisecond, logging.Nop())

	require.NoError(t, d.Start(context.Background()))
	defer func() { _ = d.Stop() }()

	require.Eventually(t, func() bool {
		return target.count() >= 3
	}, time.Second, time.Millisecond)
}

func TestDriver_InitialTickIsImmediate(t *testing.T) {
	target := &countingTicker{}
	d := NewDriver(target, time.Hour, logging.Nop())

	require.NoError(t, d.Start(context.Background()))
	defer func() { _ = d.Stop() }()

	require.Eventually(t, func() bool {
		return target.count() == 1
	}, time.Second, time.Millisecond, "first tick arrives without waiting out the interval")
}

func TestDriver_DoubleStart(t *testing.T) {
	d := NewDriver(&countingTicker{}, 5*time.Millisecond, logging.Nop())

	require.NoError(t, d.Start(context.Background()))
	defer func() { _ = d.Stop() }()

	assert.Error(t, d.Start(context.Background()))
}

func TestDriver_StopHaltsLoop(t *testing.T) {
	target := &countingTicker{}
	d := NewDriver(target, time.Millisecond, logging.Nop())

	require.NoError(t, d.Start(context.Background()))
	require.NoError(t, d.Stop())

	n := target.count()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, target.count(), "no ticks after Stop returns")

	require.NoError(t, d.Stop(), "second Stop is a no-op")
}

func TestDriver_RestartAfterStop(t *testing.T) {
	target := &countingTicker{}
	d := NewDriver(target, 5*time.Millisecond, logging.Nop())

	require.NoError(t, d.Start(context.Background()))
	require.NoError(t, d.Stop())
	require.NoError(t, d.Start(context.Background()))
	defer func() { _ = d.Stop() }()

	require.Eventually(t, func() bool {
		return target.count() >= 2
	}, time.Second, time.Millisecond)
}

func TestDriver_ContextCancelStopsLoop(t *testing.T) {
	target := &countingTicker{}
	d := NewDriver(target, time.Millisecond, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Start(ctx))
	cancel()

	require.Eventually(t, func() bool {
		n := target.count()
		time.Sleep(5 * time.Millisecond)
		return target.count() == n
	}, time.Second, 10*time.Millisecond)
}

func TestNewDriver_DefaultsInterval(t *testing.T) {
	d := NewDriver(&countingTicker{}, 0, logging.Nop())
	assert.Equal(t, DefaultInterval, d.interval)
}

func TestNewDriver_NilLoggerDiscards(t *testing.T) {
	target := &countingTicker{}
	d := NewDriver(target, time.Millisecond, nil)

	require.NoError(t, d.Start(context.Background()))
	require.NoError(t, d.Stop())
	assert.GreaterOrEqual(t, target.count(), 1)
}
