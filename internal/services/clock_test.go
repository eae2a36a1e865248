package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockFiresExactlyOncePerCycle(t *testing.T) {
	var fired int64
	clock := NewLotClock(func() { atomic.AddInt64(&fired, 1) })

	clock.Start(30 * time.Millisecond)
	time.Sleep(120 * time.Millisecond)

	assert.Equal(t, int64(1), atomic.LoadInt64(&fired))
	assert.Equal(t, time.Duration(0), clock.Remaining())
}

func TestClockResetCancelsPendingExpiry(t *testing.T) {
	var fired int64
	clock := NewLotClock(func() { atomic.AddInt64(&fired, 1) })

	clock.Start(50 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	clock.Reset(100 * time.Millisecond)

	// Past the original deadline, before the new one.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&fired))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fired))
}

func TestClockPausePreservesRemaining(t *testing.T) {
	var fired int64
	clock := NewLotClock(func() { atomic.AddInt64(&fired, 1) })

	clock.Start(200 * time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	clock.Pause()

	frozen := clock.Remaining()
	assert.Greater(t, frozen, time.Duration(0))
	assert.Less(t, frozen, 200*time.Millisecond)

	// A paused clock never fires and its remainder never drifts.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&fired))
	assert.Equal(t, frozen, clock.Remaining())

	// Pausing again is a no-op.
	clock.Pause()
	assert.Equal(t, frozen, clock.Remaining())

	clock.Resume()
	time.Sleep(frozen + 80*time.Millisecond)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fired))
}

func TestClockStopCancelsExpiry(t *testing.T) {
	var fired int64
	clock := NewLotClock(func() { atomic.AddInt64(&fired, 1) })

	clock.Start(30 * time.Millisecond)
	clock.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&fired))
	assert.Equal(t, time.Duration(0), clock.Remaining())
}

func TestClockExtendPushesDeadline(t *testing.T) {
	var fired int64
	clock := NewLotClock(func() { atomic.AddInt64(&fired, 1) })

	clock.Start(50 * time.Millisecond)
	clock.Extend(150 * time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&fired))

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int64(1), atomic.LoadInt64(&fired))
}

func TestClockExtendWhilePaused(t *testing.T) {
	clock := NewLotClock(nil)

	clock.Start(100 * time.Millisecond)
	clock.Pause()
	frozen := clock.Remaining()

	clock.Extend(50 * time.Millisecond)
	assert.Equal(t, frozen+50*time.Millisecond, clock.Remaining())
}
