package services

import (
	"sync"
	"time"

	"auction-engine/internal/domain"
)

// LotClock is the per-lot countdown. It fires exactly one expiry callback
// per Start/Reset cycle: every Start, Reset, Pause and Stop bumps a
// generation counter, so an AfterFunc armed for a prior cycle finds itself
// stale and does nothing. The callback runs outside the clock lock.
type LotClock struct {
	mu         sync.Mutex
	onExpiry   func()
	timer      *time.Timer
	deadline   time.Time
	frozen     time.Duration // remaining time while paused
	running    bool
	paused     bool
	generation uint64
}

var _ domain.Countdown = (*LotClock)(nil)

func NewLotClock(onExpiry func()) *LotClock {
	return &LotClock{onExpiry: onExpiry}
}

func (c *LotClock) Start(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armLocked(d)
}

// Reset cancels any pending expiry from the prior cycle and restarts the
// countdown at the full duration.
func (c *LotClock) Reset(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armLocked(d)
}

// Pause freezes the remaining time. Pausing an already paused or stopped
// clock is a no-op, so the frozen remainder never drifts.
func (c *LotClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	c.generation++
	c.stopTimerLocked()
	c.frozen = time.Until(c.deadline)
	if c.frozen < 0 {
		c.frozen = 0
	}
	c.running = false
	c.paused = true
}

// Resume restarts the countdown with the time that remained at Pause.
func (c *LotClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused {
		return
	}
	c.armLocked(c.frozen)
}

// Extend adds time to the active cycle without restarting it.
func (c *LotClock) Extend(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.running:
		c.armLocked(time.Until(c.deadline) + d)
	case c.paused:
		c.frozen += d
	}
}

func (c *LotClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.stopTimerLocked()
	c.running = false
	c.paused = false
	c.frozen = 0
}

func (c *LotClock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.running:
		if remaining := time.Until(c.deadline); remaining > 0 {
			return remaining
		}
		return 0
	case c.paused:
		return c.frozen
	default:
		return 0
	}
}

func (c *LotClock) armLocked(d time.Duration) {
	if d < 0 {
		d = 0
	}

	c.generation++
	c.stopTimerLocked()

	generation := c.generation
	c.deadline = time.Now().Add(d)
	c.running = true
	c.paused = false
	c.frozen = 0
	c.timer = time.AfterFunc(d, func() {
		c.fire(generation)
	})
}

func (c *LotClock) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *LotClock) fire(generation uint64) {
	c.mu.Lock()
	if generation != c.generation || !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.timer = nil
	c.mu.Unlock()

	if c.onExpiry != nil {
		c.onExpiry()
	}
}
