// Package ebitenclock adapts the Ebitengine update loop to motion's
// FrameClock contract. Create one Clock, call Update from your
// ebiten.Game.Update each tick, and pass the clock to any motion timeline
// or gesture.
package ebitenclock

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/motion"
)

// Clock is a FrameClock pumped by an ebiten update loop. Timestamps advance
// by the nominal tick interval (1000/TPS milliseconds) per Update, which
// keeps them monotonic and deterministic regardless of wall-clock jitter.
type Clock struct {
	now     float64
	nextID  motion.FrameToken
	pending map[motion.FrameToken]func(float64)
	order   []motion.FrameToken
}

// New returns a Clock starting at timestamp 0.
func New() *Clock {
	return &Clock{pending: make(map[motion.FrameToken]func(float64))}
}

// Schedule registers fn to run on the next Update.
func (c *Clock) Schedule(fn func(timestamp float64)) motion.FrameToken {
	c.nextID++
	id := c.nextID
	c.pending[id] = fn
	c.order = append(c.order, id)
	return id
}

// Cancel discards a pending callback; unknown tokens are ignored.
func (c *Clock) Cancel(token motion.FrameToken) {
	delete(c.pending, token)
}

// Now returns the clock's current timestamp in milliseconds.
func (c *Clock) Now() float64 {
	return c.now
}

// Update advances the clock by one tick and fires every callback scheduled
// before this call. Call it once per ebiten.Game.Update. Callbacks
// scheduled during dispatch run on the next Update; callbacks cancelled
// during dispatch do not run.
func (c *Clock) Update() {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	c.now += 1000.0 / float64(tps)

	batch := c.order
	c.order = nil
	for _, id := range batch {
		fn, ok := c.pending[id]
		if !ok {
			continue
		}
		delete(c.pending, id)
		fn(c.now)
	}
}
