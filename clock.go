package motion

// FrameToken identifies one pending frame callback so it can be cancelled
// before it fires. Tokens are never reused within one clock.
type FrameToken uint64

// FrameClock is the host-provided per-frame scheduling primitive. Schedule
// registers a callback to run on the next frame and returns a token; Cancel
// discards a pending callback. A cancelled callback must never fire, even
// if the frame it was queued for is already being dispatched.
//
// Timestamps passed to callbacks are in milliseconds and must increase
// monotonically across calls within one run.
type FrameClock interface {
	Schedule(fn func(timestamp float64)) FrameToken
	Cancel(token FrameToken)
}

// ManualClock is a FrameClock advanced by hand. It exists for tests and
// headless hosts: each Advance call moves time forward and fires every
// callback that was scheduled before the call, exactly once.
type ManualClock struct {
	now     float64
	nextID  FrameToken
	pending map[FrameToken]func(float64)
	order   []FrameToken
}

// NewManualClock returns a ManualClock starting at timestamp 0.
func NewManualClock() *ManualClock {
	return &ManualClock{pending: make(map[FrameToken]func(float64))}
}

// Schedule registers fn to run on the next Advance.
func (c *ManualClock) Schedule(fn func(timestamp float64)) FrameToken {
	c.nextID++
	id := c.nextID
	c.pending[id] = fn
	c.order = append(c.order, id)
	return id
}

// Cancel discards a pending callback. Cancelling an unknown or already-fired
// token is a no-op.
func (c *ManualClock) Cancel(token FrameToken) {
	delete(c.pending, token)
}

// Now returns the clock's current timestamp in milliseconds.
func (c *ManualClock) Now() float64 {
	return c.now
}

// Advance moves the clock forward by dt milliseconds and fires, in
// scheduling order, every callback that was pending when Advance was
// called. Callbacks scheduled during dispatch run on the next Advance.
// Callbacks cancelled during dispatch do not run.
func (c *ManualClock) Advance(dt float64) {
	c.now += dt
	batch := c.order
	c.order = nil
	for _, id := range batch {
		fn, ok := c.pending[id]
		if !ok {
			continue // cancelled
		}
		delete(c.pending, id)
		fn(c.now)
	}
}

// AdvanceFrames calls Advance(dt) n times. Convenient for driving an
// animation across many uniform frames in tests.
func (c *ManualClock) AdvanceFrames(n int, dt float64) {
	for i := 0; i < n; i++ {
		c.Advance(dt)
	}
}
