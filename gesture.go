package motion

import (
	"log/slog"
	"math"
)

// DefaultActivationDistance is a reasonable drag dead zone in pixels for
// hosts that want to distinguish an intentional drag from a click without
// tuning: movement below it never activates the gesture.
const DefaultActivationDistance = 4.0

// ValueTarget is one numeric value a gesture drives, typically an element's
// translation on one axis. Get is read once at interaction start to
// snapshot the origin; Set receives every clamped update.
type ValueTarget struct {
	Get func() float64
	Set func(value float64)
}

// GestureState is a snapshot of an interaction, passed to the gesture
// callbacks. Delta and Velocity are zeroed whenever an interaction
// (re)starts.
type GestureState struct {
	IsActive     bool
	Delta        Vec2
	Velocity     Vec2
	StartPoint   Vec2
	CurrentPoint Vec2
}

// GestureConfig configures a Gesture.
type GestureConfig struct {
	// Axis restricts movement; the constrained axis's deltas and velocity
	// are zeroed.
	Axis Axis
	// ActivationDistance is the drag dead zone in pixels: moves whose
	// Euclidean distance from the start point is below it are ignored
	// entirely (no delta, no velocity sample, no callback). Zero disables
	// the threshold.
	ActivationDistance float64
	// MinX/MaxX/MinY/MaxY clamp the driven values per axis. Nil means
	// unbounded on that side.
	MinX, MaxX *float64
	MinY, MaxY *float64
	// Release, when set, springs the driven values back to their
	// interaction origin on release, seeded with the measured velocity.
	// From, To, and InitialVelocity are filled in per axis; only the
	// physics parameters are read.
	Release *SpringConfig
	// ReleaseDuration is the estimated duration for release springs in
	// milliseconds. Zero means the spring default.
	ReleaseDuration float64
	// Sampler is forwarded to release springs.
	Sampler SpringSampler
	// Callbacks. A panicking callback is logged and does not corrupt the
	// interaction state.
	OnStart func(GestureState)
	OnMove  func(GestureState)
	OnEnd   func(GestureState)
	// Logger receives callback-panic reports and release diagnostics. Nil
	// discards them.
	Logger *slog.Logger
}

// Gesture tracks one active pointer interaction over up to two driven
// values: start point, live constrained delta, and release velocity. It is
// long-lived: one Gesture per interactive element, re-used across
// interactions. Only one interaction may be active at a time; Start while
// active is a no-op.
type Gesture struct {
	clock   FrameClock
	cfg     GestureConfig
	log     *slog.Logger
	tracker *VelocityTracker
	x, y    ValueTarget

	active    bool
	activated bool // passed the dead zone
	start     Vec2
	current   Vec2
	origin    Vec2
	delta     Vec2
	velocity  Vec2

	releases []*SpringTimeline
}

// NewGesture builds a gesture over the given driven values. Either target
// may be the zero value if the gesture only drives one axis.
func NewGesture(clock FrameClock, cfg GestureConfig, x, y ValueTarget) *Gesture {
	return &Gesture{
		clock:   clock,
		cfg:     cfg,
		log:     orDiscard(cfg.Logger),
		tracker: NewVelocityTracker(),
		x:       x,
		y:       y,
	}
}

// Start begins an interaction at p: snapshots the driven values as the
// interaction origin, resets the velocity tracker, and fires OnStart.
// No-op if an interaction is already active.
func (g *Gesture) Start(p Sample) {
	if g.active {
		return
	}
	g.active = true
	g.activated = g.cfg.ActivationDistance <= 0
	g.start = Vec2{X: p.X, Y: p.Y}
	g.current = g.start
	g.delta = Vec2{}
	g.velocity = Vec2{}
	g.origin = Vec2{X: g.read(g.x), Y: g.read(g.y)}
	g.tracker.Reset()
	g.tracker.AddPoint(p)
	g.cancelReleases()
	g.emit(g.cfg.OnStart)
}

// Move advances the interaction. Moves inside the activation dead zone are
// ignored completely. Otherwise the delta is axis-constrained, fed to the
// velocity tracker, clamped against the configured min/max, written to the
// driven values, and OnMove fires.
func (g *Gesture) Move(p Sample) {
	if !g.active {
		return
	}
	dx := p.X - g.start.X
	dy := p.Y - g.start.Y

	if !g.activated {
		if math.Hypot(dx, dy) < g.cfg.ActivationDistance {
			return
		}
		g.activated = true
	}

	switch g.cfg.Axis {
	case AxisX:
		dy = 0
	case AxisY:
		dx = 0
	}

	g.tracker.AddPoint(Sample{X: g.start.X + dx, Y: g.start.Y + dy, Timestamp: p.Timestamp})
	g.current = Vec2{X: p.X, Y: p.Y}
	g.delta = Vec2{X: dx, Y: dy}

	g.write(g.x, clampPtr(g.origin.X+dx, g.cfg.MinX, g.cfg.MaxX))
	g.write(g.y, clampPtr(g.origin.Y+dy, g.cfg.MinY, g.cfg.MaxY))
	g.emit(g.cfg.OnMove)
}

// End finishes the interaction: the release velocity is finalized from the
// tracker, OnEnd fires, and — when a release spring is configured — each
// driven axis springs back to its interaction origin seeded with that
// velocity.
func (g *Gesture) End() {
	if !g.active {
		return
	}
	g.velocity = g.tracker.Velocity()
	switch g.cfg.Axis {
	case AxisX:
		g.velocity.Y = 0
	case AxisY:
		g.velocity.X = 0
	}
	g.active = false
	g.activated = false
	g.emit(g.cfg.OnEnd)

	if g.cfg.Release != nil {
		g.springBack()
	}
}

// Cancel abandons the interaction without firing OnEnd or starting release
// springs. No-op when idle.
func (g *Gesture) Cancel() {
	if !g.active {
		return
	}
	g.active = false
	g.activated = false
}

// Reset clears all interaction state, including the velocity tracker, and
// cancels any running release springs. Call between logical interactions
// when re-using the gesture for a new element state.
func (g *Gesture) Reset() {
	g.active = false
	g.activated = false
	g.delta = Vec2{}
	g.velocity = Vec2{}
	g.tracker.Reset()
	g.cancelReleases()
}

// State returns a snapshot of the interaction.
func (g *Gesture) State() GestureState {
	return GestureState{
		IsActive:     g.active,
		Delta:        g.delta,
		Velocity:     g.velocity,
		StartPoint:   g.start,
		CurrentPoint: g.current,
	}
}

// ReleaseTimelines returns the spring timelines started by the most recent
// release, so hosts can cancel or observe them.
func (g *Gesture) ReleaseTimelines() []*SpringTimeline {
	return g.releases
}

// springBack starts one spring per driven axis, targeting the interaction
// origin with the finalized velocity as the initial velocity.
func (g *Gesture) springBack() {
	g.releases = g.releases[:0]
	if g.x.Set != nil && g.cfg.Axis != AxisY {
		g.releases = append(g.releases, g.releaseSpring(g.x, g.read(g.x), g.origin.X, g.velocity.X))
	}
	if g.y.Set != nil && g.cfg.Axis != AxisX {
		g.releases = append(g.releases, g.releaseSpring(g.y, g.read(g.y), g.origin.Y, g.velocity.Y))
	}
}

func (g *Gesture) releaseSpring(target ValueTarget, from, to, velocity float64) *SpringTimeline {
	spring := *g.cfg.Release
	spring.From = from
	spring.To = to
	spring.InitialVelocity = velocity
	st := NewSpringTimeline(g.clock, SpringTimelineConfig{
		Spring:            spring,
		EstimatedDuration: g.cfg.ReleaseDuration,
		Sampler:           g.cfg.Sampler,
		Logger:            g.cfg.Logger,
	}, target.Set)
	st.Play()
	return st
}

func (g *Gesture) cancelReleases() {
	for _, st := range g.releases {
		st.Cancel()
	}
	g.releases = g.releases[:0]
}

func (g *Gesture) read(t ValueTarget) float64 {
	if t.Get == nil {
		return 0
	}
	return t.Get()
}

func (g *Gesture) write(t ValueTarget, v float64) {
	if t.Set == nil {
		return
	}
	t.Set(v)
}

// emit runs a gesture callback with the same panic isolation as timeline
// subscribers.
func (g *Gesture) emit(fn func(GestureState)) {
	if fn == nil {
		return
	}
	state := g.State()
	defer func() {
		if r := recover(); r != nil {
			g.log.Error("gesture callback panicked", "recovered", r)
		}
	}()
	fn(state)
}

// clampPtr limits v to the optionally-present bounds.
func clampPtr(v float64, lo, hi *float64) float64 {
	if lo != nil && v < *lo {
		v = *lo
	}
	if hi != nil && v > *hi {
		v = *hi
	}
	return v
}
