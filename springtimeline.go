package motion

import (
	"log/slog"
	"math"
)

// defaultEstimatedDuration bounds a spring run when the caller gives no
// hint. It is a safety cap, not an accuracy target: pathological parameters
// (near-zero damping) would otherwise oscillate forever.
const defaultEstimatedDuration = 2000.0

// springFrameMS is the nominal frame interval used to derive the pre-solve
// sample density: about one sample per frame at 60 updates per second.
// It is a tuning constant, not an accuracy bound.
const springFrameMS = 1000.0 / 60.0

// minSpringSteps is the floor on pre-solve density for very short runs.
const minSpringSteps = 60

// SpringTimelineConfig configures a SpringTimeline. The tagged split
// between this and TimelineConfig replaces any runtime sniffing of
// "does it have stiffness or duration": the caller picks the kind once.
type SpringTimelineConfig struct {
	// Spring holds the oscillator parameters and the from/to endpoints.
	Spring SpringConfig
	// EstimatedDuration in milliseconds sizes the pre-solved curve and caps
	// worst-case runtime. Zero or negative means the 2000ms default.
	EstimatedDuration float64
	// Sampler, when set, is asked for the curve before the built-in RK4
	// pre-solve. Its result is validated; anything non-finite or mis-sized
	// is discarded silently.
	Sampler SpringSampler
	// Logger receives fallback diagnostics and subscriber-panic reports.
	// Nil discards them.
	Logger *slog.Logger
}

// SpringTimeline drives a value along a pre-solved spring curve with the
// same transport contract as Timeline. The curve is solved once at
// construction, so Seek is an O(1) array lookup instead of a
// re-integration. Invalid physics parameters never surface as an error:
// the controller transparently plays a linear ramp between From and To.
type SpringTimeline struct {
	clock FrameClock
	log   *slog.Logger
	sink  ValueSink

	samples  []float64
	sampleDt float64 // ms between adjacent samples
	from, to float64
	duration float64 // estimated duration, ms
	fallback bool

	progress  float64
	velocity  float64 // units/s, finite-differenced from the curve
	reversed  bool
	playing   bool
	paused    bool
	completed bool

	startTime     float64
	lastTimestamp float64
	anchored      bool

	token     FrameToken
	scheduled bool

	subs subscriberSet
}

// NewSpringTimeline builds a spring-driven timeline. The curve source is
// tried in order: the configured closed-form sampler, the built-in RK4
// pre-solve, and finally a straight linear ramp; each stage's output is
// checked for finiteness before being accepted.
func NewSpringTimeline(clock FrameClock, cfg SpringTimelineConfig, sink ValueSink) *SpringTimeline {
	log := orDiscard(cfg.Logger)
	if sink == nil {
		sink = func(float64) {}
	}

	duration := cfg.EstimatedDuration
	if !isFinite(duration) || duration <= 0 {
		duration = defaultEstimatedDuration
	}
	steps := int(duration / springFrameMS)
	if steps < minSpringSteps {
		steps = minSpringSteps
	}

	curve := solveCurve(cfg, duration, steps, log)

	st := &SpringTimeline{
		clock:    clock,
		log:      log,
		sink:     sink,
		samples:  curve.Samples,
		sampleDt: duration / float64(steps),
		from:     curve.Samples[0],
		to:       curve.Samples[len(curve.Samples)-1],
		duration: duration,
		fallback: curve.Fallback,
	}
	// The solved tail only approximates the rest value; terminal reads and
	// the completion write use the exact target.
	if cfg.Spring.Valid() {
		st.to = cfg.Spring.To
		st.from = cfg.Spring.From
	}
	return st
}

// solveCurve picks the best available curve source for cfg.
func solveCurve(cfg SpringTimelineConfig, duration float64, steps int, log *slog.Logger) Curve {
	if cfg.Sampler != nil {
		samples := cfg.Sampler.Solve(cfg.Spring, duration, steps)
		if len(samples) == steps+1 && allFinite(samples) {
			return Curve{Samples: samples}
		}
		log.Debug("spring sampler result rejected, using RK4 pre-solve",
			"len", len(samples), "want", steps+1)
	}
	curve := PresolveSpring(cfg.Spring, duration, steps)
	if curve.Fallback {
		log.Debug("spring pre-solve fell back to linear ramp", "reason", curve.Reason)
	}
	return curve
}

func allFinite(samples []float64) bool {
	for _, s := range samples {
		if !isFinite(s) {
			return false
		}
	}
	return true
}

// OnProgress registers a listener invoked with the raw progress on every
// update.
func (st *SpringTimeline) OnProgress(fn func(progress float64)) Subscription {
	return st.subs.addProgress(fn)
}

// OnStateChange registers a listener invoked on every transport transition.
func (st *SpringTimeline) OnStateChange(fn func(state PlaybackState)) Subscription {
	return st.subs.addState(fn)
}

// Play starts or resumes playback. Resuming mid-curve reconstructs the
// current velocity from adjacent pre-solved samples so a later reverse or
// release stays physically continuous.
func (st *SpringTimeline) Play() {
	if st.completed && !st.reversed {
		st.progress = 0
	}
	st.velocity = st.velocityAt(st.progress)
	st.playing = true
	st.paused = false
	st.completed = false
	st.anchored = false
	st.scheduleNext()
	st.emitState()
}

// Pause stops advancement, keeping progress for a later resume. No-op when
// not playing.
func (st *SpringTimeline) Pause() {
	if !st.playing {
		return
	}
	st.playing = false
	st.paused = true
	st.anchored = false
	st.stopFrames()
	st.emitState()
}

// Reverse toggles direction, keeping the visual position continuous when
// playing.
func (st *SpringTimeline) Reverse() {
	st.reversed = !st.reversed
	if st.playing && st.anchored {
		st.startTime = st.lastTimestamp - st.elapsedFor(st.progress)
	}
	st.emitState()
}

// Seek jumps to a normalized progress, clamped to [0,1], firing the value
// callback immediately. Boundary seeks mark completion once per edge-cross.
func (st *SpringTimeline) Seek(progress float64) {
	st.seekTo(clamp01(progress))
}

// SeekTime jumps to a time offset in milliseconds against the estimated
// duration.
func (st *SpringTimeline) SeekTime(ms float64) {
	st.seekTo(clamp01(ms / st.duration))
}

func (st *SpringTimeline) seekTo(p float64) {
	st.progress = p
	st.velocity = st.velocityAt(p)
	st.anchored = false
	st.apply()

	if st.atTerminal() {
		if !st.completed {
			st.complete()
		}
		return
	}
	if st.completed {
		st.completed = false
		st.emitState()
	}
}

// Reset returns to progress 0, clears flags, stops the frame loop, and
// fires the value callback with the curve's start value.
func (st *SpringTimeline) Reset() {
	st.stopFrames()
	st.progress = 0
	st.velocity = 0
	st.reversed = false
	st.playing = false
	st.paused = false
	st.completed = false
	st.anchored = false
	st.apply()
	st.emitState()
}

// Cancel freezes playback in place without marking completion. Any queued
// frame callback becomes a no-op.
func (st *SpringTimeline) Cancel() {
	st.stopFrames()
	st.playing = false
	st.paused = false
	st.anchored = false
	st.emitState()
}

// Destroy cancels any pending frame callback and drops all subscribers.
func (st *SpringTimeline) Destroy() {
	st.stopFrames()
	st.playing = false
	st.paused = false
	st.subs = subscriberSet{}
}

// Value returns the driven value at the current progress.
func (st *SpringTimeline) Value() float64 { return st.valueAt(st.progress) }

// Velocity returns the approximate current velocity in units per second,
// finite-differenced from the pre-solved curve.
func (st *SpringTimeline) Velocity() float64 { return st.velocity }

// Progress returns the current normalized progress in [0,1].
func (st *SpringTimeline) Progress() float64 { return st.progress }

// CurrentTime returns progress expressed as milliseconds into the
// estimated duration.
func (st *SpringTimeline) CurrentTime() float64 { return st.progress * st.duration }

// Duration returns the estimated duration in milliseconds.
func (st *SpringTimeline) Duration() float64 { return st.duration }

// IsPlaying reports whether the frame loop is advancing.
func (st *SpringTimeline) IsPlaying() bool { return st.playing }

// IsPaused reports whether playback is paused mid-run.
func (st *SpringTimeline) IsPaused() bool { return st.paused }

// IsCompleted reports whether the run reached its terminal bound.
func (st *SpringTimeline) IsCompleted() bool { return st.completed }

// IsReversed reports the playback direction.
func (st *SpringTimeline) IsReversed() bool { return st.reversed }

// IsFallback reports whether the curve is the linear ramp substituted for
// an unusable spring result. Exposed for diagnostics; playback behavior is
// identical either way.
func (st *SpringTimeline) IsFallback() bool { return st.fallback }

// State returns a snapshot of the transport flags.
func (st *SpringTimeline) State() PlaybackState {
	return PlaybackState{
		Progress:  st.progress,
		Playing:   st.playing,
		Paused:    st.paused,
		Completed: st.completed,
		Reversed:  st.reversed,
	}
}

// valueAt reads the pre-solved curve. Terminal progress returns the exact
// endpoint, overriding the last sample, so floating-point undershoot never
// leaks out at the bounds.
func (st *SpringTimeline) valueAt(p float64) float64 {
	if p <= 0 {
		return st.from
	}
	if p >= 1 {
		return st.to
	}
	idx := int(math.Floor(p * float64(len(st.samples)-1)))
	return st.samples[idx]
}

// velocityAt finite-differences the two samples adjacent to p.
func (st *SpringTimeline) velocityAt(p float64) float64 {
	n := len(st.samples)
	idx := int(math.Floor(clamp01(p) * float64(n-1)))
	if idx >= n-1 {
		idx = n - 2
	}
	return (st.samples[idx+1] - st.samples[idx]) / (st.sampleDt / 1000.0)
}

func (st *SpringTimeline) elapsedFor(p float64) float64 {
	if st.reversed {
		return (1 - p) * st.duration
	}
	return p * st.duration
}

// tick advances one frame; stale callbacks queued before Cancel or Pause
// find playing false and do nothing.
func (st *SpringTimeline) tick(ts float64) {
	st.scheduled = false
	if !st.playing {
		return
	}
	if !st.anchored {
		st.startTime = ts - st.elapsedFor(st.progress)
		st.anchored = true
	}
	st.lastTimestamp = ts

	elapsed := ts - st.startTime
	p := elapsed / st.duration
	if st.reversed {
		p = 1 - p
	}
	st.progress = clamp01(p)
	st.velocity = st.velocityAt(st.progress)
	st.apply()

	// Completed when elapsed exceeds the estimated duration or progress
	// reaches its terminal bound; with progress derived from elapsed these
	// coincide, and atTerminal covers boundary seeks as well.
	if st.atTerminal() || elapsed >= st.duration {
		st.complete()
		return
	}
	st.scheduleNext()
}

func (st *SpringTimeline) apply() {
	st.sink(st.valueAt(st.progress))
	st.subs.emitProgress(st.log, st.progress)
}

func (st *SpringTimeline) atTerminal() bool {
	if st.reversed {
		return st.progress <= 0
	}
	return st.progress >= 1
}

// complete force-writes the exact terminal value (To forward, From
// reversed) before announcing the transition, overriding any interpolated
// undershoot from the last sample.
func (st *SpringTimeline) complete() {
	st.stopFrames()
	st.playing = false
	st.paused = false
	st.completed = true
	if st.reversed {
		st.sink(st.from)
	} else {
		st.sink(st.to)
	}
	st.velocity = 0
	st.emitState()
}

func (st *SpringTimeline) emitState() {
	st.subs.emitState(st.log, st.State())
}

func (st *SpringTimeline) scheduleNext() {
	if st.scheduled {
		return
	}
	st.token = st.clock.Schedule(st.tick)
	st.scheduled = true
}

func (st *SpringTimeline) stopFrames() {
	if st.scheduled {
		st.clock.Cancel(st.token)
		st.scheduled = false
	}
}
