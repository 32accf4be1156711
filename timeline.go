package motion

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/tanema/gween/ease"
)

// TimelineConfig configures a fixed-duration Timeline. It is deliberately
// distinct from SpringTimelineConfig: which kind of animation runs is
// decided once, at the call boundary, by which config type the caller
// constructs.
type TimelineConfig struct {
	// Duration of the run in milliseconds. Must be > 0.
	Duration float64
	// Easing shapes the value curve. Nil means ease.Linear.
	Easing ease.TweenFunc
	// Logger receives subscriber-panic reports. Nil discards them.
	Logger *slog.Logger
}

// Timeline is a seekable playback state machine over a fixed duration. Each
// frame it maps elapsed time to a normalized progress in [0,1], eases it,
// and hands the result to the value sink. Timelines are created per
// animation run and discarded afterward; construct a new one for a new run.
type Timeline struct {
	clock  FrameClock
	log    *slog.Logger
	sink   ValueSink
	easing ease.TweenFunc

	duration float64

	progress  float64
	reversed  bool
	playing   bool
	paused    bool
	completed bool

	// startTime is the synthetic anchor timestamp for the current run,
	// recomputed whenever playback (re)starts or direction changes so the
	// visual position never jumps. anchored is false until the first frame
	// after such a change.
	startTime     float64
	lastTimestamp float64
	anchored      bool

	token     FrameToken
	scheduled bool

	subs subscriberSet
}

// NewTimeline builds a Timeline driven by clock. The sink receives the
// eased progress on every update; it may be nil. Fails if the configured
// duration is not a positive finite number.
func NewTimeline(clock FrameClock, cfg TimelineConfig, sink ValueSink) (*Timeline, error) {
	if !isFinite(cfg.Duration) || cfg.Duration <= 0 {
		return nil, fmt.Errorf("motion: timeline duration must be a positive number, got %v", cfg.Duration)
	}
	easing := cfg.Easing
	if easing == nil {
		easing = ease.Linear
	}
	if sink == nil {
		sink = func(float64) {}
	}
	return &Timeline{
		clock:    clock,
		log:      orDiscard(cfg.Logger),
		sink:     sink,
		easing:   easing,
		duration: cfg.Duration,
	}, nil
}

// OnProgress registers a listener invoked with the raw progress on every
// update.
func (t *Timeline) OnProgress(fn func(progress float64)) Subscription {
	return t.subs.addProgress(fn)
}

// OnStateChange registers a listener invoked on every transport transition
// (play, pause, reverse, completion, reset, cancel).
func (t *Timeline) OnStateChange(fn func(state PlaybackState)) Subscription {
	return t.subs.addState(fn)
}

// Play starts or resumes playback. A completed forward run restarts from
// progress 0; a paused run resumes from where it stopped; anything else
// continues from the current progress.
func (t *Timeline) Play() {
	if t.completed && !t.reversed {
		t.progress = 0
	}
	t.playing = true
	t.paused = false
	t.completed = false
	t.anchored = false
	t.scheduleNext()
	t.emitState()
}

// Pause stops advancement, keeping the current progress so Play can resume
// from it. No-op when not playing.
func (t *Timeline) Pause() {
	if !t.playing {
		return
	}
	t.playing = false
	t.paused = true
	t.anchored = false
	t.stopFrames()
	t.emitState()
}

// Reverse toggles playback direction. If playing, the synthetic start time
// is recomputed so the visual position stays continuous.
func (t *Timeline) Reverse() {
	t.reversed = !t.reversed
	if t.playing && t.anchored {
		t.startTime = t.lastTimestamp - t.elapsedFor(t.progress)
	}
	t.emitState()
}

// Seek jumps to a normalized progress, clamped to [0,1]. The value callback
// fires immediately. Seeking onto the terminal bound (1 forward, 0
// reversed) marks the timeline completed exactly once per edge-cross;
// repeating the same boundary seek does not re-fire the transition.
func (t *Timeline) Seek(progress float64) {
	t.seekTo(clamp01(progress))
}

// SeekTime jumps to a time offset in milliseconds, clamped to
// [0, duration].
func (t *Timeline) SeekTime(ms float64) {
	t.seekTo(clamp01(ms / t.duration))
}

func (t *Timeline) seekTo(p float64) {
	t.progress = p
	t.anchored = false
	t.apply()

	if t.atTerminal() {
		if !t.completed {
			t.complete()
		}
		return
	}
	if t.completed {
		// Seeking off the bound re-arms the completion edge.
		t.completed = false
		t.emitState()
	}
}

// Reset returns to progress 0, clears all transport flags, stops the frame
// loop, and fires the value callback with 0.
func (t *Timeline) Reset() {
	t.stopFrames()
	t.progress = 0
	t.reversed = false
	t.playing = false
	t.paused = false
	t.completed = false
	t.anchored = false
	t.apply()
	t.emitState()
}

// Cancel stops playback in place: progress is kept, nothing is marked
// completed, and any queued frame callback becomes a no-op.
func (t *Timeline) Cancel() {
	t.stopFrames()
	t.playing = false
	t.paused = false
	t.anchored = false
	t.emitState()
}

// Destroy cancels any pending frame callback and drops all subscribers.
// The timeline must not be used afterward.
func (t *Timeline) Destroy() {
	t.stopFrames()
	t.playing = false
	t.paused = false
	t.subs = subscriberSet{}
}

// Progress returns the current normalized progress in [0,1].
func (t *Timeline) Progress() float64 { return t.progress }

// CurrentTime returns progress expressed as milliseconds into the run.
func (t *Timeline) CurrentTime() float64 { return t.progress * t.duration }

// Duration returns the configured duration in milliseconds.
func (t *Timeline) Duration() float64 { return t.duration }

// IsPlaying reports whether the frame loop is advancing.
func (t *Timeline) IsPlaying() bool { return t.playing }

// IsPaused reports whether playback is paused mid-run.
func (t *Timeline) IsPaused() bool { return t.paused }

// IsCompleted reports whether the run reached its terminal bound.
func (t *Timeline) IsCompleted() bool { return t.completed }

// IsReversed reports the playback direction.
func (t *Timeline) IsReversed() bool { return t.reversed }

// State returns a snapshot of the transport flags.
func (t *Timeline) State() PlaybackState {
	return PlaybackState{
		Progress:  t.progress,
		Playing:   t.playing,
		Paused:    t.paused,
		Completed: t.completed,
		Reversed:  t.reversed,
	}
}

// elapsedFor maps a progress to elapsed milliseconds in the current
// direction.
func (t *Timeline) elapsedFor(p float64) float64 {
	if t.reversed {
		return (1 - p) * t.duration
	}
	return p * t.duration
}

// tick advances one frame. Guarded against stale invocations: a callback
// that was queued before Cancel/Pause finds playing false and does nothing.
func (t *Timeline) tick(ts float64) {
	t.scheduled = false
	if !t.playing {
		return
	}
	if !t.anchored {
		t.startTime = ts - t.elapsedFor(t.progress)
		t.anchored = true
	}
	t.lastTimestamp = ts

	elapsed := ts - t.startTime
	p := elapsed / t.duration
	if t.reversed {
		p = 1 - p
	}
	t.progress = clamp01(p)
	t.apply()

	if t.atTerminal() {
		t.complete()
		return
	}
	t.scheduleNext()
}

// apply pushes the current progress through the easing into the sink and
// notifies progress subscribers.
func (t *Timeline) apply() {
	eased := float64(t.easing(float32(t.progress), 0, 1, 1))
	// The float32 easing round-trip can land a terminal value a hair off.
	if t.progress == 0 || t.progress == 1 {
		if snapped := math.Round(eased); math.Abs(eased-snapped) < 1e-6 {
			eased = snapped
		}
	}
	t.sink(eased)
	t.subs.emitProgress(t.log, t.progress)
}

func (t *Timeline) atTerminal() bool {
	if t.reversed {
		return t.progress <= 0
	}
	return t.progress >= 1
}

func (t *Timeline) complete() {
	t.stopFrames()
	t.playing = false
	t.paused = false
	t.completed = true
	t.emitState()
}

func (t *Timeline) emitState() {
	t.subs.emitState(t.log, t.State())
}

func (t *Timeline) scheduleNext() {
	if t.scheduled {
		return
	}
	t.token = t.clock.Schedule(t.tick)
	t.scheduled = true
}

func (t *Timeline) stopFrames() {
	if t.scheduled {
		t.clock.Cancel(t.token)
		t.scheduled = false
	}
}
