package motion

import (
	"math"
	"testing"
)

func newTestSpring(clock FrameClock) (*SpringTimeline, *float64) {
	var value float64
	st := NewSpringTimeline(clock, SpringTimelineConfig{
		Spring: SpringConfig{Stiffness: 300, Damping: 20, From: 0, To: 100},
	}, func(v float64) { value = v })
	return st, &value
}

func TestSpringTimelineSeekTerminalIsExact(t *testing.T) {
	st, value := newTestSpring(NewManualClock())

	st.Seek(1)
	if *value != 100 {
		t.Errorf("value at Seek(1) = %f, want exactly 100", *value)
	}
	if !st.IsCompleted() {
		t.Error("Seek(1) forward must complete")
	}

	st.Reverse()
	st.Seek(0)
	if *value != 0 {
		t.Errorf("value at reversed Seek(0) = %f, want exactly 0", *value)
	}
}

func TestSpringTimelineSeekIsConstantTimeLookup(t *testing.T) {
	st, value := newTestSpring(NewManualClock())

	// Seeking arbitrary positions in any order reads the same pre-solved
	// curve: identical progress, identical value.
	st.Seek(0.5)
	mid := *value
	st.Seek(0.9)
	st.Seek(0.1)
	st.Seek(0.5)
	if *value != mid {
		t.Errorf("re-seek produced %f, want %f", *value, mid)
	}
}

func TestSpringTimelinePlayToCompletion(t *testing.T) {
	clock := NewManualClock()
	st, value := newTestSpring(clock)

	st.Play()
	if !st.IsPlaying() {
		t.Fatal("expected playing")
	}

	// One anchor frame plus the full estimated duration (2000ms default).
	frames := int(math.Ceil(2000/frameMS)) + 1
	clock.AdvanceFrames(frames, frameMS)

	if !st.IsCompleted() {
		t.Fatal("expected completed after estimated duration")
	}
	if st.IsPlaying() {
		t.Error("completed spring must not be playing")
	}
	if *value != 100 {
		t.Errorf("final value = %f, want exactly 100 (terminal force-write)", *value)
	}
}

func TestSpringTimelineInvalidParamsFallBackSilently(t *testing.T) {
	clock := NewManualClock()
	var value float64
	st := NewSpringTimeline(clock, SpringTimelineConfig{
		Spring: SpringConfig{Stiffness: math.NaN(), Damping: 20, From: 0, To: 100},
	}, func(v float64) { value = v })

	if !st.IsFallback() {
		t.Fatal("invalid spring should use the linear fallback")
	}

	// The fallback is a straight ramp; the midpoint is halfway.
	st.Seek(0.5)
	if math.Abs(value-50) > 1 {
		t.Errorf("fallback midpoint = %f, want ~50", value)
	}
	st.Seek(1)
	if value != 100 {
		t.Errorf("fallback terminal = %f, want exactly 100", value)
	}
}

func TestSpringTimelineSamplerPreferredWhenValid(t *testing.T) {
	var value float64
	st := NewSpringTimeline(NewManualClock(), SpringTimelineConfig{
		Spring:  SpringConfig{Stiffness: 300, Damping: 20, From: 0, To: 100},
		Sampler: HarmonicaSampler{},
	}, func(v float64) { value = v })

	if st.IsFallback() {
		t.Fatal("valid sampler result must not be a fallback")
	}
	st.Seek(1)
	if value != 100 {
		t.Errorf("terminal = %f, want exactly 100", value)
	}
}

type badSampler struct{}

func (badSampler) Solve(SpringConfig, float64, int) []float64 {
	return []float64{0, math.NaN(), 100}
}

func TestSpringTimelineRejectsBadSamplerOutput(t *testing.T) {
	st := NewSpringTimeline(NewManualClock(), SpringTimelineConfig{
		Spring:  SpringConfig{Stiffness: 300, Damping: 20, From: 0, To: 100},
		Sampler: badSampler{},
	}, nil)

	// The sampler's non-finite result is discarded; the RK4 pre-solve
	// takes over, so the curve is still a real spring.
	if st.IsFallback() {
		t.Error("bad sampler output should degrade to RK4, not the linear ramp")
	}
	st.Seek(1)
	if st.Value() != 100 {
		t.Errorf("terminal value = %f, want 100", st.Value())
	}
}

func TestSpringTimelineEstimatedDurationDefaultsTo2000(t *testing.T) {
	st, _ := newTestSpring(NewManualClock())
	if st.Duration() != 2000 {
		t.Errorf("Duration = %f, want 2000 default", st.Duration())
	}
}

func TestSpringTimelineMinimumStepCount(t *testing.T) {
	st := NewSpringTimeline(NewManualClock(), SpringTimelineConfig{
		Spring:            SpringConfig{Stiffness: 300, Damping: 20, From: 0, To: 100},
		EstimatedDuration: 100, // would be only ~6 steps at frame density
	}, nil)

	// 60-step floor: the curve must still have dense coverage.
	if got := len(st.samples); got != minSpringSteps+1 {
		t.Errorf("len(samples) = %d, want %d", got, minSpringSteps+1)
	}
}

func TestSpringTimelineResumeReconstructsVelocity(t *testing.T) {
	clock := NewManualClock()
	st, _ := newTestSpring(clock)

	st.Play()
	clock.Advance(frameMS) // anchor
	clock.AdvanceFrames(6, frameMS)
	st.Pause()
	if !st.IsPaused() {
		t.Fatal("expected paused")
	}

	st.Play()
	// Early in an underdamped 0→100 run the value is still rising, so the
	// finite-difference velocity must be positive.
	if st.Velocity() <= 0 {
		t.Errorf("resumed velocity = %f, want > 0 while approaching target", st.Velocity())
	}
}

func TestSpringTimelineCancelMakesQueuedFrameNoop(t *testing.T) {
	clock := NewManualClock()
	st, _ := newTestSpring(clock)

	st.Play()
	clock.Advance(frameMS)
	clock.AdvanceFrames(3, frameMS)
	frozen := st.Progress()

	st.Cancel()
	clock.AdvanceFrames(5, frameMS)

	if st.Progress() != frozen {
		t.Errorf("Progress = %f, want frozen at %f after Cancel", st.Progress(), frozen)
	}
	if st.IsCompleted() {
		t.Error("Cancel must not mark completion")
	}
}

func TestSpringTimelineResetFiresStartValue(t *testing.T) {
	clock := NewManualClock()
	st, value := newTestSpring(clock)

	st.Seek(0.6)
	st.Reset()

	s := st.State()
	if s.Progress != 0 || s.Playing || s.Paused || s.Completed || s.Reversed {
		t.Errorf("state after Reset = %+v, want all cleared", s)
	}
	if *value != 0 {
		t.Errorf("value after Reset = %f, want the start value 0", *value)
	}
}

func TestSpringTimelineReverseCompletesAtFrom(t *testing.T) {
	clock := NewManualClock()
	st, value := newTestSpring(clock)

	st.Seek(0.5)
	st.Reverse()
	st.Play()

	frames := int(math.Ceil(2000/frameMS)) + 1
	clock.AdvanceFrames(frames, frameMS)

	if !st.IsCompleted() {
		t.Fatal("expected reversed completion")
	}
	if *value != 0 {
		t.Errorf("reversed terminal value = %f, want exactly 0 (From)", *value)
	}
}

func TestSpringTimelineBoundarySeekCompletesOnce(t *testing.T) {
	st, _ := newTestSpring(NewManualClock())

	completions := 0
	wasCompleted := false
	st.OnStateChange(func(s PlaybackState) {
		if s.Completed && !wasCompleted {
			completions++
		}
		wasCompleted = s.Completed
	})

	st.Seek(1)
	st.Seek(1)
	if completions != 1 {
		t.Fatalf("completions = %d, want 1", completions)
	}
	st.Seek(0.3)
	st.Seek(1)
	if completions != 2 {
		t.Fatalf("completions = %d, want 2 after edge re-cross", completions)
	}
}
