package motion

import (
	"math"
	"testing"
)

func TestSpringIntegratorConvergesToTarget(t *testing.T) {
	cfg := SpringConfig{Stiffness: 300, Damping: 20, From: 0, To: 100}
	si := NewSpringIntegrator(cfg)

	value, velocity := cfg.From, 0.0
	for i := 0; i < 300; i++ {
		value, velocity = si.Step(value, velocity, 1000.0/60.0)
		if si.Settled(value, velocity) {
			break
		}
	}
	if math.Abs(value-100) > 0.01 {
		t.Errorf("value = %f, want ~100 after settling", value)
	}
	if math.Abs(velocity) > 0.01 {
		t.Errorf("velocity = %f, want ~0 after settling", velocity)
	}
}

func TestSpringIntegratorStableForStiffSpring(t *testing.T) {
	// A very stiff spring at a large frame delta must not blow up; the
	// frequency-derived sub-step keeps RK4 inside its stability region.
	cfg := SpringConfig{Stiffness: 10000, Damping: 10, From: 0, To: 1}
	si := NewSpringIntegrator(cfg)

	value, velocity := 0.0, 0.0
	for i := 0; i < 120; i++ {
		value, velocity = si.Step(value, velocity, 50)
		if !isFinite(value) || !isFinite(velocity) {
			t.Fatalf("integration diverged at step %d: value=%v velocity=%v", i, value, velocity)
		}
	}
	if math.Abs(value-1) > 0.05 {
		t.Errorf("value = %f, want ~1", value)
	}
}

func TestSpringIntegratorSettledThreshold(t *testing.T) {
	si := NewSpringIntegrator(SpringConfig{Stiffness: 100, Damping: 10, To: 50})

	if !si.Settled(50.0005, 0.0005) {
		t.Error("state within epsilon should be settled")
	}
	if si.Settled(50.1, 0) {
		t.Error("position outside epsilon should not be settled")
	}
	if si.Settled(50, 0.1) {
		t.Error("velocity outside epsilon should not be settled")
	}
}

func TestPresolveSpringEndpoints(t *testing.T) {
	curve := PresolveSpring(SpringConfig{Stiffness: 300, Damping: 20, From: 0, To: 100}, 2000, 120)

	if curve.Fallback {
		t.Fatalf("valid spring fell back: %s", curve.Reason)
	}
	if len(curve.Samples) != 121 {
		t.Fatalf("len(Samples) = %d, want 121", len(curve.Samples))
	}
	if curve.Samples[0] != 0 {
		t.Errorf("Samples[0] = %f, want exactly 0", curve.Samples[0])
	}
	last := curve.Samples[len(curve.Samples)-1]
	if math.Abs(last-100) > 0.01 {
		t.Errorf("last sample = %f, want ~100", last)
	}
}

func TestPresolveSpringInvalidParamsFallBack(t *testing.T) {
	cases := []struct {
		name string
		cfg  SpringConfig
	}{
		{"nan stiffness", SpringConfig{Stiffness: math.NaN(), Damping: 10, From: 0, To: 1}},
		{"zero stiffness", SpringConfig{Stiffness: 0, Damping: 10, From: 0, To: 1}},
		{"negative stiffness", SpringConfig{Stiffness: -5, Damping: 10, From: 0, To: 1}},
		{"negative damping", SpringConfig{Stiffness: 100, Damping: -1, From: 0, To: 1}},
		{"negative mass", SpringConfig{Stiffness: 100, Damping: 10, Mass: -1, From: 0, To: 1}},
		{"nan endpoint", SpringConfig{Stiffness: 100, Damping: 10, From: math.NaN(), To: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			curve := PresolveSpring(tc.cfg, 2000, 60)
			if !curve.Fallback {
				t.Fatal("expected linear fallback")
			}
			if curve.Reason == "" {
				t.Error("fallback should carry a reason")
			}
			if len(curve.Samples) != 61 {
				t.Fatalf("len(Samples) = %d, want 61", len(curve.Samples))
			}
			for i, s := range curve.Samples {
				if !isFinite(s) {
					t.Fatalf("fallback sample %d is not finite: %v", i, s)
				}
			}
		})
	}
}

func TestPresolveSpringFallbackIsLinearRamp(t *testing.T) {
	curve := PresolveSpring(SpringConfig{Stiffness: -1, From: 10, To: 20}, 1000, 10)

	if !curve.Fallback {
		t.Fatal("expected fallback")
	}
	if curve.Samples[0] != 10 || curve.Samples[10] != 20 {
		t.Errorf("ramp endpoints = %f..%f, want 10..20", curve.Samples[0], curve.Samples[10])
	}
	if math.Abs(curve.Samples[5]-15) > 1e-9 {
		t.Errorf("ramp midpoint = %f, want 15", curve.Samples[5])
	}
}

func TestPresolveSpringZeroDampingStaysFinite(t *testing.T) {
	// Undamped oscillation never settles; the pre-solve must still produce
	// a finite curve across the whole estimated duration.
	curve := PresolveSpring(SpringConfig{Stiffness: 200, Damping: 0, From: 0, To: 100}, 2000, 120)

	if curve.Fallback {
		t.Fatalf("zero damping is valid, got fallback: %s", curve.Reason)
	}
	for i, s := range curve.Samples {
		if !isFinite(s) {
			t.Fatalf("sample %d is not finite: %v", i, s)
		}
	}
}

func TestSpringConfigDefaults(t *testing.T) {
	cfg := SpringConfig{Stiffness: 100, Damping: 10, From: 0, To: 1}
	if !cfg.Valid() {
		t.Error("zero Mass should default to 1 and validate")
	}
}

func TestHarmonicaSamplerSolvesValidSpring(t *testing.T) {
	samples := HarmonicaSampler{}.Solve(SpringConfig{Stiffness: 300, Damping: 20, From: 0, To: 100}, 2000, 120)

	if len(samples) != 121 {
		t.Fatalf("len(samples) = %d, want 121", len(samples))
	}
	if samples[0] != 0 {
		t.Errorf("samples[0] = %f, want exactly 0", samples[0])
	}
	last := samples[len(samples)-1]
	if math.Abs(last-100) > 1 {
		t.Errorf("last sample = %f, want ~100", last)
	}
	for i, s := range samples {
		if !isFinite(s) {
			t.Fatalf("sample %d is not finite: %v", i, s)
		}
	}
}

func TestHarmonicaSamplerRejectsInvalidInput(t *testing.T) {
	if s := (HarmonicaSampler{}).Solve(SpringConfig{Stiffness: math.NaN()}, 2000, 60); s != nil {
		t.Errorf("invalid spring should return nil, got %d samples", len(s))
	}
	if s := (HarmonicaSampler{}).Solve(SpringConfig{Stiffness: 100, Damping: 10}, 0, 60); s != nil {
		t.Errorf("zero duration should return nil, got %d samples", len(s))
	}
	if s := (HarmonicaSampler{}).Solve(SpringConfig{Stiffness: 100, Damping: 10}, 2000, 0); s != nil {
		t.Errorf("zero steps should return nil, got %d samples", len(s))
	}
}
