package motion

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// SpringSampler is an optional closed-form solver a host can plug into a
// SpringTimeline. Solve returns a dense array of stepCount+1 samples
// spanning durationHint milliseconds, or nil if the parameters cannot be
// solved. The timeline validates the result and degrades to its own RK4
// pre-solve (and then to a linear ramp) if the sampler returns anything
// non-finite or of the wrong length.
type SpringSampler interface {
	Solve(cfg SpringConfig, durationHint float64, stepCount int) []float64
}

// HarmonicaSampler solves springs with charmbracelet/harmonica's
// closed-form damped-oscillator update. It is cheaper than RK4 for dense
// curves because each sample is one analytic update rather than many
// sub-steps.
type HarmonicaSampler struct{}

// Solve converts cfg's stiffness/damping/mass into the angular frequency
// and damping ratio harmonica expects, then walks the oscillator across
// stepCount uniform intervals. Returns nil for parameters harmonica cannot
// represent.
func (HarmonicaSampler) Solve(cfg SpringConfig, durationHint float64, stepCount int) []float64 {
	cfg = cfg.withDefaults()
	if !cfg.Valid() || stepCount < 1 || !isFinite(durationHint) || durationHint <= 0 {
		return nil
	}

	omega := math.Sqrt(cfg.Stiffness / cfg.Mass)
	zeta := cfg.Damping / (2 * math.Sqrt(cfg.Stiffness*cfg.Mass))
	dt := durationHint / 1000.0 / float64(stepCount)

	spring := harmonica.NewSpring(dt, omega, zeta)
	samples := make([]float64, stepCount+1)
	samples[0] = cfg.From

	pos, vel := cfg.From, cfg.InitialVelocity
	for i := 1; i <= stepCount; i++ {
		pos, vel = spring.Update(pos, vel, cfg.To)
		samples[i] = pos
	}
	return samples
}
