package motion

import "math"

// settleEpsilon is the threshold below which a spring counts as settled:
// both |value - target| and |velocity| must be under it.
const settleEpsilon = 0.001

// SpringConfig describes one damped harmonic oscillator run:
//
//	m·a = -k·(y - target) - c·v
//
// Stiffness is k, Damping is c, Mass is m (0 means the default of 1).
// From and To are the start and rest values; InitialVelocity is in units
// per second and is what makes a pointer release feel continuous.
type SpringConfig struct {
	Stiffness       float64
	Damping         float64
	Mass            float64
	From            float64
	To              float64
	InitialVelocity float64
}

// withDefaults returns the config with a zero Mass replaced by 1.
func (c SpringConfig) withDefaults() SpringConfig {
	if c.Mass == 0 {
		c.Mass = 1
	}
	return c
}

// Valid reports whether the parameters describe an integrable spring:
// finite everywhere, Stiffness > 0, Damping >= 0, Mass > 0.
func (c SpringConfig) Valid() bool {
	c = c.withDefaults()
	return isFinite(c.Stiffness) && c.Stiffness > 0 &&
		isFinite(c.Damping) && c.Damping >= 0 &&
		isFinite(c.Mass) && c.Mass > 0 &&
		isFinite(c.From) && isFinite(c.To) &&
		isFinite(c.InitialVelocity)
}

// SpringIntegrator advances a damped-harmonic-oscillator state using
// 4th-order Runge-Kutta with a fixed sub-step derived from the natural
// frequency, so stiff springs stay numerically stable at large frame
// deltas.
type SpringIntegrator struct {
	cfg     SpringConfig
	subStep float64 // seconds
}

// NewSpringIntegrator builds an integrator for cfg. cfg must be Valid;
// callers that accept arbitrary parameters check Valid first and take the
// linear fallback path instead of constructing an integrator.
func NewSpringIntegrator(cfg SpringConfig) *SpringIntegrator {
	cfg = cfg.withDefaults()
	omega := math.Sqrt(cfg.Stiffness / cfg.Mass)
	return &SpringIntegrator{
		cfg:     cfg,
		subStep: 1.0 / (60.0 * omega),
	}
}

// accel is the oscillator's equation of motion.
func (si *SpringIntegrator) accel(value, velocity float64) float64 {
	return (-si.cfg.Stiffness*(value-si.cfg.To) - si.cfg.Damping*velocity) / si.cfg.Mass
}

// rk4 advances (value, velocity) by h seconds with one classical
// Runge-Kutta step.
func (si *SpringIntegrator) rk4(value, velocity, h float64) (float64, float64) {
	k1v := velocity
	k1a := si.accel(value, velocity)

	k2v := velocity + k1a*h/2
	k2a := si.accel(value+k1v*h/2, k2v)

	k3v := velocity + k2a*h/2
	k3a := si.accel(value+k2v*h/2, k3v)

	k4v := velocity + k3a*h
	k4a := si.accel(value+k3v*h, k4v)

	value += h / 6 * (k1v + 2*k2v + 2*k3v + k4v)
	velocity += h / 6 * (k1a + 2*k2a + 2*k3a + k4a)
	return value, velocity
}

// Step advances the state by dt milliseconds, splitting it into fixed
// sub-steps sized for the spring's natural frequency.
func (si *SpringIntegrator) Step(value, velocity, dt float64) (float64, float64) {
	remaining := dt / 1000.0
	for remaining > 0 {
		h := si.subStep
		if h > remaining {
			h = remaining
		}
		value, velocity = si.rk4(value, velocity, h)
		remaining -= h
	}
	return value, velocity
}

// Settled reports whether the state is close enough to rest: position
// within settleEpsilon of the target and speed under settleEpsilon. The
// continuous runtime mode uses this to terminate instead of running out
// the full estimated duration.
func (si *SpringIntegrator) Settled(value, velocity float64) bool {
	return math.Abs(value-si.cfg.To) < settleEpsilon &&
		math.Abs(velocity) < settleEpsilon
}

// Curve is the outcome of pre-solving a spring: either a dense sample
// array, or a linear fallback with the reason recorded. Making the
// substitution a value instead of an error keeps the degraded path a
// visible branch in callers.
type Curve struct {
	// Samples holds steps+1 values; index 0 is From, the last index is the
	// settled value. Immutable once computed.
	Samples []float64
	// Fallback is true when Samples is a straight linear ramp substituted
	// for an unusable spring result.
	Fallback bool
	// Reason explains the fallback. Empty when Fallback is false.
	Reason string
}

// PresolveSpring integrates cfg into steps+1 samples spanning durationMS.
// Invalid parameters or a non-finite integration result discard the spring
// and return a linear ramp between From and To instead; the caller sees
// which branch was taken via Curve.Fallback, never an error.
func PresolveSpring(cfg SpringConfig, durationMS float64, steps int) Curve {
	cfg = cfg.withDefaults()
	if steps < 1 {
		steps = 1
	}
	if !cfg.Valid() {
		return linearCurve(cfg.From, cfg.To, steps, "invalid spring parameters")
	}
	if !isFinite(durationMS) || durationMS <= 0 {
		return linearCurve(cfg.From, cfg.To, steps, "invalid duration")
	}

	si := NewSpringIntegrator(cfg)
	samples := make([]float64, steps+1)
	samples[0] = cfg.From

	value := cfg.From
	velocity := cfg.InitialVelocity
	dt := durationMS / float64(steps)
	settled := false
	for i := 1; i <= steps; i++ {
		if settled {
			samples[i] = cfg.To
			continue
		}
		value, velocity = si.Step(value, velocity, dt)
		if !isFinite(value) || !isFinite(velocity) {
			return linearCurve(cfg.From, cfg.To, steps, "non-finite integration result")
		}
		samples[i] = value
		settled = si.Settled(value, velocity)
	}
	return Curve{Samples: samples}
}

// linearCurve builds the fallback ramp.
func linearCurve(from, to float64, steps int, reason string) Curve {
	if !isFinite(from) {
		from = 0
	}
	if !isFinite(to) {
		to = 0
	}
	samples := make([]float64, steps+1)
	for i := range samples {
		samples[i] = from + (to-from)*float64(i)/float64(steps)
	}
	return Curve{Samples: samples, Fallback: true, Reason: reason}
}
