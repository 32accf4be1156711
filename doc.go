// Package motion is a host-independent animation engine.
//
// Motion drives numeric values over time using fixed-duration tweening
// ([Timeline]) or damped spring physics ([SpringTimeline]), estimates
// pointer velocity from timestamped samples ([VelocityTracker]), computes
// the geometric deltas needed to animate an element between two recorded
// layouts ([Delta], [FlipTransition]), and tracks pointer interactions with
// momentum-correct spring-back release ([Gesture]).
//
// The engine never touches a display surface. It produces numbers, curves,
// and geometric deltas, and calls back into caller-supplied sinks. All
// advancement happens inside callbacks scheduled on a [FrameClock]; the
// motion/ebitenclock subpackage provides a clock pumped by an Ebitengine
// update loop, and [ManualClock] provides a deterministic clock for tests
// and headless use.
//
// # Quick start
//
// Tween a value from 0 to 1 over 400ms with an ease-out curve:
//
//	clock := motion.NewManualClock()
//	tl, _ := motion.NewTimeline(clock, motion.TimelineConfig{
//		Duration: 400, Easing: ease.OutQuad,
//	}, func(v float64) { box.X = v * 200 })
//	tl.Play()
//
// Spring a value toward a target, seeded with a measured release velocity:
//
//	st := motion.NewSpringTimeline(clock, motion.SpringTimelineConfig{
//		Spring: motion.SpringConfig{
//			Stiffness: 300, Damping: 20,
//			From: box.X, To: 0, InitialVelocity: vel.X,
//		},
//	}, func(v float64) { box.X = v })
//	st.Play()
//
// Invalid spring parameters never surface as errors; the controller falls
// back to a linear ramp between From and To so a bad configuration degrades
// to a plain tween instead of crashing mid-interaction.
//
// # Time units
//
// Durations and sample timestamps are in milliseconds. Velocities are in
// units per second. Timestamps must increase monotonically within a run;
// the engine places no other constraint on the clock source.
package motion
