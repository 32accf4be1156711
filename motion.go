package motion

import (
	"log/slog"
	"math"
)

// Vec2 is a 2D vector used for positions, offsets, deltas, and velocities
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Bounds is an axis-aligned bounding box measured by the host. The
// coordinate system has its origin at the top-left, with Y increasing
// downward. Width and Height must be >= 0; the engine treats Bounds as
// opaque measurement data and assumes the source already resolved any
// coordinate-space or scroll-offset concerns.
type Bounds struct {
	X, Y, Width, Height float64
}

// Sample is a single timestamped pointer position. Timestamp is in
// milliseconds and must increase monotonically within one interaction.
type Sample struct {
	X, Y      float64
	Timestamp float64
}

// ValueSink receives every value update produced by a timeline. It is
// invoked synchronously from inside frame callbacks and must not block.
type ValueSink func(value float64)

// Axis restricts gesture movement to one dimension.
type Axis uint8

const (
	AxisBoth Axis = iota // no restriction (default)
	AxisX                // horizontal only; Y deltas are zeroed
	AxisY                // vertical only; X deltas are zeroed
)

// clamp returns v limited to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clamp01 returns v limited to [0, 1].
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// isFinite reports whether v is neither NaN nor an infinity.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// orDiscard returns log unchanged, or a logger that drops everything when
// log is nil. Components call this once at construction so core logic never
// branches on whether logging is enabled.
func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return log
}
