package motion

import "math"

// Thresholds below which a layout change is visual noise rather than a
// transition worth animating.
const (
	significantTranslatePx = 1.0
	significantScaleRatio  = 0.01
)

// TransformDelta is the positional and scale difference between two
// measured bounds. Scale factors default to 1 when the source dimension is
// zero, so a degenerate box never divides by zero.
type TransformDelta struct {
	X, Y           float64
	ScaleX, ScaleY float64
}

// Delta measures how far and how much larger the destination bounds are
// relative to the source bounds.
func Delta(from, to Bounds) TransformDelta {
	d := TransformDelta{
		X:      to.X - from.X,
		Y:      to.Y - from.Y,
		ScaleX: 1,
		ScaleY: 1,
	}
	if from.Width > 0 {
		d.ScaleX = to.Width / from.Width
	}
	if from.Height > 0 {
		d.ScaleY = to.Height / from.Height
	}
	return d
}

// Significant reports whether the delta is large enough to animate: more
// than 1px of translation or more than 1% of scale change on either axis.
// Sub-threshold deltas come from sub-pixel layout noise and animating them
// just produces jitter.
func (d TransformDelta) Significant() bool {
	return math.Abs(d.X) > significantTranslatePx ||
		math.Abs(d.Y) > significantTranslatePx ||
		math.Abs(d.ScaleX-1) > significantScaleRatio ||
		math.Abs(d.ScaleY-1) > significantScaleRatio
}

// Origin names the pivot corner (or center) a FLIP transition scales
// around, expressed in the source box's coordinate space.
type Origin uint8

const (
	OriginTopLeft Origin = iota
	OriginTopRight
	OriginBottomLeft
	OriginBottomRight
	OriginCenter
)

// offset returns the origin's position within b, relative to b's top-left
// corner.
func (o Origin) offset(b Bounds) (x, y float64) {
	switch o {
	case OriginTopRight:
		return b.Width, 0
	case OriginBottomLeft:
		return 0, b.Height
	case OriginBottomRight:
		return b.Width, b.Height
	case OriginCenter:
		return b.Width / 2, b.Height / 2
	default: // OriginTopLeft
		return 0, 0
	}
}

// Keyframe is one end of a FLIP transition: a translate/scale transform
// plus an opacity, all in numbers a binding layer can serialize however its
// host expects.
type Keyframe struct {
	TranslateX, TranslateY float64
	ScaleX, ScaleY         float64
	Opacity                float64
}

// IdentityKeyframe is the "element exactly where layout put it" keyframe.
func IdentityKeyframe() Keyframe {
	return Keyframe{ScaleX: 1, ScaleY: 1, Opacity: 1}
}

// Matrix returns the keyframe's transform as an affine matrix
// (translate applied after scale).
func (k Keyframe) Matrix() Affine {
	return translateAffine(k.TranslateX, k.TranslateY).Mul(scaleAffine(k.ScaleX, k.ScaleY))
}

// lerp interpolates component-wise between k and other.
func (k Keyframe) lerp(other Keyframe, t float64) Keyframe {
	return Keyframe{
		TranslateX: k.TranslateX + (other.TranslateX-k.TranslateX)*t,
		TranslateY: k.TranslateY + (other.TranslateY-k.TranslateY)*t,
		ScaleX:     k.ScaleX + (other.ScaleX-k.ScaleX)*t,
		ScaleY:     k.ScaleY + (other.ScaleY-k.ScaleY)*t,
		Opacity:    k.Opacity + (other.Opacity-k.Opacity)*t,
	}
}

// FlipKeyframes is a from/to keyframe pair ready to be driven by a
// Timeline: feed the timeline's progress to At and hand the resulting
// Keyframe to the host's style writer.
type FlipKeyframes struct {
	From, To Keyframe
	// FadeOnly marks the zero-size degenerate case: the transform is left
	// at identity and only opacity animates, because scaling from or to a
	// zero-size box has no stable transform.
	FadeOnly bool
}

// At returns the keyframe at a normalized progress, clamped to [0,1].
func (f FlipKeyframes) At(progress float64) Keyframe {
	return f.From.lerp(f.To, clamp01(progress))
}

// FlipTransition computes the inverted starting transform for a
// First-Last-Invert-Play run: the element, already laid out at `to`, is
// initially transformed so it appears at `from`, then animates to the
// identity transform.
//
// The host's transform-origin lives in the destination box's coordinate
// space while the desired pivot is defined in the source box's space; the
// origin adjustment term reconciles the two:
//
//	adjust = originOffsetInFrom × (1/scale − 1)
//
// If either box has a zero width or height the transform is skipped
// entirely and a pure opacity fade is produced instead.
func FlipTransition(from, to Bounds, origin Origin) FlipKeyframes {
	if from.Width <= 0 || from.Height <= 0 || to.Width <= 0 || to.Height <= 0 {
		start := IdentityKeyframe()
		start.Opacity = 0
		return FlipKeyframes{From: start, To: IdentityKeyframe(), FadeOnly: true}
	}

	d := Delta(from, to)
	invScaleX := 1 / d.ScaleX
	invScaleY := 1 / d.ScaleY

	originX, originY := origin.offset(from)
	adjustX := originX * (invScaleX - 1)
	adjustY := originY * (invScaleY - 1)

	start := Keyframe{
		TranslateX: -d.X - adjustX,
		TranslateY: -d.Y - adjustY,
		ScaleX:     invScaleX,
		ScaleY:     invScaleY,
		Opacity:    1,
	}
	return FlipKeyframes{From: start, To: IdentityKeyframe()}
}
