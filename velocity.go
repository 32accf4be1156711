package motion

const (
	// maxVelocitySamples caps the tracker's buffer. Older samples are
	// evicted first.
	maxVelocitySamples = 10
	// velocityWindowMS evicts samples older than this relative to the most
	// recently added sample.
	velocityWindowMS = 100.0
)

// VelocityTracker estimates instantaneous 2D velocity from a stream of
// timestamped pointer samples. It keeps at most the 10 most recent samples
// and discards anything older than 100ms behind the newest sample, so the
// estimate reflects the end of the movement rather than its average.
//
// Trackers are long-lived: keep one per interactive element and Reset it
// between logical interactions.
type VelocityTracker struct {
	samples []Sample
}

// NewVelocityTracker returns an empty tracker.
func NewVelocityTracker() *VelocityTracker {
	return &VelocityTracker{samples: make([]Sample, 0, maxVelocitySamples)}
}

// AddPoint appends a sample and enforces both retention limits: the sliding
// time window relative to p's timestamp and the maximum sample count.
func (t *VelocityTracker) AddPoint(p Sample) {
	t.samples = append(t.samples, p)

	cutoff := p.Timestamp - velocityWindowMS
	drop := 0
	for drop < len(t.samples)-1 && t.samples[drop].Timestamp < cutoff {
		drop++
	}
	if over := len(t.samples) - drop - maxVelocitySamples; over > 0 {
		drop += over
	}
	if drop > 0 {
		t.samples = append(t.samples[:0], t.samples[drop:]...)
	}
}

// Velocity returns the estimated velocity in units per second, computed
// from the oldest and newest retained samples. Fewer than two retained
// samples, or two samples with identical timestamps, yield a zero vector
// rather than NaN or an infinity.
func (t *VelocityTracker) Velocity() Vec2 {
	if len(t.samples) < 2 {
		return Vec2{}
	}
	first := t.samples[0]
	last := t.samples[len(t.samples)-1]
	dt := (last.Timestamp - first.Timestamp) / 1000.0
	if dt == 0 {
		return Vec2{}
	}
	return Vec2{
		X: (last.X - first.X) / dt,
		Y: (last.Y - first.Y) / dt,
	}
}

// Reset discards all retained samples.
func (t *VelocityTracker) Reset() {
	t.samples = t.samples[:0]
}

// Len reports how many samples are currently retained.
func (t *VelocityTracker) Len() int {
	return len(t.samples)
}
