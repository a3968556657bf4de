package pipeline

// MaxDelta caps the per-frame delta in seconds so a suspended window does
// not produce one huge animation step.
const MaxDelta = 0.15

// SeedDelta is the delta reported before the first frame.
const SeedDelta = 1.0 / 60

// Clock tracks frame timestamps in milliseconds and the clamped delta
// between them in seconds.
type Clock struct {
	last    float64
	current float64
	delta   float64
}

// Seed resets the clock at now. The first frame measures against a zero
// last timestamp, so it is usually clamped.
func (c *Clock) Seed(now float64) {
	c.last = 0
	c.current = now
	c.delta = SeedDelta
}

// Advance moves the clock to now and returns the delta in seconds.
// clamped reports whether the delta hit MaxDelta.
func (c *Clock) Advance(now float64) (delta float64, clamped bool) {
	c.current = now
	c.delta = (c.current - c.last) / 1000
	if c.delta > MaxDelta {
		c.delta = MaxDelta
		clamped = true
	}
	if c.delta < 0 {
		c.delta = 0
	}
	c.last = c.current
	return c.delta, clamped
}

// Delta returns the last delta in seconds.
func (c Clock) Delta() float64 { return c.delta }

// Current returns the last timestamp in milliseconds.
func (c Clock) Current() float64 { return c.current }

// Last returns the previous frame's timestamp in milliseconds.
func (c Clock) Last() float64 { return c.last }
