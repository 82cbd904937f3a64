package metric

import (
	"time"
)

// mconfig holds construction state for instruments.
type mconfig struct {
	now func() time.Time

	// trackable range of a Histogram
	lowest, highest int64
	sigfigs         int
}

// MOption is a function manipulating construction state of an instrument.
// Provide it to New* or to the Registry.
type MOption func(*mconfig)

// Values are tracked from 1 up to an hour in microseconds by default.
const (
	defaultLowest  = 1
	defaultHighest = int64(time.Hour / time.Microsecond)
	defaultSigfigs = 3
)

func newConfig(opts []MOption) *mconfig {
	c := &mconfig{
		now:     time.Now,
		lowest:  defaultLowest,
		highest: defaultHighest,
		sigfigs: defaultSigfigs,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithClock replaces time.Now for rate and utilization computations.
func WithClock(now func() time.Time) MOption {
	return MOption(func(c *mconfig) {
		if now != nil {
			c.now = now
		}
	})
}

// HistogramRange sets the trackable value range and precision of the HDR
// histogram backing percentiles. Values outside are clamped.
func HistogramRange(lowest, highest int64, sigfigs int) MOption {
	return MOption(func(c *mconfig) {
		c.lowest = lowest
		c.highest = highest
		c.sigfigs = sigfigs
	})
}
