package metric

import (
	"math"
	"time"
)

// Moving averages are decayed every tickInterval, like the unix load average.
const tickInterval = 5 * time.Second

// ewma is an exponentially weighted moving average of a per second rate.
// It is not goroutine safe; the owning meter serializes access.
type ewma struct {
	alpha float64
	rate  float64
	init  bool
}

func newEWMA(minutes float64) ewma {
	return ewma{alpha: 1 - math.Exp(-tickInterval.Seconds()/60/minutes)}
}

// tick folds the events seen during the last interval into the average.
func (e *ewma) tick(events float64) {
	instant := events / tickInterval.Seconds()
	if e.init {
		e.rate += e.alpha * (instant - e.rate)
	} else {
		e.rate = instant
		e.init = true
	}
}
