package metric

import (
	"time"

	"github.com/romcheg/metrology/metric/num64"
)

// timer is a meter of events plus a histogram of their durations.
// Durations are recorded in microseconds and read out as milliseconds.
type timer struct {
	now func() time.Time
	m   meter
	h   histogram

	// only set for UtilizationTimer; marked with busy seconds.
	busy *meter
}

func (t *timer) init(opts []MOption) {
	c := newConfig(opts)
	t.now = c.now
	t.m.init(c.now)
	t.h.init(c)
}

// Update records one timed event of duration d. Negative durations are ignored.
func (t *timer) Update(d time.Duration) {
	if d < 0 {
		return
	}
	t.h.update(d.Microseconds())
	t.m.mark(1)
	if t.busy != nil {
		t.busy.mark(d.Seconds())
	}
}

// UpdateSince records the time elapsed since start.
func (t *timer) UpdateSince(start time.Time) {
	t.Update(t.now().Sub(start))
}

// Time runs f and records how long it took.
func (t *timer) Time(f func()) {
	start := t.now()
	f()
	t.UpdateSince(start)
}

// Count returns the number of timed events.
func (t *timer) Count() int64 {
	return t.h.read().count
}

func usToMs(us float64) num64.Numeric64 {
	return num64.FromFloat64(us / 1000)
}

func (t *timer) attr(a Attr) (num64.Numeric64, bool) {
	if v, ok := t.m.attr(a); ok {
		return v, true
	}
	switch a {
	case AttrTotalTime, AttrMin, AttrMax, AttrMean, AttrStdDev:
	default:
		return num64.Numeric64{}, false
	}
	r := t.h.read()
	switch a {
	case AttrTotalTime:
		return usToMs(r.sum), true
	case AttrMin:
		return usToMs(float64(r.min)), true
	case AttrMax:
		return usToMs(float64(r.max)), true
	case AttrMean:
		return usToMs(r.mean), true
	default:
		return usToMs(r.stdDev), true
	}
}

func (t *timer) snapshot() Reader {
	q := t.h.quantiles()
	return &snapshot{
		median: usToMs(float64(q[0])),
		p95:    usToMs(float64(q[1])),
		p99:    usToMs(float64(q[2])),
		p999:   usToMs(float64(q[3])),
	}
}

// Timer measures both the rate and the duration of events.
type Timer struct {
	timer
}

// NewTimer creates a Timer.
func NewTimer(opts ...MOption) *Timer {
	t := &Timer{}
	t.init(opts)
	return t
}

// Kind implements Instrument.
func (t *Timer) Kind() Kind {
	return KindTimer
}

// Read implements Instrument.
func (t *Timer) Read(a Attr) num64.Numeric64 {
	if v, ok := t.attr(a); ok {
		return v
	}
	return noAttr(KindTimer, a)
}

// Snapshot implements Instrument.
func (t *Timer) Snapshot() Reader {
	return t.snapshot()
}

// UtilizationTimer is a Timer which also reports the share of wall time
// spent in timed sections, as moving averages and since creation.
type UtilizationTimer struct {
	timer
	busy meter
}

// NewUtilizationTimer creates a UtilizationTimer.
func NewUtilizationTimer(opts ...MOption) *UtilizationTimer {
	t := &UtilizationTimer{}
	t.init(opts)
	t.busy.init(t.now)
	t.timer.busy = &t.busy
	return t
}

// Kind implements Instrument.
func (t *UtilizationTimer) Kind() Kind {
	return KindUtilizationTimer
}

// Read implements Instrument.
func (t *UtilizationTimer) Read(a Attr) num64.Numeric64 {
	if v, ok := t.attr(a); ok {
		return v
	}
	switch a {
	case AttrOneMinuteUtilization:
		return num64.FromFloat64(t.busy.read().m1)
	case AttrFiveMinuteUtilization:
		return num64.FromFloat64(t.busy.read().m5)
	case AttrFifteenMinuteUtilization:
		return num64.FromFloat64(t.busy.read().m15)
	case AttrMeanUtilization:
		return num64.FromFloat64(t.busy.read().mean)
	}
	return noAttr(KindUtilizationTimer, a)
}

// Snapshot implements Instrument.
func (t *UtilizationTimer) Snapshot() Reader {
	return t.snapshot()
}
