package metric

import (
	"sync"
	"time"

	"github.com/romcheg/metrology/metric/num64"
)

// meter counts events and keeps 1, 5 and 15 minute moving average rates.
// Averages are ticked lazily when the meter is marked or read, so an idle
// meter costs nothing.
type meter struct {
	now func() time.Time

	mu        sync.Mutex
	start     time.Time
	lastTick  time.Time
	count     float64
	uncounted float64
	m1        ewma
	m5        ewma
	m15       ewma
}

func (m *meter) init(now func() time.Time) {
	m.now = now
	m.start = now()
	m.lastTick = m.start
	m.m1 = newEWMA(1)
	m.m5 = newEWMA(5)
	m.m15 = newEWMA(15)
}

func (m *meter) mark(n float64) {
	m.mu.Lock()
	m.tickIfNecessary(m.now())
	m.count += n
	m.uncounted += n
	m.mu.Unlock()
}

// must be called with mu held
func (m *meter) tickIfNecessary(now time.Time) {
	age := now.Sub(m.lastTick)
	if age < tickInterval {
		return
	}
	ticks := int64(age / tickInterval)
	m.lastTick = m.lastTick.Add(time.Duration(ticks) * tickInterval)
	for i := int64(0); i < ticks; i++ {
		m.m1.tick(m.uncounted)
		m.m5.tick(m.uncounted)
		m.m15.tick(m.uncounted)
		m.uncounted = 0
	}
}

type meterReading struct {
	count, m1, m5, m15, mean float64
}

func (m *meter) read() (r meterReading) {
	m.mu.Lock()
	now := m.now()
	m.tickIfNecessary(now)
	r.count = m.count
	r.m1, r.m5, r.m15 = m.m1.rate, m.m5.rate, m.m15.rate
	if elapsed := now.Sub(m.start).Seconds(); elapsed > 0 {
		r.mean = m.count / elapsed
	}
	m.mu.Unlock()
	return
}

// attr reads the meter attributes shared by Meter and the timers.
func (m *meter) attr(a Attr) (num64.Numeric64, bool) {
	r := m.read()
	switch a {
	case AttrCount:
		return num64.FromInt64(int64(r.count)), true
	case AttrOneMinuteRate:
		return num64.FromFloat64(r.m1), true
	case AttrFiveMinuteRate:
		return num64.FromFloat64(r.m5), true
	case AttrFifteenMinuteRate:
		return num64.FromFloat64(r.m15), true
	case AttrMeanRate:
		return num64.FromFloat64(r.mean), true
	}
	return num64.Numeric64{}, false
}

// Meter measures the rate of events.
type Meter struct {
	scalar
	m meter
}

// NewMeter creates a Meter starting its mean rate clock now.
func NewMeter(opts ...MOption) *Meter {
	c := newConfig(opts)
	mt := &Meter{}
	mt.m.init(c.now)
	return mt
}

// Kind implements Instrument.
func (mt *Meter) Kind() Kind {
	return KindMeter
}

// Read implements Instrument.
func (mt *Meter) Read(a Attr) num64.Numeric64 {
	if v, ok := mt.m.attr(a); ok {
		return v
	}
	return noAttr(KindMeter, a)
}

// Mark records n events.
func (mt *Meter) Mark(n int64) {
	mt.m.mark(float64(n))
}

// Count returns the total number of events marked.
func (mt *Meter) Count() int64 {
	return int64(mt.m.read().count)
}

// OneMinuteRate returns the one minute moving average rate in events per second.
func (mt *Meter) OneMinuteRate() float64 {
	return mt.m.read().m1
}

// FiveMinuteRate returns the five minute moving average rate.
func (mt *Meter) FiveMinuteRate() float64 {
	return mt.m.read().m5
}

// FifteenMinuteRate returns the fifteen minute moving average rate.
func (mt *Meter) FifteenMinuteRate() float64 {
	return mt.m.read().m15
}

// MeanRate returns events per second since the meter was created.
func (mt *Meter) MeanRate() float64 {
	return mt.m.read().mean
}
