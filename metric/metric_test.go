package metric

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func allInstruments(opts ...MOption) map[Kind]Instrument {
	return map[Kind]Instrument{
		KindCounter:          NewCounter(),
		KindGauge:            NewGaugeInt64(),
		KindMeter:            NewMeter(opts...),
		KindTimer:            NewTimer(opts...),
		KindUtilizationTimer: NewUtilizationTimer(opts...),
		KindHistogram:        NewHistogram(opts...),
	}
}

func attrsOf(k Kind) (primary, snap []Attr) {
	switch k {
	case KindCounter:
		return CounterAttrs, nil
	case KindGauge:
		return GaugeAttrs, nil
	case KindMeter:
		return MeterAttrs, nil
	case KindTimer:
		return TimerAttrs, SnapshotAttrs
	case KindUtilizationTimer:
		return UtilizationTimerAttrs, SnapshotAttrs
	default:
		return HistogramAttrs, SnapshotAttrs
	}
}

func TestEveryDeclaredAttributeReads(t *testing.T) {
	for kind, inst := range allInstruments() {
		require.Equal(t, kind, inst.Kind())
		primary, snap := attrsOf(kind)
		for _, a := range primary {
			assert.NotPanics(t, func() { inst.Read(a) }, "%s.%s", kind, a)
		}
		if snap == nil {
			assert.Nil(t, inst.Snapshot(), kind.String())
			continue
		}
		s := inst.Snapshot()
		require.NotNil(t, s, kind.String())
		for _, a := range snap {
			assert.NotPanics(t, func() { s.Read(a) }, "%s snapshot %s", kind, a)
		}
	}
}

func TestUndeclaredAttributePanics(t *testing.T) {
	assert.PanicsWithValue(t, `metric: counter has no attribute "value"`, func() {
		NewCounter().Read(AttrValue)
	})
	assert.Panics(t, func() { NewMeter().Read(AttrMin) })
	assert.Panics(t, func() { NewTimer().Read(AttrMeanUtilization) })
	assert.Panics(t, func() { NewHistogram().Read(AttrMeanRate) })
}

func TestAttributeTableSizes(t *testing.T) {
	assert.Len(t, CounterAttrs, 1)
	assert.Len(t, GaugeAttrs, 1)
	assert.Len(t, MeterAttrs, 5)
	assert.Len(t, TimerAttrs, 10)
	assert.Len(t, UtilizationTimerAttrs, 14)
	assert.Len(t, HistogramAttrs, 5)
	assert.Len(t, SnapshotAttrs, 4)
}

func TestCounter(t *testing.T) {
	c := NewCounter()
	c.Inc(5)
	c.Dec(2)
	assert.Equal(t, int64(3), c.Count())
	assert.Equal(t, "3", c.Read(AttrCount).String())
}

func TestGauges(t *testing.T) {
	gi := NewGaugeInt64()
	gi.Set(10)
	gi.Dec(15)
	gi.Inc(1)
	assert.Equal(t, int64(-4), gi.Value())
	assert.Equal(t, "-4", gi.Read(AttrValue).String())

	gf := NewGaugeFloat64()
	gf.Set(2.5)
	assert.Equal(t, 2.5, gf.Value())
	assert.Equal(t, "2.5", gf.Read(AttrValue).String())

	n := 0.0
	fg := NewFuncGauge(func() float64 { n++; return n })
	assert.Equal(t, "1", fg.Read(AttrValue).String())
	assert.Equal(t, "2", fg.Read(AttrValue).String())
}

func TestMeterRates(t *testing.T) {
	clk := newFakeClock()
	m := NewMeter(WithClock(clk.Now))

	m.Mark(5)
	assert.Equal(t, int64(5), m.Count())
	assert.Zero(t, m.OneMinuteRate(), "no tick yet")

	clk.Add(tickInterval)
	// first tick seeds the averages with the instant rate
	assert.InDelta(t, 1.0, m.OneMinuteRate(), 1e-9)
	assert.InDelta(t, 1.0, m.FiveMinuteRate(), 1e-9)
	assert.InDelta(t, 1.0, m.FifteenMinuteRate(), 1e-9)
	assert.InDelta(t, 1.0, m.MeanRate(), 1e-9)

	// an idle minute decays the 1 minute rate the most
	clk.Add(time.Minute)
	m1, m5, m15 := m.OneMinuteRate(), m.FiveMinuteRate(), m.FifteenMinuteRate()
	assert.InDelta(t, math.Exp(-1), m1, 1e-9)
	assert.True(t, m1 < m5 && m5 < m15)
	assert.Equal(t, "5", m.Read(AttrCount).String())
}

func TestHistogram(t *testing.T) {
	h := NewHistogram()
	for v := int64(1); v <= 100; v++ {
		h.Update(v)
	}
	assert.Equal(t, int64(100), h.Count())
	assert.Equal(t, "1", h.Read(AttrMin).String())
	assert.Equal(t, "100", h.Read(AttrMax).String())
	assert.InDelta(t, 50.5, h.Read(AttrMean).Float64(), 1e-9)
	assert.InDelta(t, 29.011, h.Read(AttrStdDev).Float64(), 0.001)

	s := h.Snapshot()
	assert.Equal(t, int64(50), s.Read(AttrMedian).Int64())
	assert.Equal(t, int64(95), s.Read(AttrPercentile95).Int64())
	assert.Equal(t, int64(99), s.Read(AttrPercentile99).Int64())
	assert.Equal(t, int64(100), s.Read(AttrPercentile999).Int64())
}

func TestHistogramClampsOutOfRange(t *testing.T) {
	h := NewHistogram(HistogramRange(1, 1000, 2))
	h.Update(-5)
	h.Update(1 << 40)
	assert.Equal(t, int64(2), h.Count())
	assert.Equal(t, int64(-5), h.Read(AttrMin).Int64(), "exact stats are not clamped")
	assert.LessOrEqual(t, h.Snapshot().Read(AttrPercentile999).Int64(), int64(1100))
}

func TestEmptyHistogramReadsZero(t *testing.T) {
	h := NewHistogram()
	for _, a := range HistogramAttrs {
		assert.Equal(t, "0", h.Read(a).String(), string(a))
	}
	for _, a := range SnapshotAttrs {
		assert.Equal(t, "0", h.Snapshot().Read(a).String(), string(a))
	}
}

func TestTimer(t *testing.T) {
	clk := newFakeClock()
	tm := NewTimer(WithClock(clk.Now))

	tm.Update(10 * time.Millisecond)
	tm.Update(30 * time.Millisecond)
	tm.Update(-time.Second)
	tm.Time(func() { clk.Add(20 * time.Millisecond) })

	assert.Equal(t, int64(3), tm.Count())
	assert.Equal(t, "3", tm.Read(AttrCount).String())
	assert.Equal(t, 60.0, tm.Read(AttrTotalTime).Float64())
	assert.Equal(t, 10.0, tm.Read(AttrMin).Float64())
	assert.Equal(t, 30.0, tm.Read(AttrMax).Float64())
	assert.Equal(t, 20.0, tm.Read(AttrMean).Float64())
	assert.Equal(t, 10.0, tm.Read(AttrStdDev).Float64())
	assert.InDelta(t, 20.0, tm.Snapshot().Read(AttrMedian).Float64(), 0.05)
}

func TestUtilizationTimer(t *testing.T) {
	clk := newFakeClock()
	ut := NewUtilizationTimer(WithClock(clk.Now))

	start := clk.Now()
	clk.Add(2500 * time.Millisecond)
	ut.UpdateSince(start)
	clk.Add(2500 * time.Millisecond)

	assert.Equal(t, int64(1), ut.Count())
	assert.Equal(t, 2500.0, ut.Read(AttrMax).Float64())
	// busy 2.5s out of 5s
	assert.InDelta(t, 0.5, ut.Read(AttrMeanUtilization).Float64(), 1e-9)
	assert.InDelta(t, 0.5, ut.Read(AttrOneMinuteUtilization).Float64(), 1e-9)
	assert.InDelta(t, 0.2, ut.Read(AttrMeanRate).Float64(), 1e-9)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "utilization_timer", KindUtilizationTimer.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
