package metric

import (
	"math"
	"sync/atomic"

	"github.com/romcheg/metrology/metric/num64"
)

// A client maintained value which is only sampled when read.

// GaugeInt64 is a gauge using an int64 - meaning it can be decremented to negative values
type GaugeInt64 struct {
	scalar
	val int64
}

// GaugeFloat64 is a float64 gauge which stores its value as a uint64
// so it can be read atomically.
type GaugeFloat64 struct {
	scalar
	val uint64
}

// FuncGauge computes its value when read. The function must be safe to call
// from the reporting goroutine.
type FuncGauge struct {
	scalar
	fn func() float64
}

// NewGaugeInt64 creates an int64 Gauge.
func NewGaugeInt64() *GaugeInt64 {
	return &GaugeInt64{}
}

// Kind implements Instrument.
func (g *GaugeInt64) Kind() Kind {
	return KindGauge
}

// Read implements Instrument.
func (g *GaugeInt64) Read(a Attr) num64.Numeric64 {
	if a == AttrValue {
		return num64.FromInt64(g.Value())
	}
	return noAttr(KindGauge, a)
}

// Set sets the gauge value
func (g *GaugeInt64) Set(val int64) {
	atomic.StoreInt64(&g.val, val)
}

// Value returns the current gauge value
func (g *GaugeInt64) Value() int64 {
	return atomic.LoadInt64(&g.val)
}

// Dec decrements the gauge by the given amount.
func (g *GaugeInt64) Dec(i int64) {
	atomic.AddInt64(&g.val, -i)
}

// Inc increments the gauge by the given amount.
func (g *GaugeInt64) Inc(i int64) {
	atomic.AddInt64(&g.val, i)
}

// NewGaugeFloat64 creates a gauge holding a float64 value.
func NewGaugeFloat64() *GaugeFloat64 {
	return &GaugeFloat64{}
}

// Kind implements Instrument.
func (g *GaugeFloat64) Kind() Kind {
	return KindGauge
}

// Read implements Instrument.
func (g *GaugeFloat64) Read(a Attr) num64.Numeric64 {
	if a == AttrValue {
		return num64.Float64FromUint64(atomic.LoadUint64(&g.val))
	}
	return noAttr(KindGauge, a)
}

// Set updates the gauge's value.
func (g *GaugeFloat64) Set(v float64) {
	atomic.StoreUint64(&g.val, math.Float64bits(v))
}

// Value returns the gauge's current value.
func (g *GaugeFloat64) Value() float64 {
	return math.Float64frombits(atomic.LoadUint64(&g.val))
}

// NewFuncGauge wraps fn as a gauge.
func NewFuncGauge(fn func() float64) *FuncGauge {
	return &FuncGauge{fn: fn}
}

// Kind implements Instrument.
func (g *FuncGauge) Kind() Kind {
	return KindGauge
}

// Read implements Instrument.
func (g *FuncGauge) Read(a Attr) num64.Numeric64 {
	if a == AttrValue {
		return num64.FromFloat64(g.fn())
	}
	return noAttr(KindGauge, a)
}
