package metric

import (
	"math"
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/romcheg/metrology/metric/num64"
)

// histogram keeps exact count/min/max/mean/stddev and an HDR histogram for
// percentiles.
type histogram struct {
	mu    sync.Mutex
	hdr   *hdrhistogram.Histogram
	count int64
	min   int64
	max   int64
	sum   float64
	// Welford running mean and sum of squared deviations
	mean float64
	m2   float64
}

func (h *histogram) init(c *mconfig) {
	h.hdr = hdrhistogram.New(c.lowest, c.highest, c.sigfigs)
}

func (h *histogram) update(v int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 || v < h.min {
		h.min = v
	}
	if h.count == 0 || v > h.max {
		h.max = v
	}
	h.count++
	h.sum += float64(v)
	delta := float64(v) - h.mean
	h.mean += delta / float64(h.count)
	h.m2 += delta * (float64(v) - h.mean)

	rec := v
	if rec < 0 {
		rec = 0
	}
	if hi := h.hdr.HighestTrackableValue(); rec > hi {
		rec = hi
	}
	_ = h.hdr.RecordValue(rec)
}

type histReading struct {
	count        int64
	min, max     int64
	sum          float64
	mean, stdDev float64
}

func (h *histogram) read() (r histReading) {
	h.mu.Lock()
	r.count, r.min, r.max, r.sum, r.mean = h.count, h.min, h.max, h.sum, h.mean
	if h.count > 1 {
		r.stdDev = math.Sqrt(h.m2 / float64(h.count-1))
	}
	h.mu.Unlock()
	return
}

// quantiles returns median, 95th, 99th and 99.9th percentiles.
func (h *histogram) quantiles() (q [4]int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hdr.TotalCount() == 0 {
		return
	}
	for i, p := range [...]float64{50, 95, 99, 99.9} {
		q[i] = h.hdr.ValueAtQuantile(p)
	}
	return
}

// snapshot is the percentile view of a Histogram or Timer.
type snapshot struct {
	median, p95, p99, p999 num64.Numeric64
}

func (s *snapshot) Read(a Attr) num64.Numeric64 {
	switch a {
	case AttrMedian:
		return s.median
	case AttrPercentile95:
		return s.p95
	case AttrPercentile99:
		return s.p99
	case AttrPercentile999:
		return s.p999
	}
	panic("metric: snapshot has no attribute " + string(a))
}

// Histogram measures the distribution of int64 values.
type Histogram struct {
	h histogram
}

// NewHistogram creates an empty Histogram. See HistogramRange for the
// percentile precision.
func NewHistogram(opts ...MOption) *Histogram {
	h := &Histogram{}
	h.h.init(newConfig(opts))
	return h
}

// Kind implements Instrument.
func (h *Histogram) Kind() Kind {
	return KindHistogram
}

// Update records a value.
func (h *Histogram) Update(v int64) {
	h.h.update(v)
}

// Count returns the number of recorded values.
func (h *Histogram) Count() int64 {
	return h.h.read().count
}

// Read implements Instrument.
func (h *Histogram) Read(a Attr) num64.Numeric64 {
	r := h.h.read()
	switch a {
	case AttrCount:
		return num64.FromInt64(r.count)
	case AttrMin:
		return num64.FromInt64(r.min)
	case AttrMax:
		return num64.FromInt64(r.max)
	case AttrMean:
		return num64.FromFloat64(r.mean)
	case AttrStdDev:
		return num64.FromFloat64(r.stdDev)
	}
	return noAttr(KindHistogram, a)
}

// Snapshot implements Instrument.
func (h *Histogram) Snapshot() Reader {
	q := h.h.quantiles()
	return &snapshot{
		median: num64.FromInt64(q[0]),
		p95:    num64.FromInt64(q[1]),
		p99:    num64.FromInt64(q[2]),
		p999:   num64.FromInt64(q[3]),
	}
}
