package metric

import (
	"fmt"

	"github.com/romcheg/metrology/metric/num64"
)

// Kind is the closed set of instrument variants a Registry can hold.
type Kind int

const (
	KindCounter Kind = iota
	KindGauge
	KindMeter
	KindTimer
	KindUtilizationTimer
	KindHistogram
)

var kindNames = [...]string{
	KindCounter:          "counter",
	KindGauge:            "gauge",
	KindMeter:            "meter",
	KindTimer:            "timer",
	KindUtilizationTimer: "utilization_timer",
	KindHistogram:        "histogram",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Attr names one readable attribute of an instrument. The string is what
// goes on the wire.
type Attr string

const (
	AttrCount             Attr = "count"
	AttrValue             Attr = "value"
	AttrTotalTime         Attr = "total_time"
	AttrOneMinuteRate     Attr = "one_minute_rate"
	AttrFiveMinuteRate    Attr = "five_minute_rate"
	AttrFifteenMinuteRate Attr = "fifteen_minute_rate"
	AttrMeanRate          Attr = "mean_rate"
	AttrMin               Attr = "min"
	AttrMax               Attr = "max"
	AttrMean              Attr = "mean"
	AttrStdDev            Attr = "stddev"

	AttrOneMinuteUtilization     Attr = "one_minute_utilization"
	AttrFiveMinuteUtilization    Attr = "five_minute_utilization"
	AttrFifteenMinuteUtilization Attr = "fifteen_minute_utilization"
	AttrMeanUtilization          Attr = "mean_utilization"

	AttrMedian        Attr = "median"
	AttrPercentile95  Attr = "percentile_95th"
	AttrPercentile99  Attr = "percentile_99th"
	AttrPercentile999 Attr = "percentile_999th"
)

// Attribute tables per kind, in emission order. Reporters must treat them as
// read-only.
var (
	CounterAttrs = []Attr{AttrCount}
	GaugeAttrs   = []Attr{AttrValue}
	MeterAttrs   = []Attr{
		AttrCount, AttrOneMinuteRate, AttrFiveMinuteRate,
		AttrFifteenMinuteRate, AttrMeanRate,
	}
	TimerAttrs = []Attr{
		AttrCount, AttrTotalTime, AttrOneMinuteRate, AttrFiveMinuteRate,
		AttrFifteenMinuteRate, AttrMeanRate, AttrMin, AttrMax, AttrMean,
		AttrStdDev,
	}
	UtilizationTimerAttrs = append(append([]Attr(nil), TimerAttrs...),
		AttrOneMinuteUtilization, AttrFiveMinuteUtilization,
		AttrFifteenMinuteUtilization, AttrMeanUtilization,
	)
	HistogramAttrs = []Attr{AttrCount, AttrMin, AttrMax, AttrMean, AttrStdDev}

	SnapshotAttrs = []Attr{AttrMedian, AttrPercentile95, AttrPercentile99, AttrPercentile999}
)

// Reader reads a single attribute at a point in time.
// No consistency is promised between two reads.
type Reader interface {
	Read(a Attr) num64.Numeric64
}

// Instrument is a measurement primitive held by a Registry.
type Instrument interface {
	Reader
	Kind() Kind
	// Snapshot returns the percentile view, or nil if the kind has none.
	Snapshot() Reader
}

// scalar is embedded by instruments without a percentile view.
type scalar struct{}

func (scalar) Snapshot() Reader { return nil }

// Reading an attribute the kind doesn't declare is a programming error.
func noAttr(k Kind, a Attr) num64.Numeric64 {
	panic(fmt.Sprintf("metric: %s has no attribute %q", k, a))
}
