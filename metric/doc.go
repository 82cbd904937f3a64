/*
Package metric holds in-process instruments for the standard metric types
counters/gauges/meters/timers/histograms, and a Registry to keep them by name.

Instruments are updated from any goroutine and read by a reporter, which
knows nothing about how an instrument measures. The reporter only sees

  - Kind: which variant it is, selecting a fixed list of attributes
  - Read: a point in time read of one attribute as a num64.Numeric64
  - Snapshot: the percentile view of timers and histograms (nil otherwise)

Reads are not atomic across attributes. An event recorded between two
reads of the same timer shows up in one and not the other.

The attribute lists per Kind are exported (CounterAttrs, MeterAttrs, ...) so
reporters can emit them in a fixed order:

	reg := metric.NewRegistry()
	reg.Counter("requests").Inc(1)
	reg.Timer("db query").Time(func() { query() })
	reg.Gauge("goroutines", func() float64 { return float64(runtime.NumGoroutine()) })

Meters keep moving averages over 1, 5 and 15 minutes, decayed every 5
seconds. Decay is done lazily when the meter is marked or read, so there are
no background go-routines.

Timers record durations in microseconds in an HDR histogram (1µs to 1h at 3
significant figures by default, see HistogramRange) and report milliseconds.
*/
package metric
