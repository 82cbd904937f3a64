package statsd

import (
	"time"

	"github.com/romcheg/metrology/metric"
	"github.com/romcheg/metrology/metric/num64"
)

// Timestamps are local wall clock time with microseconds.
const timestampLayout = "2006-01-02 15:04:05.000000"

// batch accumulates formatted sample lines until size samples are buffered.
type batch struct {
	buf   []byte
	count int
	size  int
}

// add appends one "<base>.<attr> <value> <timestamp><sep>" line.
func (b *batch) add(base string, a metric.Attr, v num64.Numeric64, ts time.Time, sep string) {
	b.buf = append(b.buf, base...)
	b.buf = append(b.buf, '.')
	b.buf = append(b.buf, string(a)...)
	b.buf = append(b.buf, ' ')
	b.buf = v.Append(b.buf)
	b.buf = append(b.buf, ' ')
	b.buf = ts.AppendFormat(b.buf, timestampLayout)
	b.buf = append(b.buf, sep...)
	b.count++
}

func (b *batch) full() bool {
	return b.count >= b.size
}

func (b *batch) empty() bool {
	return len(b.buf) == 0
}

// reset keeps the allocated buffer for the next batch.
func (b *batch) reset() {
	b.buf = b.buf[:0]
	b.count = 0
}
