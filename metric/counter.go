package metric

import (
	"sync/atomic"

	"github.com/romcheg/metrology/metric/num64"
)

// Counter is a client side maintained tally. Unlike a statsd counter it is
// never reset by reading it.
type Counter struct {
	scalar
	val int64
}

// NewCounter returns a zeroed Counter.
func NewCounter() *Counter {
	return &Counter{}
}

// Kind implements Instrument.
func (c *Counter) Kind() Kind {
	return KindCounter
}

// Read implements Instrument.
func (c *Counter) Read(a Attr) num64.Numeric64 {
	if a == AttrCount {
		return num64.FromInt64(c.Count())
	}
	return noAttr(KindCounter, a)
}

func (c *Counter) Inc(val int64) {
	atomic.AddInt64(&c.val, val)
}

func (c *Counter) Dec(i int64) {
	atomic.AddInt64(&c.val, -i)
}

// Count returns the current tally.
func (c *Counter) Count() int64 {
	return atomic.LoadInt64(&c.val)
}
