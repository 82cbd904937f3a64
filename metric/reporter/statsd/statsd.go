package statsd

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/romcheg/metrology/metric"
)

// ErrStopped is returned by Write after Stop.
var ErrStopped = errors.New("statsd: reporter stopped")

// Registry is the read side of a metric.Registry: the instruments to report,
// visited in a stable order.
type Registry interface {
	Each(fn func(name string, inst metric.Instrument) error) error
}

// Reporter sends the instruments of a Registry to a daemon, one line per
// attribute. It is not safe for concurrent use; every Write runs a full
// reporting cycle on the calling go-routine.
type Reporter struct {
	registry Registry

	host         string
	port         int
	conn         ConnKind
	prefix       string
	dialTimeout  time.Duration
	writeTimeout time.Duration
	out          io.Writer
	now          func() time.Time
	sep          string
	log          *zap.Logger

	transport transport
	batch     batch
	stopped   bool
}

// New creates a Reporter for the daemon at host:port. No connection is made
// before the first batch is sent.
func New(registry Registry, host string, port int, opts ...Option) (*Reporter, error) {
	if registry == nil {
		return nil, errors.New("statsd: nil registry")
	}

	r := &Reporter{
		registry: registry,
		host:     host,
		port:     port,
		conn:     ConnUDP,
		now:      time.Now,
		sep:      lineSeparator,
		log:      zap.NewNop(),
	}
	r.batch.size = DefaultBatchSize

	for _, o := range opts {
		if err := o(r); err != nil {
			return nil, err
		}
	}

	if r.batch.size < 1 {
		r.batch.size = 1
	}

	if r.out != nil {
		r.transport = &writerTransport{w: r.out}
		return r, nil
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("statsd: invalid port %d", port)
	}
	switch r.conn {
	case ConnTCP:
		r.transport = &tcpTransport{
			addr:         r.Addr(),
			dialer:       net.Dialer{Timeout: r.dialTimeout},
			writeTimeout: r.writeTimeout,
			log:          r.log,
		}
	default:
		r.transport = &udpTransport{
			addr:         r.Addr(),
			writeTimeout: r.writeTimeout,
			log:          r.log,
		}
	}
	return r, nil
}

// Addr returns the daemon address as host:port.
func (r *Reporter) Addr() string {
	return net.JoinHostPort(r.host, strconv.Itoa(r.port))
}

// Pending returns the number of samples buffered but not yet sent. It is only
// non-zero after a failed send.
func (r *Reporter) Pending() int {
	return r.batch.count
}

// Write runs one reporting cycle: every instrument is formatted in registry
// order, sending a batch each time it fills up, and whatever is left is sent
// before Write returns.
// The first error aborts the cycle. Samples which failed to send stay
// buffered and go out with the next successful send.
func (r *Reporter) Write() error {
	if r.stopped {
		return ErrStopped
	}
	if err := r.registry.Each(r.report); err != nil {
		return err
	}
	return r.flush()
}

func (r *Reporter) report(name string, inst metric.Instrument) error {
	switch k := inst.Kind(); k {
	case metric.KindCounter:
		return r.format(name, inst, metric.CounterAttrs, nil)
	case metric.KindGauge:
		return r.format(name, inst, metric.GaugeAttrs, nil)
	case metric.KindMeter:
		return r.format(name, inst, metric.MeterAttrs, nil)
	case metric.KindTimer:
		return r.format(name, inst, metric.TimerAttrs, metric.SnapshotAttrs)
	case metric.KindUtilizationTimer:
		return r.format(name, inst, metric.UtilizationTimerAttrs, metric.SnapshotAttrs)
	case metric.KindHistogram:
		return r.format(name, inst, metric.HistogramAttrs, metric.SnapshotAttrs)
	default:
		return fmt.Errorf("statsd: %q has unsupported kind %s", name, k)
	}
}

// flush sends the batch if there is one. The batch is only cleared when the
// send succeeded locally; for UDP that says nothing about delivery.
func (r *Reporter) flush() error {
	if r.batch.empty() {
		return nil
	}
	if err := r.transport.send(r.batch.buf); err != nil {
		return fmt.Errorf("statsd: send to %s: %w", r.transport, err)
	}
	r.log.Debug("batch sent", zap.Int("samples", r.batch.count), zap.Int("bytes", len(r.batch.buf)))
	r.batch.reset()
	return nil
}

// Stop closes the connection and drops any unsent samples. Write fails with
// ErrStopped afterwards. Stopping twice is a no-op.
func (r *Reporter) Stop() error {
	if r.stopped {
		return nil
	}
	r.stopped = true
	if r.batch.count > 0 {
		r.log.Debug("dropping unsent samples", zap.Int("samples", r.batch.count))
	}
	r.batch = batch{size: r.batch.size}
	if err := r.transport.close(); err != nil {
		return fmt.Errorf("statsd: close %s: %w", r.transport, err)
	}
	return nil
}
