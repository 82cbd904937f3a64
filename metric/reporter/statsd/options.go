package statsd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Option configures a Reporter in New.
type Option func(*Reporter) error

// ConnKind selects the transport used to reach the daemon.
type ConnKind int

const (
	ConnUDP ConnKind = iota // default
	ConnTCP
)

// DefaultBatchSize is the number of samples buffered before a send.
const DefaultBatchSize = 100

// ErrUnknownConn is returned for a connection kind other than tcp or udp.
var ErrUnknownConn = errors.New("statsd: unknown connection kind")

func (k ConnKind) String() string {
	switch k {
	case ConnUDP:
		return "udp"
	case ConnTCP:
		return "tcp"
	}
	return fmt.Sprintf("ConnKind(%d)", int(k))
}

// ParseConn parses "tcp" or "udp", ignoring case.
func ParseConn(s string) (ConnKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "udp":
		return ConnUDP, nil
	case "tcp":
		return ConnTCP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownConn, s)
}

// Conn selects TCP or UDP. The choice is fixed for the life of the Reporter.
func Conn(k ConnKind) Option {
	return Option(func(r *Reporter) error {
		if k != ConnUDP && k != ConnTCP {
			return fmt.Errorf("%w: %s", ErrUnknownConn, k)
		}
		r.conn = k
		return nil
	})
}

// Prefix namespaces all metric names as "prefix.name". An empty prefix means none.
func Prefix(pfx string) Option {
	return Option(func(r *Reporter) error {
		r.prefix = pfx
		return nil
	})
}

// BatchSize sets how many samples are buffered before they are sent.
// Values below 1 are taken as 1, sending every sample on its own.
func BatchSize(n int) Option {
	return Option(func(r *Reporter) error {
		r.batch.size = n
		return nil
	})
}

// Output sends every batch as a single Write to w instead of a socket.
// Host and port are then only used in error messages.
func Output(w io.Writer) Option {
	return Option(func(r *Reporter) error {
		if w == nil {
			return errors.New("statsd: nil output")
		}
		r.out = w
		return nil
	})
}

// DialTimeout bounds establishing the TCP connection. Zero means no timeout.
func DialTimeout(d time.Duration) Option {
	return Option(func(r *Reporter) error {
		r.dialTimeout = d
		return nil
	})
}

// WriteTimeout sets a deadline on each socket write. Zero means a slow daemon
// blocks the reporting cycle until it accepts the data.
func WriteTimeout(d time.Duration) Option {
	return Option(func(r *Reporter) error {
		r.writeTimeout = d
		return nil
	})
}

// Logger sets the logger for connection and flush debug events.
func Logger(l *zap.Logger) Option {
	return Option(func(r *Reporter) error {
		if l != nil {
			r.log = l.Named("statsd")
		}
		return nil
	})
}

// Clock replaces time.Now for sample timestamps.
func Clock(now func() time.Time) Option {
	return Option(func(r *Reporter) error {
		if now != nil {
			r.now = now
		}
		return nil
	})
}

// LineSeparator replaces the platform newline terminating each sample.
func LineSeparator(sep string) Option {
	return Option(func(r *Reporter) error {
		if sep == "" {
			return errors.New("statsd: empty line separator")
		}
		r.sep = sep
		return nil
	})
}
