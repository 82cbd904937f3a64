package statsd

import (
	"strings"
	"unicode"

	"github.com/romcheg/metrology/metric"
	"github.com/romcheg/metrology/metric/num64"
)

// baseName collapses every whitespace run in name to one '_' and applies the
// prefix.
func (r *Reporter) baseName(name string) string {
	var b strings.Builder
	b.Grow(len(r.prefix) + 1 + len(name))
	if r.prefix != "" {
		b.WriteString(r.prefix)
		b.WriteByte('.')
	}
	inSpace := false
	for _, c := range name {
		if unicode.IsSpace(c) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(c)
	}
	return b.String()
}

// format appends one sample per attribute of inst, then one per snapshot
// attribute. Any of the appends may flush the batch.
func (r *Reporter) format(name string, inst metric.Instrument, attrs, snapshotAttrs []metric.Attr) error {
	base := r.baseName(name)
	for _, a := range attrs {
		if err := r.record(base, a, inst.Read(a)); err != nil {
			return err
		}
	}
	if len(snapshotAttrs) == 0 {
		return nil
	}
	snap := inst.Snapshot()
	for _, a := range snapshotAttrs {
		if err := r.record(base, a, snap.Read(a)); err != nil {
			return err
		}
	}
	return nil
}

// record buffers one sample stamped with the time it was read and sends the
// batch once it holds batch.size samples.
func (r *Reporter) record(base string, a metric.Attr, v num64.Numeric64) error {
	r.batch.add(base, a, v, r.now(), r.sep)
	if r.batch.full() {
		return r.flush()
	}
	return nil
}
