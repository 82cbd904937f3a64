// Package num64 holds the 64-bit numeric "union" every instrument attribute
// is read as. It lets the reporter format ints and floats without going
// through interface{} and reflection.
package num64

import (
	"math"
	"strconv"
)

// Data types for Numeric64
const (
	Int64 = iota
	Float64
)

// Numeric64 is a 64 bit value tagged with how to interpret its bits.
type Numeric64 struct {
	Type  int
	value uint64
}

func FromInt64(v int64) Numeric64 {
	return Numeric64{Type: Int64, value: uint64(v)}
}

func FromFloat64(v float64) Numeric64 {
	return Numeric64{Type: Float64, value: math.Float64bits(v)}
}

// Float64FromUint64 wraps the raw bits of a float64, as stored by atomic gauges.
func Float64FromUint64(v uint64) Numeric64 {
	return Numeric64{Type: Float64, value: v}
}

// Int64 returns the 64-bit values as an int64
func (n Numeric64) Int64() int64 {
	switch n.Type {
	case Int64:
		return int64(n.value)
	default:
		panic("Numeric64 is not an Int64")
	}
}

// Float64 returns the 64-bit value as a float64
func (n Numeric64) Float64() float64 {
	switch n.Type {
	case Float64:
		return math.Float64frombits(n.value)
	default:
		panic("Numeric64 is not an Float64")
	}
}

// Append formats the value into buf. Integers are written in base 10, floats
// in the shortest decimal form that round trips.
func (n Numeric64) Append(buf []byte) []byte {
	switch n.Type {
	case Int64:
		return strconv.AppendInt(buf, int64(n.value), 10)
	default:
		return strconv.AppendFloat(buf, math.Float64frombits(n.value), 'f', -1, 64)
	}
}

func (n Numeric64) String() string {
	return string(n.Append(make([]byte, 0, 24)))
}
