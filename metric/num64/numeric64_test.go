package num64

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppend(t *testing.T) {
	cases := []struct {
		in   Numeric64
		want string
	}{
		{FromInt64(math.MinInt64), "-9223372036854775808"},
		{FromInt64(-17), "-17"},
		{FromInt64(0), "0"},
		{FromFloat64(0.25), "0.25"},
		{FromFloat64(3), "3"},
		{FromFloat64(1e21), "1000000000000000000000"},
		{Float64FromUint64(math.Float64bits(-1.5)), "-1.5"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.in.String())
		assert.Equal(t, "x="+c.want, string(c.in.Append([]byte("x="))))
	}
}

func TestAccessorsPanicOnWrongType(t *testing.T) {
	n := FromInt64(3)
	assert.Equal(t, int64(3), n.Int64())
	assert.Panics(t, func() { n.Float64() })

	f := FromFloat64(0.5)
	assert.Equal(t, 0.5, f.Float64())
	assert.Panics(t, func() { f.Int64() })
}
