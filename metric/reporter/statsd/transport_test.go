package statsd_test

import (
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/net/nettest"

	"github.com/romcheg/metrology/metric"
	"github.com/romcheg/metrology/metric/reporter/statsd"
)

func TestUDPDebugEvents(t *testing.T) {
	pc, err := nettest.NewLocalPacketListener("udp")
	require.NoError(t, err)
	defer pc.Close()
	host, port := hostPort(t, pc.LocalAddr())

	core, logs := observer.New(zap.DebugLevel)
	r, err := statsd.New(fixtureRegistry(), host, port,
		statsd.Clock(fixedNow),
		statsd.Logger(zap.New(core)))
	require.NoError(t, err)
	defer r.Stop()

	require.NoError(t, r.Write())
	require.NoError(t, r.Write())

	opened := logs.FilterMessage("socket opened").All()
	require.Len(t, opened, 1)
	assert.Equal(t, "statsd", opened[0].LoggerName)
	assert.Equal(t, "udp4", opened[0].ContextMap()["network"])

	sent := logs.FilterMessage("batch sent").All()
	require.Len(t, sent, 2)
	assert.Equal(t, int64(fixtureSamples), sent[0].ContextMap()["samples"])
}

func TestTCPDebugEvents(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	defer ln.Close()
	host, port := hostPort(t, ln.Addr())
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		io.Copy(io.Discard, c)
	}()

	core, logs := observer.New(zap.DebugLevel)
	r, err := statsd.New(fixtureRegistry(), host, port,
		statsd.Conn(statsd.ConnTCP),
		statsd.BatchSize(10),
		statsd.Clock(fixedNow),
		statsd.Logger(zap.New(core)))
	require.NoError(t, err)

	require.NoError(t, r.Write())
	require.NoError(t, r.Write())
	require.NoError(t, r.Stop())

	assert.Equal(t, 1, logs.FilterMessage("connected").Len())
	// 47 samples in batches of 10, twice
	assert.Equal(t, 10, logs.FilterMessage("batch sent").Len())
}

func TestStopLogsDroppedSamples(t *testing.T) {
	reg := metric.NewRegistry()
	reg.Counter("c").Inc(1)
	core, logs := observer.New(zap.DebugLevel)
	r := newReporter(t, reg,
		statsd.Output(&recorder{fail: io.ErrClosedPipe}),
		statsd.Logger(zap.New(core)))

	require.Error(t, r.Write())
	require.NoError(t, r.Stop())

	dropped := logs.FilterMessage("dropping unsent samples").All()
	require.Len(t, dropped, 1)
	assert.Equal(t, int64(1), dropped[0].ContextMap()["samples"])
	assert.Zero(t, r.Pending())
}

func TestUDPUnresolvableHost(t *testing.T) {
	reg := metric.NewRegistry()
	reg.Counter("c").Inc(1)
	r, err := statsd.New(reg, "metrology.invalid", 8125, statsd.Clock(fixedNow))
	require.NoError(t, err)
	defer r.Stop()

	err = r.Write()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "udp://metrology.invalid:8125")
	assert.Equal(t, 1, r.Pending())
}

func TestUDPOversizedDatagram(t *testing.T) {
	pc, err := nettest.NewLocalPacketListener("udp")
	require.NoError(t, err)
	defer pc.Close()
	host, port := hostPort(t, pc.LocalAddr())

	// one sample larger than any UDP payload
	reg := metric.NewRegistry()
	reg.Counter(strings.Repeat("x", 70000)).Inc(1)
	r, err := statsd.New(reg, host, port, statsd.Clock(fixedNow))
	require.NoError(t, err)
	defer r.Stop()

	require.Error(t, r.Write())
	assert.Equal(t, 1, r.Pending())

	require.Error(t, r.Write())
	assert.Equal(t, 2, r.Pending())
}

func TestTCPWriteTimeout(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	defer ln.Close()
	host, port := hostPort(t, ln.Addr())

	// accept but never read, so the socket buffers fill up
	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()
	defer func() {
		select {
		case c := <-accepted:
			c.Close()
		default:
		}
	}()

	reg := metric.NewRegistry()
	reg.Counter(strings.Repeat("x", 32<<20)).Inc(1)
	r, err := statsd.New(reg, host, port,
		statsd.Conn(statsd.ConnTCP),
		statsd.Clock(fixedNow),
		statsd.WriteTimeout(200*time.Millisecond))
	require.NoError(t, err)
	defer r.Stop()

	start := time.Now()
	err = r.Write()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrDeadlineExceeded), err.Error())
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Equal(t, 1, r.Pending())
}
