package statsd

import (
	"io"
	"net"
	"time"

	"go.uber.org/zap"
)

// transport delivers a batch to the daemon. Sockets are created lazily by
// the first send and reused until close.
type transport interface {
	connect() error
	send(p []byte) error
	close() error
	String() string
}

// tcpTransport writes every batch on one long lived stream connection.
// A failed write does not reconnect.
type tcpTransport struct {
	addr         string
	dialer       net.Dialer
	writeTimeout time.Duration
	log          *zap.Logger

	conn net.Conn
}

func (t *tcpTransport) connect() error {
	if t.conn != nil {
		return nil
	}
	c, err := t.dialer.Dial("tcp", t.addr)
	if err != nil {
		return err
	}
	t.conn = c
	t.log.Debug("connected", zap.String("network", "tcp"), zap.Stringer("local", c.LocalAddr()), zap.String("addr", t.addr))
	return nil
}

func (t *tcpTransport) send(p []byte) error {
	if err := t.connect(); err != nil {
		return err
	}
	if t.writeTimeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
			return err
		}
	}
	// net.Conn writes everything or returns an error
	_, err := t.conn.Write(p)
	return err
}

func (t *tcpTransport) close() (err error) {
	if t.conn != nil {
		err = t.conn.Close()
		t.conn = nil
	}
	return
}

func (t *tcpTransport) String() string {
	return "tcp://" + t.addr
}

// udpTransport sends every batch as one datagram from an unconnected socket.
// Nothing is read back, so lost packets go unnoticed.
type udpTransport struct {
	addr         string
	writeTimeout time.Duration
	log          *zap.Logger

	raddr *net.UDPAddr
	conn  net.PacketConn
}

func (t *udpTransport) connect() error {
	if t.conn != nil {
		return nil
	}
	raddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return err
	}
	network := "udp6"
	if raddr.IP == nil || raddr.IP.To4() != nil {
		network = "udp4"
	}
	c, err := net.ListenPacket(network, ":0")
	if err != nil {
		return err
	}
	t.raddr, t.conn = raddr, c
	t.log.Debug("socket opened", zap.String("network", network), zap.Stringer("local", c.LocalAddr()), zap.Stringer("addr", raddr))
	return nil
}

func (t *udpTransport) send(p []byte) error {
	if err := t.connect(); err != nil {
		return err
	}
	if t.writeTimeout > 0 {
		if err := t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := t.conn.WriteTo(p, t.raddr)
	return err
}

func (t *udpTransport) close() (err error) {
	if t.conn != nil {
		err = t.conn.Close()
		t.conn = nil
	}
	return
}

func (t *udpTransport) String() string {
	return "udp://" + t.addr
}

// writerTransport hands every batch to an io.Writer in a single Write.
// The writer is owned by the caller and never closed.
type writerTransport struct {
	w io.Writer
}

func (t *writerTransport) connect() error {
	return nil
}

func (t *writerTransport) send(p []byte) error {
	n, err := t.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return err
}

func (t *writerTransport) close() error {
	return nil
}

func (t *writerTransport) String() string {
	return "output"
}
