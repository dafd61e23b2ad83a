package transport

import (
	stderrors "errors"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/nczempin/httpd-go-uring/errors"
)

// NetConn implements Conn on top of a net.Conn (TCP or Unix domain socket)
type NetConn struct {
	conn   net.Conn
	remote string
	closed bool
}

// NewNetConn wraps an accepted connection
func NewNetConn(conn net.Conn) *NetConn {
	remote := ""
	if addr := conn.RemoteAddr(); addr != nil {
		remote = addr.String()
	}
	return &NetConn{
		conn:   conn,
		remote: remote,
	}
}

// Read receives data from the connection
func (c *NetConn) Read(buf []byte) (int, error) {
	if c.closed {
		return 0, errors.NewTransportError(errors.TransportErrorConnectionClosed, "connection closed", nil)
	}

	n, err := c.conn.Read(buf)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return n, errors.NewTransportError(errors.TransportErrorConnectionClosed, "connection closed by peer", err)
		}
		if isTimeout(err) {
			return n, errors.NewTransportError(errors.TransportErrorTimeout, "read deadline exceeded", err)
		}
		return n, errors.NewTransportError(errors.TransportErrorSocketReadFailure, "read failed", err)
	}

	return n, nil
}

// Write sends data over the connection
func (c *NetConn) Write(buf []byte) (int, error) {
	if c.closed {
		return 0, errors.NewTransportError(errors.TransportErrorConnectionClosed, "connection closed", nil)
	}

	n, err := c.conn.Write(buf)
	if err != nil {
		// Check for broken pipe or connection reset
		if stderrors.Is(err, syscall.EPIPE) || stderrors.Is(err, syscall.ECONNRESET) {
			return n, errors.NewTransportError(errors.TransportErrorConnectionClosed, "connection closed by peer", err)
		}
		if isTimeout(err) {
			return n, errors.NewTransportError(errors.TransportErrorTimeout, "write deadline exceeded", err)
		}
		return n, errors.NewTransportError(errors.TransportErrorSocketWriteFailure, "write failed", err)
	}

	return n, nil
}

// SetDeadline sets the read and write deadline of the connection.
// It may be called from another goroutine to interrupt a blocked Read or Write.
func (c *NetConn) SetDeadline(t time.Time) error {
	return c.conn.SetDeadline(t)
}

// RemoteAddr returns the peer address
func (c *NetConn) RemoteAddr() string {
	return c.remote
}

// Close closes the connection
func (c *NetConn) Close() error {
	if c.closed {
		return nil // Idempotent close
	}

	err := c.conn.Close()
	c.closed = true

	if err != nil {
		return errors.NewTransportError(errors.TransportErrorSocketCloseFailure, "close failed", err)
	}

	return nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
