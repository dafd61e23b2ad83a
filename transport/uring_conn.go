//go:build linux

package transport

import (
	stderrors "errors"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/iceber/iouring-go"
	"golang.org/x/sys/unix"

	"github.com/nczempin/httpd-go-uring/errors"
)

// UringQueueDepth is the submission queue size of rings created by NewRing.
const UringQueueDepth = 32

// Ring is an io_uring instance shared by the UringConns it creates
type Ring struct {
	iour *iouring.IOURing
}

// NewRing creates an io_uring instance
func NewRing() (*Ring, error) {
	iour, err := iouring.New(UringQueueDepth)
	if err != nil {
		return nil, errors.NewTransportError(
			errors.TransportErrorIoUringInit,
			"failed to initialize io_uring",
			err,
		)
	}
	return &Ring{iour: iour}, nil
}

// Wrap takes ownership of conn and returns it as a UringConn
func (r *Ring) Wrap(conn net.Conn) (Conn, error) {
	c, err := NewUringConn(r, conn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Close releases the ring
func (r *Ring) Close() error {
	if r.iour != nil {
		r.iour.Close()
		r.iour = nil
	}
	return nil
}

type fileConn interface {
	File() (*os.File, error)
}

// UringConn implements Conn using io_uring for socket I/O
type UringConn struct {
	iour   *iouring.IOURing
	conn   net.Conn
	file   *os.File
	fd     int
	remote string

	mu      sync.Mutex
	closed  bool
	expired bool
	timer   *time.Timer
}

var _ Deadliner = (*UringConn)(nil)

// NewUringConn takes ownership of conn and drives its socket through ring.
func NewUringConn(ring *Ring, conn net.Conn) (*UringConn, error) {
	if ring == nil || ring.iour == nil {
		conn.Close()
		return nil, errors.NewTransportError(errors.TransportErrorIoUringInit, "ring closed", nil)
	}

	fc, ok := conn.(fileConn)
	if !ok {
		conn.Close()
		return nil, errors.NewInvalidArgumentError("connection does not expose a file descriptor")
	}

	file, err := fc.File()
	if err != nil {
		conn.Close()
		return nil, errors.NewTransportError(
			errors.TransportErrorIoUringInit,
			"failed to duplicate socket",
			err,
		)
	}

	remote := ""
	if addr := conn.RemoteAddr(); addr != nil {
		remote = addr.String()
	}

	// Fd also switches the descriptor to blocking mode
	fd := int(file.Fd())

	return &UringConn{
		iour:   ring.iour,
		conn:   conn,
		file:   file,
		fd:     fd,
		remote: remote,
	}, nil
}

// Write sends data over the connection using io_uring
func (c *UringConn) Write(buf []byte) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	totalWritten := 0
	for totalWritten < len(buf) {
		ch := make(chan iouring.Result, 1)
		prepReq := iouring.Write(c.fd, buf[totalWritten:])
		if _, err := c.iour.SubmitRequest(prepReq, ch); err != nil {
			return totalWritten, errors.NewTransportError(
				errors.TransportErrorIoUringSubmit,
				"failed to submit write request",
				err,
			)
		}

		result := <-ch
		n, err := result.ReturnInt()
		if err != nil {
			return totalWritten, c.classify(errors.TransportErrorSocketWriteFailure, "write failed", err)
		}

		if n <= 0 {
			return totalWritten, c.classify(errors.TransportErrorConnectionClosed, "connection closed during write", nil)
		}

		totalWritten += n
	}

	return totalWritten, nil
}

// Read receives data from the connection using io_uring
func (c *UringConn) Read(buf []byte) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	ch := make(chan iouring.Result, 1)
	prepReq := iouring.Read(c.fd, buf)
	if _, err := c.iour.SubmitRequest(prepReq, ch); err != nil {
		return 0, errors.NewTransportError(
			errors.TransportErrorIoUringSubmit,
			"failed to submit read request",
			err,
		)
	}

	result := <-ch
	n, err := result.ReturnInt()
	if err != nil {
		return 0, c.classify(errors.TransportErrorSocketReadFailure, "read failed", err)
	}

	if n == 0 && len(buf) > 0 {
		return 0, c.classify(errors.TransportErrorConnectionClosed, "connection closed by peer", nil)
	}

	return n, nil
}

// SetDeadline shuts the socket down at t, failing pending and later I/O with
// TransportErrorTimeout. A zero t clears the deadline.
func (c *UringConn) SetDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.NewTransportError(errors.TransportErrorConnectionClosed, "connection closed", nil)
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if t.IsZero() {
		return nil
	}
	c.timer = time.AfterFunc(time.Until(t), c.expire)
	return nil
}

func (c *UringConn) expire() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.expired {
		return
	}
	c.expired = true
	// Completes any in-flight recv with 0 and later sends with EPIPE
	unix.Shutdown(c.fd, unix.SHUT_RDWR)
}

func (c *UringConn) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.NewTransportError(errors.TransportErrorConnectionClosed, "connection closed", nil)
	}
	if c.expired {
		return errors.NewTransportError(errors.TransportErrorTimeout, "deadline exceeded", os.ErrDeadlineExceeded)
	}
	return nil
}

// classify reports a failed operation as a timeout once the deadline has
// shut the socket down, and peer resets as ConnectionClosed.
func (c *UringConn) classify(kind errors.TransportError, msg string, err error) error {
	c.mu.Lock()
	expired := c.expired
	c.mu.Unlock()

	if expired {
		return errors.NewTransportError(errors.TransportErrorTimeout, "deadline exceeded", os.ErrDeadlineExceeded)
	}
	if stderrors.Is(err, syscall.EPIPE) || stderrors.Is(err, syscall.ECONNRESET) {
		kind = errors.TransportErrorConnectionClosed
	}
	return errors.NewTransportError(kind, msg, err)
}

// RemoteAddr returns the peer address
func (c *UringConn) RemoteAddr() string {
	return c.remote
}

// Close closes the duplicated descriptor and the original connection.
// The shared ring stays open.
func (c *UringConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	fileErr := c.file.Close()
	connErr := c.conn.Close()
	if fileErr != nil {
		return errors.NewTransportError(errors.TransportErrorSocketCloseFailure, "failed to close socket", fileErr)
	}
	if connErr != nil {
		return errors.NewTransportError(errors.TransportErrorSocketCloseFailure, "failed to close socket", connErr)
	}

	return nil
}
