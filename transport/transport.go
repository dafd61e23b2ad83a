package transport

import "time"

// Conn is the server side of one accepted connection.
// Implementations include plain net.Conn sockets and io_uring backed sockets.
type Conn interface {
	// Read receives data from the peer.
	// Returns the number of bytes read or an error.
	Read(buf []byte) (int, error)

	// Write sends all of buf to the peer.
	// Returns the number of bytes written or an error.
	Write(buf []byte) (int, error)

	// Close closes the connection. Closing twice is not an error.
	Close() error

	// RemoteAddr describes the peer for logging.
	RemoteAddr() string
}

// Deadliner is implemented by connections that support I/O deadlines.
type Deadliner interface {
	SetDeadline(t time.Time) error
}
