//go:build !linux

package transport

import (
	"net"

	"github.com/nczempin/httpd-go-uring/errors"
)

// Ring is only available on Linux
type Ring struct{}

// NewRing always fails outside Linux
func NewRing() (*Ring, error) {
	return nil, errors.NewTransportError(errors.TransportErrorIoUringInit, "io_uring requires linux", nil)
}

// Wrap closes conn and fails
func (r *Ring) Wrap(conn net.Conn) (Conn, error) {
	conn.Close()
	return nil, errors.NewTransportError(errors.TransportErrorIoUringInit, "io_uring requires linux", nil)
}

// Close does nothing
func (r *Ring) Close() error {
	return nil
}
