//go:build linux

package resource

import (
	"sync"

	"github.com/godzie44/go-uring/uring"
	"golang.org/x/sys/unix"

	"github.com/nczempin/httpd-go-uring/errors"
)

// UringLoader reads resources through an io_uring instance
type UringLoader struct {
	mu   sync.Mutex
	ring *uring.Ring
	root string
}

// NewUringLoader creates a loader rooted at root with its own ring
func NewUringLoader(root string) (*UringLoader, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	// Create io_uring instance with queue depth of 32
	ring, err := uring.New(32)
	if err != nil {
		return nil, errors.NewTransportError(
			errors.TransportErrorIoUringInit,
			"failed to initialize io_uring",
			err,
		)
	}

	return &UringLoader{
		ring: ring,
		root: root,
	}, nil
}

// Load reads the named regular file
func (l *UringLoader) Load(name string) (*Resource, error) {
	fd, size, err := openRegular(l.root, name)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ring == nil {
		return nil, errors.NewResourceError(errors.ResourceErrorReadFailure, "loader closed", nil)
	}

	contents := make([]byte, size)
	read := 0
	for read < len(contents) {
		n, err := l.readAt(fd, contents[read:], uint64(read))
		if err != nil {
			return nil, errors.NewResourceError(errors.ResourceErrorReadFailure, name, err)
		}
		if n == 0 {
			// File shrank since fstat
			break
		}
		read += n
	}

	return newResource(name, contents[:read]), nil
}

// readAt performs a single read SQE and waits for its completion
func (l *UringLoader) readAt(fd int, buf []byte, offset uint64) (int, error) {
	// Queue read operation
	sqe := uring.Read(uintptr(fd), buf, offset)
	if err := l.ring.QueueSQE(sqe, 0, 0); err != nil {
		return 0, errors.NewTransportError(
			errors.TransportErrorIoUringSubmit,
			"failed to queue read request",
			err,
		)
	}

	// Submit and wait
	if _, err := l.ring.Submit(); err != nil {
		return 0, errors.NewTransportError(
			errors.TransportErrorIoUringSubmit,
			"failed to submit read request",
			err,
		)
	}

	cqe, err := l.ring.WaitCQEvents(1)
	if err != nil {
		return 0, err
	}

	if err := cqe.Error(); err != nil {
		l.ring.SeenCQE(cqe)
		return 0, err
	}

	n := int(cqe.Res)
	l.ring.SeenCQE(cqe)
	return n, nil
}

// Close releases the ring. Further loads fail.
func (l *UringLoader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ring == nil {
		return nil
	}
	l.ring.Close()
	l.ring = nil
	return nil
}
