//go:build linux

package resource

import (
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/nczempin/httpd-go-uring/errors"
)

// UnixLoader reads resources with raw file descriptors
type UnixLoader struct {
	root string
}

// NewUnixLoader creates a loader rooted at root
func NewUnixLoader(root string) (*UnixLoader, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}
	return &UnixLoader{root: root}, nil
}

// Load reads the named regular file
func (l *UnixLoader) Load(name string) (*Resource, error) {
	fd, size, err := openRegular(l.root, name)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)

	contents := make([]byte, size)
	read := 0
	for read < len(contents) {
		n, err := unix.Read(fd, contents[read:])
		if err == unix.EINTR {
			continue
		}
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

// checkRoot verifies that root names a directory
func checkRoot(root string) error {
	var st unix.Stat_t
	if err := unix.Stat(root, &st); err != nil {
		return errors.NewResourceError(errors.ResourceErrorNotFound, "resource root "+root, err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return errors.NewInvalidArgumentError("resource root " + root + " is not a directory")
	}
	return nil
}

// openRegular opens root/name read-only and returns its descriptor and size.
// The descriptor is closed on error.
func openRegular(root, name string) (int, int64, error) {
	path := filepath.Join(root, filepath.FromSlash(name))

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, 0, classifyOpenError(name, err)
	}

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		unix.Close(fd)
		return -1, 0, classifyOpenError(name, err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		unix.Close(fd)
		return -1, 0, errors.NewResourceError(errors.ResourceErrorNotFound, name+" is not a regular file", nil)
	}

	return fd, st.Size, nil
}
