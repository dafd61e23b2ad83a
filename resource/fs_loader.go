package resource

import (
	stderrors "errors"
	"io/fs"
	"syscall"

	"github.com/nczempin/httpd-go-uring/errors"
)

// FSLoader loads resources from an fs.FS
type FSLoader struct {
	fsys fs.FS
}

// NewFSLoader creates a loader reading from fsys
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{fsys: fsys}
}

// Load reads the named regular file
func (l *FSLoader) Load(name string) (*Resource, error) {
	info, err := fs.Stat(l.fsys, name)
	if err != nil {
		return nil, classifyOpenError(name, err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.NewResourceError(errors.ResourceErrorNotFound, name+" is not a regular file", nil)
	}

	contents, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, classifyOpenError(name, err)
	}

	return newResource(name, contents), nil
}

// classifyOpenError maps errors from opening or stating a file to resource kinds
func classifyOpenError(name string, err error) error {
	switch {
	case stderrors.Is(err, fs.ErrNotExist), stderrors.Is(err, syscall.ENOTDIR):
		return errors.NewResourceError(errors.ResourceErrorNotFound, name, err)
	case stderrors.Is(err, fs.ErrPermission), stderrors.Is(err, fs.ErrInvalid):
		return errors.NewResourceError(errors.ResourceErrorPathForbidden, name, err)
	default:
		return errors.NewResourceError(errors.ResourceErrorReadFailure, name, err)
	}
}
