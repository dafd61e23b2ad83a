// Package resource maps request paths onto files below a resource root and
// loads them into memory.
package resource

import (
	"fmt"
	"os"
	"strings"

	"github.com/nczempin/httpd-go-uring/errors"
	"github.com/nczempin/httpd-go-uring/protocol"
)

// Resource is one file read from the resource root
type Resource struct {
	Path      string
	Contents  []byte
	Extension string
}

func newResource(name string, contents []byte) *Resource {
	return &Resource{
		Path:      name,
		Contents:  contents,
		Extension: protocol.Extension(name),
	}
}

// ContentType returns the MIME type for the resource's extension
func (r *Resource) ContentType() string {
	return protocol.ContentTypeFor(r.Path)
}

// Loader reads a whole file, named relative to the resource root.
//
// A missing or non-regular file yields ResourceErrorNotFound; a file the
// process may not read yields ResourceErrorPathForbidden.
type Loader interface {
	Load(name string) (*Resource, error)
}

// LoaderKind selects a Loader implementation
type LoaderKind string

const (
	LoaderFS    LoaderKind = "fs"
	LoaderUnix  LoaderKind = "unix"
	LoaderUring LoaderKind = "uring"
)

// ParseLoaderKind validates a loader name from configuration
func ParseLoaderKind(s string) (LoaderKind, error) {
	switch kind := LoaderKind(strings.ToLower(s)); kind {
	case LoaderFS, LoaderUnix, LoaderUring:
		return kind, nil
	default:
		return "", errors.NewInvalidArgumentError(fmt.Sprintf("unknown loader %q", s))
	}
}

// NewLoader creates the loader of the given kind rooted at root.
// Loaders holding kernel resources also implement io.Closer.
func NewLoader(kind LoaderKind, root string) (Loader, error) {
	if kind == "" {
		kind = LoaderFS
	}
	kind, err := ParseLoaderKind(string(kind))
	if err != nil {
		return nil, err
	}

	switch kind {
	case LoaderFS:
		return NewFSLoader(os.DirFS(root)), nil
	case LoaderUnix:
		loader, err := NewUnixLoader(root)
		if err != nil {
			return nil, err
		}
		return loader, nil
	case LoaderUring:
		loader, err := NewUringLoader(root)
		if err != nil {
			return nil, err
		}
		return loader, nil
	default:
		return nil, errors.NewInvalidArgumentError(fmt.Sprintf("unknown loader %q", kind))
	}
}
