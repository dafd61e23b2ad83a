package resource

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/nczempin/httpd-go-uring/errors"
)

// DefaultIndexFile is served for "/" and other directory paths.
const DefaultIndexFile = "index.html"

// Resolver turns request paths into names relative to the resource root
type Resolver struct {
	indexFile string
}

// NewResolver creates a resolver serving indexFile for directory paths
func NewResolver(indexFile string) *Resolver {
	if indexFile == "" {
		indexFile = DefaultIndexFile
	}
	return &Resolver{indexFile: indexFile}
}

// IndexFile returns the default document name
func (r *Resolver) IndexFile() string {
	return r.indexFile
}

// Resolve maps a request path to a slash-separated name below the root.
// Paths that could leave the root are rejected with ResourceErrorPathForbidden.
func (r *Resolver) Resolve(requestPath string) (string, error) {
	if !strings.HasPrefix(requestPath, "/") {
		return "", forbidden(requestPath, "path is not absolute")
	}

	name := requestPath[1:]
	if name == "" || strings.HasSuffix(name, "/") {
		name += r.indexFile
	}

	if strings.HasPrefix(name, "/") {
		return "", forbidden(requestPath, "absolute path escape")
	}
	if strings.ContainsAny(name, "\\\x00") {
		return "", forbidden(requestPath, "illegal character")
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == ".." {
			return "", forbidden(requestPath, "parent directory segment")
		}
	}
	if !fs.ValidPath(name) {
		return "", forbidden(requestPath, "invalid path")
	}

	return name, nil
}

func forbidden(requestPath, reason string) error {
	return errors.NewResourceError(
		errors.ResourceErrorPathForbidden,
		fmt.Sprintf("%s: %q", reason, requestPath),
		nil,
	)
}
