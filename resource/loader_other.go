//go:build !linux

package resource

import (
	"github.com/nczempin/httpd-go-uring/errors"
)

// NewUnixLoader is only available on Linux
func NewUnixLoader(root string) (Loader, error) {
	return nil, errors.NewInvalidArgumentError("unix loader requires linux")
}

// NewUringLoader is only available on Linux
func NewUringLoader(root string) (Loader, error) {
	return nil, errors.NewInvalidArgumentError("uring loader requires linux")
}
