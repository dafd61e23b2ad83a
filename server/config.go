package server

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/nczempin/httpd-go-uring/errors"
	"github.com/nczempin/httpd-go-uring/protocol"
	"github.com/nczempin/httpd-go-uring/resource"
)

// TransportKind selects how accepted connections are driven
type TransportKind string

const (
	TransportNet   TransportKind = "net"
	TransportUring TransportKind = "uring"
)

// Config holds everything the server needs to run
type Config struct {
	Network string // tcp, tcp4, tcp6 or unix
	Addr    string

	Root                 string // resource root
	IndexFile            string // served for "/" and directory paths
	NotFoundFile         string // body of 404 responses, relative to Root
	MethodNotAllowedFile string // body of 405 responses, relative to Root

	MaxPathLength  int
	MaxRequestSize int // bytes taken from the single request read

	// RequestTimeout bounds one connection from accept to close. Zero disables it.
	RequestTimeout time.Duration

	Loader    resource.LoaderKind
	Transport TransportKind
}

// DefaultConfig returns the settings used when no flags are given
func DefaultConfig() Config {
	return Config{
		Network:              "tcp",
		Addr:                 ":8080",
		Root:                 "./resources",
		IndexFile:            resource.DefaultIndexFile,
		NotFoundFile:         "404.html",
		MethodNotAllowedFile: "405.html",
		MaxPathLength:        protocol.DefaultMaxPathLength,
		MaxRequestSize:       8192,
		Loader:               resource.LoaderFS,
		Transport:            TransportNet,
	}
}

// Validate reports the first invalid setting and normalizes the loader name
func (c *Config) Validate() error {
	switch c.Network {
	case "tcp", "tcp4", "tcp6", "unix":
	default:
		return errors.NewInvalidArgumentError(fmt.Sprintf("unsupported network %q", c.Network))
	}
	if c.Addr == "" {
		return errors.NewInvalidArgumentError("listen address is required")
	}
	if c.Root == "" {
		return errors.NewInvalidArgumentError("resource root is required")
	}

	files := map[string]string{
		"index file":              c.IndexFile,
		"not-found file":          c.NotFoundFile,
		"method-not-allowed file": c.MethodNotAllowedFile,
	}
	for what, name := range files {
		if name == "" || !fs.ValidPath(name) || name == "." {
			return errors.NewInvalidArgumentError(fmt.Sprintf("invalid %s %q", what, name))
		}
	}

	if c.MaxPathLength <= 0 {
		return errors.NewInvalidArgumentError("max path length must be positive")
	}
	if c.MaxRequestSize <= 0 {
		return errors.NewInvalidArgumentError("max request size must be positive")
	}
	if c.RequestTimeout < 0 {
		return errors.NewInvalidArgumentError("request timeout must not be negative")
	}
	loader, err := resource.ParseLoaderKind(string(c.Loader))
	if err != nil {
		return err
	}
	c.Loader = loader
	if _, err := ParseTransportKind(string(c.Transport)); err != nil {
		return err
	}

	return nil
}

// ParseTransportKind validates a transport name from configuration
func ParseTransportKind(s string) (TransportKind, error) {
	switch kind := TransportKind(s); kind {
	case TransportNet, TransportUring:
		return kind, nil
	default:
		return "", errors.NewInvalidArgumentError(fmt.Sprintf("unknown transport %q", s))
	}
}
