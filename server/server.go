package server

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/nczempin/httpd-go-uring/resource"
	"github.com/nczempin/httpd-go-uring/transport"
)

// Server accepts connections and hands them, one at a time, to a Dispatcher
type Server struct {
	cfg        Config
	logger     *slog.Logger
	loader     resource.Loader
	ring       *transport.Ring
	dispatcher *Dispatcher
}

// New validates cfg and prepares the loader and transport it names
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loader, err := resource.NewLoader(cfg.Loader, cfg.Root)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		loader: loader,
	}

	if cfg.Transport == TransportUring {
		ring, err := transport.NewRing()
		if err != nil {
			s.Close()
			return nil, err
		}
		s.ring = ring
	}

	s.dispatcher = NewDispatcher(cfg, loader, logger)
	return s, nil
}

// ListenAndServe listens on the configured address and serves until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen(s.cfg.Network, s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done or the listener
// fails. Each connection is served to completion before the next Accept.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	defer listener.Close()

	stop := context.AfterFunc(ctx, func() {
		listener.Close()
	})
	defer stop()

	s.logger.Info("server listening",
		"addr", listener.Addr().String(),
		"root", s.cfg.Root,
		"loader", string(s.cfg.Loader),
		"transport", string(s.cfg.Transport),
	)

	var backoff time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("server stopped", "addr", listener.Addr().String())
				return nil
			}
			if stderrors.Is(err, net.ErrClosed) {
				return err
			}

			s.logger.Error("cannot accept connection", "error", err)
			backoff = nextBackoff(backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
			}
			continue
		}
		backoff = 0

		s.serveConn(ctx, conn)
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	s.logger.Debug("connection accepted", "remote", conn.RemoteAddr().String())

	var c transport.Conn
	if s.ring != nil {
		wrapped, err := s.ring.Wrap(conn)
		if err != nil {
			s.logger.Error("cannot set up connection", "error", err)
			return
		}
		c = wrapped
	} else {
		c = transport.NewNetConn(conn)
	}

	// Errors are logged by the dispatcher and never outlive the connection
	_ = s.dispatcher.Serve(ctx, c)
}

// Close releases the loader and ring
func (s *Server) Close() error {
	var err error
	if closer, ok := s.loader.(io.Closer); ok {
		err = closer.Close()
	}
	if s.ring != nil {
		if ringErr := s.ring.Close(); err == nil {
			err = ringErr
		}
		s.ring = nil
	}
	return err
}

// nextBackoff doubles the accept retry delay between 5ms and 1s
func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	d *= 2
	if d > time.Second {
		d = time.Second
	}
	return d
}
