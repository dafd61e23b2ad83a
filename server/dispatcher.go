package server

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/nczempin/httpd-go-uring/errors"
	"github.com/nczempin/httpd-go-uring/protocol"
	"github.com/nczempin/httpd-go-uring/resource"
	"github.com/nczempin/httpd-go-uring/transport"
)

// Dispatcher turns one raw request into one response
type Dispatcher struct {
	cfg      Config
	resolver *resource.Resolver
	loader   resource.Loader
	logger   *slog.Logger
}

// Outcome describes how a request was answered
type Outcome struct {
	Request  *protocol.HttpRequest // nil when the request line could not be parsed
	Response *protocol.HttpResponse
	Resource string // file whose contents form the body
	Cause    error  // what diverted the request to a fallback page
}

// NewDispatcher creates a dispatcher serving files through loader
func NewDispatcher(cfg Config, loader resource.Loader, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		cfg:      cfg,
		resolver: resource.NewResolver(cfg.IndexFile),
		loader:   loader,
		logger:   logger,
	}
}

// exchange carries the state of one request through the dispatcher
type exchange struct {
	d    *Dispatcher
	ctx  context.Context
	conn transport.Conn

	raw      []byte
	req      *protocol.HttpRequest
	name     string
	status   int
	fallback bool
	res      *resource.Resource
	cause    error
	resp     *protocol.HttpResponse
	sent     bool

	// err ends the exchange without a response
	err error
}

type stateFunc func(*exchange) stateFunc

// Handle runs raw through validation, resolution, loading and response
// construction. The only error it returns is ResourceErrorFallbackMissing.
func (d *Dispatcher) Handle(raw []byte) (*Outcome, error) {
	x := &exchange{
		d:   d,
		ctx: context.Background(),
		raw: raw,
	}
	x.run(validate)

	if x.err != nil {
		return nil, x.err
	}
	return x.outcome(), nil
}

// Serve answers a single request on conn and closes it. The returned error
// says why no response, or an incomplete one, was sent.
func (d *Dispatcher) Serve(ctx context.Context, conn transport.Conn) error {
	if d.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.RequestTimeout)
		defer cancel()
	}

	if dl, ok := conn.(transport.Deadliner); ok {
		if deadline, ok := ctx.Deadline(); ok {
			d.setDeadline(dl, conn, deadline)
		}
		// Unblock pending I/O when the server shuts down
		stop := context.AfterFunc(ctx, func() {
			d.setDeadline(dl, conn, time.Now())
		})
		defer stop()
	}

	x := &exchange{
		d:    d,
		ctx:  ctx,
		conn: conn,
	}
	x.run(receiveRequest)
	return x.err
}

func (d *Dispatcher) setDeadline(dl transport.Deadliner, conn transport.Conn, t time.Time) {
	if err := dl.SetDeadline(t); err != nil {
		d.logger.Debug("set deadline failed", "remote", conn.RemoteAddr(), "error", err)
	}
}

func (x *exchange) run(state stateFunc) {
	for state != nil {
		if err := x.ctx.Err(); err != nil && x.err == nil && !x.sent {
			x.err = errors.NewTransportError(errors.TransportErrorTimeout, "request abandoned", err)
			state = closeConn
		}
		state = state(x)
	}
}

func (x *exchange) outcome() *Outcome {
	return &Outcome{
		Request:  x.req,
		Response: x.resp,
		Resource: x.name,
		Cause:    x.cause,
	}
}

// state funcs

func receiveRequest(x *exchange) stateFunc {
	buf := make([]byte, x.d.cfg.MaxRequestSize)
	n, err := x.conn.Read(buf)
	if err != nil {
		x.err = err
		x.d.logger.Warn("cannot read request", "remote", x.conn.RemoteAddr(), "error", err)
		return closeConn
	}
	x.raw = buf[:n]

	// A full buffer without a line end holds a cut-off request line
	if n == len(buf) && bytes.IndexByte(x.raw, '\n') < 0 {
		return x.divert(protocol.StatusMethodNotAllowed, errors.NewRequestError(
			errors.RequestErrorMalformedRequest,
			"request line exceeds read buffer",
		))
	}
	return validate
}

func validate(x *exchange) stateFunc {
	req, err := protocol.ParseRequest(x.raw, x.d.cfg.MaxPathLength)
	if err != nil {
		return x.divert(protocol.StatusMethodNotAllowed, err)
	}
	x.req = req

	if req.Method == protocol.MethodUnknown {
		return x.divert(protocol.StatusMethodNotAllowed, errors.NewRequestError(
			errors.RequestErrorUnsupportedMethod,
			"only GET and HEAD are supported",
		))
	}
	return resolve
}

func resolve(x *exchange) stateFunc {
	name, err := x.d.resolver.Resolve(x.req.Path)
	if err != nil {
		// Forbidden paths are answered like missing ones
		return x.divert(protocol.StatusNotFound, err)
	}
	x.name = name
	x.status = protocol.StatusOK
	return load
}

func load(x *exchange) stateFunc {
	res, err := x.d.loader.Load(x.name)
	if err == nil {
		x.res = res
		return buildResponse
	}

	if x.fallback {
		x.err = errors.NewResourceError(errors.ResourceErrorFallbackMissing, x.name, err)
		x.d.logger.Error("fallback resource missing", "resource", x.name, "status", x.status, "error", err)
		return closeConn
	}

	if errors.IsResource(err, errors.ResourceErrorReadFailure) {
		x.d.logger.Warn("cannot read resource", "resource", x.name, "error", err)
	}
	return x.divert(protocol.StatusNotFound, err)
}

func buildResponse(x *exchange) stateFunc {
	headOnly := x.req != nil && x.req.Method == protocol.MethodHead
	x.resp = protocol.NewResponse(x.status, x.res.ContentType(), x.res.Contents, headOnly)

	if x.conn == nil {
		return nil
	}
	return send
}

func send(x *exchange) stateFunc {
	wire := x.resp.Bytes()
	n, err := x.conn.Write(wire)
	if err != nil {
		x.err = err
		x.d.logger.Warn("cannot send response", "remote", x.conn.RemoteAddr(), "written", n, "error", err)
		return closeConn
	}
	x.sent = true

	attrs := []any{
		"remote", x.conn.RemoteAddr(),
		"status", x.resp.StatusCode,
		"resource", x.name,
		"bytes", n,
	}
	if x.req != nil {
		attrs = append(attrs, "method", x.req.Method.String(), "path", x.req.Path)
	}
	if x.cause != nil {
		attrs = append(attrs, "cause", x.cause.Error())
	}
	x.d.logger.Info("request served", attrs...)
	return closeConn
}

func closeConn(x *exchange) stateFunc {
	if x.conn == nil {
		return nil
	}
	if err := x.conn.Close(); err != nil {
		x.d.logger.Debug("close failed", "remote", x.conn.RemoteAddr(), "error", err)
	}
	return nil
}

// divert switches the exchange to the fallback page for status
func (x *exchange) divert(status int, cause error) stateFunc {
	x.status = status
	x.cause = cause
	x.fallback = true
	x.res = nil

	switch status {
	case protocol.StatusMethodNotAllowed:
		x.name = x.d.cfg.MethodNotAllowedFile
	default:
		x.name = x.d.cfg.NotFoundFile
	}
	return load
}
