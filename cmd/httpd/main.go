package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nczempin/httpd-go-uring/resource"
	"github.com/nczempin/httpd-go-uring/server"
)

const (
	helpTextNetwork   = `Network to listen on: tcp, tcp4, tcp6 or unix.`
	helpTextAddr      = `Address to listen on. A socket path when -network is unix.`
	helpTextRoot      = `Directory the server reads requested files from.`
	helpTextIndex     = `File served for "/" and other paths ending in "/".`
	helpTextNotFound  = `File, relative to the root, sent with 404 responses.`
	helpTextNotAllow  = `File, relative to the root, sent with 405 responses.`
	helpTextMaxPath   = `Longest request path accepted, in bytes.`
	helpTextMaxReq    = `Bytes read from a connection for its request.`
	helpTextTimeout   = `Time allowed per connection, 0 for no limit.`
	helpTextLoader    = `How files are read: fs, unix or uring.`
	helpTextTransport = `How sockets are driven: net or uring.`
	helpTextVerbose   = `Prints debugging messages.`
)

func parseArgs(args []string) (server.Config, bool, error) {
	cfg := server.DefaultConfig()
	fs := flag.NewFlagSet("httpd", flag.ContinueOnError)

	var loader, transport string
	fs.StringVar(&cfg.Network, "network", cfg.Network, helpTextNetwork)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, helpTextAddr)
	fs.StringVar(&cfg.Root, "root", cfg.Root, helpTextRoot)
	fs.StringVar(&cfg.IndexFile, "index", cfg.IndexFile, helpTextIndex)
	fs.StringVar(&cfg.NotFoundFile, "not-found", cfg.NotFoundFile, helpTextNotFound)
	fs.StringVar(&cfg.MethodNotAllowedFile, "not-allowed", cfg.MethodNotAllowedFile, helpTextNotAllow)
	fs.IntVar(&cfg.MaxPathLength, "max-path", cfg.MaxPathLength, helpTextMaxPath)
	fs.IntVar(&cfg.MaxRequestSize, "max-request", cfg.MaxRequestSize, helpTextMaxReq)
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, helpTextTimeout)
	fs.StringVar(&loader, "loader", string(cfg.Loader), helpTextLoader)
	fs.StringVar(&transport, "transport", string(cfg.Transport), helpTextTransport)
	verbose := fs.Bool("v", false, helpTextVerbose)

	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}

	kind, err := resource.ParseLoaderKind(loader)
	if err != nil {
		return cfg, false, err
	}
	cfg.Loader = kind

	tk, err := server.ParseTransportKind(transport)
	if err != nil {
		return cfg, false, err
	}
	cfg.Transport = tk

	return cfg, *verbose, cfg.Validate()
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func run(args []string) int {
	cfg, verbose, err := parseArgs(args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, "httpd:", err)
		return 2
	}

	logger := newLogger(verbose)
	slog.SetDefault(logger)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("cannot start server", "error", err)
		return 1
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server failed", "addr", cfg.Addr, "error", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}
