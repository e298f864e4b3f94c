package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/zap"

	"github.com/cristianoliveira/htmx-lsp/lsp"
)

var errExitWithoutShutdown = errors.New("exit received before shutdown")

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	server, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting htmx-lsp server",
		zap.String("version", version),
		zap.String("attribute_prefix", cfg.AttributePrefix))

	err = run(ctx, server, &readWriteCloser{os.Stdin, os.Stdout})
	if err != nil {
		logger.Error("Server error", zap.Error(err))
	}

	return err
}

// run serves server over rwc until the client exits or hangs up.
func run(ctx context.Context, server *lsp.Server, rwc io.ReadWriteCloser) error {
	// Create a JSON-RPC stream connection over the transport
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, server.Handler())

	select {
	case <-conn.Done():
		err := conn.Err()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
			return nil
		}

		return err
	case <-server.Exited():
		_ = conn.Close()
		<-conn.Done()

		if !server.IsShutdown() {
			return errExitWithoutShutdown
		}

		return nil
	}
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	// Close writer if it's closeable
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
