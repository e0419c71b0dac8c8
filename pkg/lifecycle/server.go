// Package lifecycle runs a long-lived service plus its HTTP surface and
// tears both down cleanly on SIGINT/SIGTERM or context cancellation.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	ShutdownTimeout = 10 * time.Second
	readGraceTime   = 10 * time.Second
)

// Service is the long-running work the lifecycle wraps. Start blocks
// until the context is canceled.
type Service interface {
	Start(context.Context) error
}

// ServerOptions holds everything needed to run a service.
type ServerOptions struct {
	ListenAddr  string
	ServiceName string
	Service     Service
	Handler     http.Handler
	Logger      *zap.Logger
}

// RunServer starts the service and its HTTP server and blocks until a
// shutdown signal, a context cancel, or a fatal error from either.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := opts.Logger
	logger.Info("starting service", zap.String("service", opts.ServiceName))

	errChan := make(chan error, 2)
	svcDone := make(chan struct{})

	go func() {
		defer close(svcDone)

		if err := opts.Service.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- fmt.Errorf("service: %w", err)
		}
	}()

	var httpServer *http.Server

	if opts.Handler != nil {
		httpServer = &http.Server{
			Addr:              opts.ListenAddr,
			Handler:           opts.Handler,
			ReadHeaderTimeout: readGraceTime,
		}

		go func() {
			logger.Info("http server listening", zap.String("addr", opts.ListenAddr))

			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	return handleShutdown(ctx, cancel, httpServer, svcDone, errChan, logger)
}

func handleShutdown(ctx context.Context, cancel context.CancelFunc, httpServer *http.Server, svcDone chan struct{}, errChan chan error, logger *zap.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error

	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.Error("fatal error, shutting down", zap.Error(err))
		runErr = err
	case <-ctx.Done():
		logger.Info("context canceled, shutting down")
		runErr = ctx.Err()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	cancel()

	// Join the service goroutine so an in-flight unit step finishes
	// before the process exits.
	select {
	case <-svcDone:
	case <-shutdownCtx.Done():
		logger.Warn("service did not stop within the shutdown timeout")
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown error", zap.Error(err))
		}
	}

	return runErr
}
