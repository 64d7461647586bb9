package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/voice-studio/internal/observe"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsPath            = "/metrics"
	metricsShutdownTimeout = 5 * time.Second
	metricsHeaderTimeout   = 10 * time.Second
)

// listenMetrics opens the metrics listener on addr.
func listenMetrics(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics on %s: %w", addr, err)
	}

	return listener, nil
}

// startMetrics installs the Prometheus meter provider and serves it on
// listener until ctx ends. The returned function waits for the server to
// stop and flushes the provider.
func startMetrics(ctx context.Context, listener net.Listener, log *logger.Logger) (func() error, error) {
	shutdownProvider, err := observe.InitProvider(version)
	if err != nil {
		_ = listener.Close()

		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.Handler())

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: metricsHeaderTimeout,
	}

	served := make(chan error, 1)

	go func() {
		serveErr := server.Serve(listener)
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}

		served <- serveErr
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("Serving metrics on http://%s%s", listener.Addr(), metricsPath)

	return func() error {
		serveErr := <-served

		return errors.Join(serveErr, shutdownProvider(context.Background()))
	}, nil
}
