package common

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownHook is a function executed after a termination signal is received
// but before the HTTP servers begin their graceful shutdown. A failing hook is
// logged and shutdown continues regardless.
type ShutdownHook func(ctx context.Context) error

// RunServersWithShutdown starts the servers and blocks until a termination
// signal is received or one of them fails to listen. It then runs the hooks in
// order, each with its own timeout inside the overall shutdown deadline, and
// finally shuts the servers down.
//
// Typical usage in main:
//
//	server := common.NewServerWithTimeouts(&http.Server{Addr: ":8080", Handler: mux}, cfg.Timeouts)
//	common.RunServersWithShutdown(logger, cfg.Timeouts, []*http.Server{server}, saveHook)
func RunServersWithShutdown(logger *zap.Logger, cfg TimeoutConfig, servers []*http.Server, hooks ...ShutdownHook) error {
	hookTimeout := cfg.Hook
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}
	failed := make(chan error, len(servers))
	for _, server := range servers {
		go func(server *http.Server) {
			logger.Info("starting server", zap.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				failed <- err
			}
		}(server)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var listenErr error
	select {
	case sig := <-stop:
		logger.Info("shutdown signal received", zap.Stringer("signal", sig))
	case listenErr = <-failed:
		logger.Error("listen failed", zap.Error(listenErr))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(ctx, hookTimeout)
		if err := h(hCtx); err != nil {
			logger.Warn("shutdown hook failed", zap.Int("hook", i), zap.Error(err))
		}
		if errors.Is(hCtx.Err(), context.DeadlineExceeded) {
			logger.Warn("shutdown hook timed out", zap.Int("hook", i))
		}
		hCancel()
	}

	for _, server := range servers {
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown failed", zap.String("addr", server.Addr), zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
	return listenErr
}

// NewServerWithTimeouts attaches timeout settings to an existing *http.Server or creates a new one if nil.
func NewServerWithTimeouts(base *http.Server, cfg TimeoutConfig) *http.Server {
	if base == nil {
		base = &http.Server{}
	}
	base.ReadHeaderTimeout = cfg.ReadHeader
	base.ReadTimeout = cfg.Read
	base.WriteTimeout = cfg.Write
	base.IdleTimeout = cfg.Idle
	return base
}
