package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"posimarket/api"
	cartapp "posimarket/application/cart"
	"posimarket/config"
	"posimarket/pkg/logger"

	"go.uber.org/zap"
)

// App HTTP server and the infrastructure it owns
type App struct {
	config *config.Config
	router *api.Router
	server *http.Server
	infra  *Infrastructure
	carts  *cartapp.ApplicationService
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the in-memory store is private to this process, so its jobs run here
	if !a.config.UsesMySQL() && a.config.Worker.Enabled {
		if err := a.startBackground(ctx); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.infra.Close()
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", zap.Duration("timeout", a.config.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	err := a.server.Shutdown(shutdownCtx)
	a.infra.Close()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func (a *App) startBackground(ctx context.Context) error {
	worker, closeWorker, err := NewOutboxWorker(a.config, a.infra.Outbox)
	if err != nil {
		return fmt.Errorf("failed to create outbox worker: %w", err)
	}
	go func() {
		defer closeWorker()
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Outbox worker stopped", zap.Error(err))
		}
	}()
	go RunSweeper(ctx, a.carts, a.config.Worker.SweepInterval)
	return nil
}

// Handler HTTP handler, for tests
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Close releases infrastructure without serving
func (a *App) Close() {
	a.infra.Close()
}
