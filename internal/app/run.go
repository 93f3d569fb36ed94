package app

import (
	"context"

	"github.com/vk/funcgrid/internal/ctxlog"
)

// Run starts the lifecycle participants, blocks until the context is
// canceled, then stops them in reverse order and releases module resources.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.logger.Info("Functions bound.", "count", a.catalog.Len(), "names", a.catalog.Names())

	if err := a.manager.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("Host started.")

	<-ctx.Done()

	// Stop with a fresh context; the run context is already canceled.
	stopCtx := ctxlog.WithLogger(context.Background(), a.logger)
	err := a.manager.Stop(stopCtx)

	for _, closer := range a.closers {
		if closeErr := closer.Close(); closeErr != nil {
			a.logger.Error("Failed to close module resource.", "error", closeErr)
		}
	}

	a.logger.Info("Host stopped.")
	return err
}

// Start brings the lifecycle up without blocking. Tests use Start/Stop
// directly; cmd/funcgrid uses Run.
func (a *App) Start(ctx context.Context) error {
	return a.manager.Start(ctxlog.WithLogger(ctx, a.logger))
}

// Stop tears the lifecycle down.
func (a *App) Stop(ctx context.Context) error {
	return a.manager.Stop(ctxlog.WithLogger(ctx, a.logger))
}
