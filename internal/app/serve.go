package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"priceview/internal/cache"
	"priceview/internal/render"
	"priceview/internal/server"
)

// Serve loads the store and runs the HTTP dashboard until interrupted.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := a.loadStore(ctx)
	if err != nil {
		return err
	}

	rec := a.newRecorder()
	viewer := a.newViewer(store, rec)

	charts, err := cache.New(a.Config.Cache, a.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := charts.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("close chart cache")
		}
	}()

	handler := server.NewHandler(viewer, charts, rec, render.Options{
		Width:  a.Config.Chart.Width,
		Height: a.Config.Chart.Height,
	}, a.Logger)

	opts := server.Options{
		Host:            a.Config.Server.Host,
		Port:            a.Config.Server.Port,
		ReadTimeout:     a.Config.Server.ReadTimeout,
		WriteTimeout:    a.Config.Server.WriteTimeout,
		ShutdownTimeout: a.Config.Server.ShutdownTimeout,
		CORS:            a.Config.Server.CORS,
	}
	if a.Config.Metrics.Enabled {
		opts.MetricsPath = a.Config.Metrics.Path
	}
	srv := server.New(handler, rec, opts, a.Logger)

	a.Logger.Info().Str("addr", srv.Addr()).Msg("starting price viewer")
	err = srv.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("server terminated with error")
		return err
	}

	a.Logger.Info().Msg("price viewer stopped")
	return nil
}
