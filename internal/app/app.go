package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"priceview/internal/config"
	"priceview/internal/history"
	"priceview/internal/metrics"
	"priceview/internal/selection"
	"priceview/internal/service"
	"priceview/internal/source"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	// Out receives command output. Defaults to stdout.
	Out io.Writer
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger.With().Str("component", "app").Logger(),
		Out:    os.Stdout,
	}
}

// loadStore reads every observation from the configured source.
func (a *App) loadStore(ctx context.Context) (*history.Store, error) {
	src, err := source.New(a.Config.Source, a.Logger)
	if err != nil {
		return nil, err
	}

	if a.Config.Source.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.Source.Timeout)
		defer cancel()
	}

	start := time.Now()
	store, err := history.Load(ctx, src, source.LoadOptions(a.Config.Source))
	if err != nil {
		return nil, err
	}

	a.Logger.Info().
		Str("source", src.Name()).
		Int("products", len(store.Products())).
		Int("observations", store.Len()).
		Dur("took", time.Since(start)).
		Msg("observations loaded")
	return store, nil
}

func (a *App) newRecorder() *metrics.Recorder {
	if !a.Config.Metrics.Enabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return metrics.New(reg)
}

func (a *App) newViewer(store *history.Store, rec *metrics.Recorder) *service.Viewer {
	rec.RecordStore(len(store.Products()), store.Len())
	return service.NewViewer(store, rec, a.Logger)
}

// resolveSelection defaults the product to the first one in the store.
func resolveSelection(store *history.Store, product, rng string) (selection.Selection, error) {
	token, err := selection.ParseRange(rng)
	if err != nil {
		return selection.Selection{}, err
	}
	if product == "" {
		products := store.Products()
		if len(products) == 0 {
			return selection.Selection{}, fmt.Errorf("no products loaded")
		}
		product = products[0]
	}
	return selection.Selection{Product: product, Range: token}, nil
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Product string
	Range   string
	Format  string
}

// ExportOptions hold parameters for exporting a selection.
type ExportOptions struct {
	Product string
	Range   string
	PNGPath string
	CSVPath string
	Width   int
	Height  int
}
