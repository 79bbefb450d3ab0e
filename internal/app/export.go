package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"priceview/internal/render"
	"priceview/internal/selection"
)

// Export renders a selection as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	store, err := a.loadStore(ctx)
	if err != nil {
		return err
	}
	sel, err := resolveSelection(store, opts.Product, opts.Range)
	if err != nil {
		return err
	}

	res, err := a.newViewer(store, nil).Select(sel)
	var empty *selection.EmptySeriesError
	switch {
	case errors.As(err, &empty):
		a.Logger.Info().Str("product", sel.Product).Stringer("range", sel.Range).Msg("no observations in range")
	case err != nil:
		return err
	}

	a.Logger.Info().
		Str("product", sel.Product).
		Stringer("range", sel.Range).
		Int("points", len(res.Series)).
		Msg("exporting selection")

	if opts.CSVPath != "" {
		if err := writeFile(opts.CSVPath, func(f *os.File) error {
			return render.WriteCSV(f, sel.Product, res.Series)
		}); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		size := render.Options{Width: a.Config.Chart.Width, Height: a.Config.Chart.Height}
		if opts.Width > 0 {
			size.Width = opts.Width
		}
		if opts.Height > 0 {
			size.Height = opts.Height
		}
		spec := render.NewChartSpec(sel.Product, res.Series)
		if err := writeFile(opts.PNGPath, func(f *os.File) error {
			return render.PNG(f, spec, size)
		}); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
