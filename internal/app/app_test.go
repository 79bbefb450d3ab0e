package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"priceview/internal/config"
	"priceview/internal/history"
)

const widgetCSV = `Product,Date,Price_USD
Widget,2025-03-01,8
Widget,2025-01-01,10
Widget,2025-02-01,15
Gizmo,2025-01-05,3.5
`

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte(widgetCSV), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	cfg := &config.Config{
		Source: config.SourceConfig{Kind: config.SourceCSV, Path: path, Delimiter: ","},
		Chart:  config.ChartConfig{Width: 320, Height: 200},
	}
	a := NewApp(cfg, zerolog.Nop())
	out := &bytes.Buffer{}
	a.Out = out
	return a, out
}

func TestShowTable(t *testing.T) {
	a, out := newTestApp(t)

	if err := a.Show(context.Background(), ShowOptions{Product: "Widget", Range: "1m"}); err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Widget", "1-month", "2025-01-30", "$15 on 2025-02-01", "$8 on 2025-03-01"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output should contain %q:\n%s", want, out.String())
		}
	}
}

func TestShowJSONAndYAML(t *testing.T) {
	a, out := newTestApp(t)

	if err := a.Show(context.Background(), ShowOptions{Range: "all", Format: "json"}); err != nil {
		t.Fatalf("show: %v", err)
	}
	var report showReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if report.Product != "Widget" || report.Points != 3 || report.Highest.Price != "$15" {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Cutoff != "" {
		t.Fatal("all-time selections have no cutoff")
	}

	out.Reset()
	if err := a.Show(context.Background(), ShowOptions{Product: "Gizmo", Range: "6m", Format: "yaml"}); err != nil {
		t.Fatalf("show: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if decoded["product"] != "Gizmo" || decoded["range"] != "6-months" {
		t.Fatalf("unexpected yaml %v", decoded)
	}
}

func TestShowErrors(t *testing.T) {
	a, _ := newTestApp(t)

	err := a.Show(context.Background(), ShowOptions{Product: "Gadget", Range: "all"})
	var unknown *history.UnknownProductError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownProductError, got %v", err)
	}
	if err := a.Show(context.Background(), ShowOptions{Range: "1y"}); err == nil {
		t.Fatal("unknown range should fail")
	}
	if err := a.Show(context.Background(), ShowOptions{Range: "all", Format: "xml"}); err == nil {
		t.Fatal("unsupported format should fail")
	}
}

func TestShowLoadError(t *testing.T) {
	a, _ := newTestApp(t)
	a.Config.Source.Path = filepath.Join(t.TempDir(), "missing.csv")

	err := a.Show(context.Background(), ShowOptions{Range: "all"})
	var loadErr *history.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestProducts(t *testing.T) {
	a, out := newTestApp(t)

	if err := a.Products(context.Background()); err != nil {
		t.Fatalf("products: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[1], "Widget") || !strings.Contains(lines[1], "2025-01-01") || !strings.Contains(lines[1], "2025-03-01") {
		t.Fatalf("unexpected widget line %q", lines[1])
	}
}

func TestExport(t *testing.T) {
	a, _ := newTestApp(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out", "widget.csv")
	pngPath := filepath.Join(dir, "out", "widget.png")

	err := a.Export(context.Background(), ExportOptions{Product: "Widget", Range: "1m", CSVPath: csvPath, PNGPath: pngPath})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := "Product,Date,Price_USD\nWidget,2025-02-01,15\nWidget,2025-03-01,8\n"
	if string(data) != want {
		t.Fatalf("expected %q, got %q", want, data)
	}

	png, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("exported file should be a PNG")
	}

	if err := a.Export(context.Background(), ExportOptions{Range: "all"}); err == nil {
		t.Fatal("export without output paths should fail")
	}
}
