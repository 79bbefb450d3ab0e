package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "version: ") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestShowCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "prices.csv")
	if err := os.WriteFile(csvPath, []byte("Product,Date,Price_USD\nWidget,2025-01-01,10\nWidget,2025-02-01,15\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "source:\n  path: " + csvPath + "\nlogging:\n  level: error\ncache:\n  backend: none\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"--config", cfgPath,
		"--env-file", filepath.Join(dir, "missing.env"),
		"show", "--product", "Widget", "--format", "json",
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), `"highest"`) || !strings.Contains(out.String(), `"$15"`) {
		t.Fatalf("unexpected output %q", out.String())
	}
}
