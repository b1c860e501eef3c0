package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsApplyWithoutConfigFile(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Download.Concurrency != defaultConcurrency {
		t.Fatalf("concurrency = %d, want %d", cfg.Download.Concurrency, defaultConcurrency)
	}
	if cfg.Download.ConnectTimeout != defaultConnectTimeout || cfg.Download.ReadTimeout != defaultReadTimeout {
		t.Fatalf("unexpected timeouts: %+v", cfg.Download)
	}
	if !cfg.Journal.Enabled {
		t.Fatal("journal should default to enabled")
	}
	if !strings.HasSuffix(cfg.Paths.OutputDir, "downloads") {
		t.Fatalf("output dir = %q", cfg.Paths.OutputDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + filepath.Join(dir, "out") + `"

[download]
concurrency = 3

[ffmpeg]
binary = "/opt/ffmpeg/bin/ffmpeg"

[journal]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Download.Concurrency != 3 {
		t.Fatalf("concurrency = %d", cfg.Download.Concurrency)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("ffmpeg binary = %q", cfg.FFmpegBinary())
	}
	if cfg.JournalPath() != "" {
		t.Fatal("journal path should be empty when disabled")
	}
}

func TestJournalPathInsideOutputDir(t *testing.T) {
	cfg := Default()
	cfg.Paths.OutputDir = "/data/out"
	if got := cfg.JournalPath(); got != filepath.Join("/data/out", "journal.db") {
		t.Fatalf("journal path = %q", got)
	}
}

func TestValidateRejectsBadLogging(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bad log format")
	}
}

func TestNormalizeRepairsZeroValues(t *testing.T) {
	cfg := Config{}
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	if cfg.Download.Concurrency != defaultConcurrency {
		t.Fatalf("concurrency = %d", cfg.Download.Concurrency)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected error on second write")
	}
}
