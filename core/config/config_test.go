package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/emenda-labs/bccheck/core/changespec"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg.Formats, []string{"console"}) {
		t.Errorf("Formats = %v, want [console]", cfg.Formats)
	}
	if !cfg.InstallDependencies {
		t.Error("dependencies should be installed by default")
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigFromRepository(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".bccheck.yaml", `
formats: [console, markdown]
markdown-file: CHANGES.md
baseline:
  - '^Method Acme\\Legacy#'
install-dependencies: false
cache-dir: .cache/bccheck
log:
  level: debug
`)

	cfg, err := LoadConfig(dir, "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg.Formats, []string{"console", "markdown"}) {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if cfg.MarkdownFile != "CHANGES.md" {
		t.Errorf("MarkdownFile = %q", cfg.MarkdownFile)
	}
	if cfg.InstallDependencies {
		t.Error("install-dependencies should be false")
	}
	if want := filepath.Join(dir, ".cache/bccheck"); cfg.CacheDir != want {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, want)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if len(cfg.Baseline) != 1 || cfg.Baseline[0] != `^Method Acme\\Legacy#` {
		t.Errorf("Baseline = %q", cfg.Baseline)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.json", `{"formats": ["json"]}`)

	cfg, err := LoadConfig(t.TempDir(), path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg.Formats, []string{"json"}) {
		t.Errorf("Formats = %v", cfg.Formats)
	}

	if _, err := LoadConfig(dir, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("a missing explicit config file should be an error")
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("BCCHECK_LOG_LEVEL", "error")
	t.Setenv("BCCHECK_SOURCES_PATH", "lib")

	cfg, err := LoadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}
	if cfg.SourcesPath != "lib" {
		t.Errorf("SourcesPath = %q, want lib", cfg.SourcesPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"no formats", func(c *Config) { c.Formats = nil }, "formats"},
		{"unknown format", func(c *Config) { c.Formats = []string{"xml"} }, "formats"},
		{"markdown file without markdown", func(c *Config) { c.MarkdownFile = "out.md" }, "markdown-file"},
		{"log format", func(c *Config) { c.Log.Format = "logfmt" }, "log.format"},
		{"bad baseline", func(c *Config) { c.Baseline = []string{"ok", "("} }, "baseline[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Error("ConfigError should wrap ErrInvalid")
			}
		})
	}
}

func TestBaselineApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Baseline = []string{`^Class Acme\\Legacy has been deleted$`, `became final`}

	baseline, err := cfg.CompileBaseline()
	if err != nil {
		t.Fatalf("CompileBaseline: %v", err)
	}

	changes := changespec.FromList(
		changespec.Removed(`Class Acme\Legacy has been deleted`, true),
		changespec.Changed(`Class Acme\Circle became final`, true),
		changespec.Removed(`Class Acme\Other has been deleted`, true),
	)
	got := baseline.Apply(changes)
	if got.Len() != 1 || got.List()[0].Message() != `Class Acme\Other has been deleted` {
		t.Errorf("Apply = %v", got.List())
	}

	var empty *Baseline
	if empty.Apply(changes).Len() != 3 {
		t.Error("a nil baseline should keep every change")
	}
}
