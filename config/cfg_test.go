package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"

	"rstyle/breakpoints"
	"rstyle/generate"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	t.Setenv("RSTYLE_DB", "")

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.Engine.HelperPrefix != generate.DefaultHelperPrefix {
		t.Errorf("Engine.HelperPrefix = %q, want %q", cfg.Engine.HelperPrefix, generate.DefaultHelperPrefix)
	}
	if !slices.Equal(cfg.Engine.ProtectedSelectors, generate.DefaultProtectedSelectors) {
		t.Errorf("Engine.ProtectedSelectors = %v, want %v", cfg.Engine.ProtectedSelectors, generate.DefaultProtectedSelectors)
	}
	if filepath.Base(cfg.Store.Path) != "rstyle.db" {
		t.Errorf("Store.Path = %q, want rstyle.db", cfg.Store.Path)
	}
	if len(cfg.Breakpoints) != 0 {
		t.Errorf("Breakpoints = %v, want none", cfg.Breakpoints)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("ConsoleLogger.Level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_StorePathFromEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "data", "styles.db")
	t.Setenv("RSTYLE_DB", want)

	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Store.Path != want {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, want)
	}
	// sanitizer makes sure directory exists
	if _, err := os.Stat(filepath.Dir(want)); err != nil {
		t.Errorf("store directory was not created: %v", err)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `version: 1
engine:
  protected_selectors: ["#toolbar"]
  helper_prefix: ui
  verify_output: true
breakpoints:
  - name: wide
    media_query: "(min-width: 1600px)"
    width: 2560
    height: 1440
validation:
  max_selector_length: 120
cache:
  ttl: 90s
store:
  path: `+filepath.Join(dir, "rules.db")+`
logging:
  console:
    level: debug
  file:
    level: debug
    destination: `+filepath.Join(dir, "test.log")+`
    mode: append
reporting:
  destination: `+filepath.Join(dir, "report.zip")+`
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if !slices.Equal(cfg.Engine.ProtectedSelectors, []string{"#toolbar"}) {
		t.Errorf("ProtectedSelectors = %v", cfg.Engine.ProtectedSelectors)
	}
	if cfg.Engine.HelperPrefix != "ui" || !cfg.Engine.VerifyOutput {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Cache.TTL = %v, want 90s", cfg.Cache.TTL)
	}
	if cfg.Validation.MaxSelectorLength != 120 {
		t.Errorf("MaxSelectorLength = %d, want 120", cfg.Validation.MaxSelectorLength)
	}
	if got := cfg.Limits().MaxSelectorLength; got != 120 {
		t.Errorf("Limits().MaxSelectorLength = %d, want 120", got)
	}

	want := []breakpoints.Definition{{Name: "wide", MediaQuery: "(min-width: 1600px)", Width: 2560, Height: 1440}}
	if got := cfg.Definitions(); !slices.Equal(got, want) {
		t.Errorf("Definitions() = %+v, want %+v", got, want)
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	path := writeConfig(t, `version: 1
cache:
  ttl: 5m
`)
	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	// untouched sections keep template values
	if cfg.Engine.HelperPrefix != generate.DefaultHelperPrefix {
		t.Errorf("HelperPrefix = %q, want default", cfg.Engine.HelperPrefix)
	}
	if len(cfg.Engine.ProtectedSelectors) == 0 {
		t.Error("ProtectedSelectors should keep template defaults")
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nengine:\n  helper_prefix: rs\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad ttl", "version: 1\ncache:\n  ttl: 0s\n"},
		{"bad helper prefix", "version: 1\nengine:\n  helper_prefix: \"a b\"\n"},
		{"breakpoint without size", "version: 1\nbreakpoints:\n  - name: wide\n    media_query: \"(min-width: 1600px)\"\n"},
		{"breakpoint with braces", "version: 1\nbreakpoints:\n  - name: \"x{\"\n    media_query: \"(min-width: 1600px)\"\n    width: 1\n    height: 1\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadConfiguration() expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if strings.Contains(string(data), "{{") {
		t.Errorf("Prepare() left unexpanded template:\n%s", data)
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Engine:  EngineConfig{HelperPrefix: "rs", ProtectedSelectors: []string{"#bar"}},
		Breakpoints: []BreakpointConfig{
			{Name: "wide", MediaQuery: "(min-width: 1600px)", Width: 2560, Height: 1440},
		},
		Cache: CacheConfig{TTL: 2 * time.Hour},
		Store: StoreConfig{Path: "rules.db"},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "ttl: 2h0m0s") {
		t.Errorf("Dump() should write duration as text, got:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Cache.TTL != cfg.Cache.TTL || cfg2.Store.Path != cfg.Store.Path {
		t.Errorf("mismatch after dump/load: got %+v", cfg2)
	}
	if !slices.Equal(cfg2.Breakpoints, cfg.Breakpoints) {
		t.Errorf("Breakpoints = %+v, want %+v", cfg2.Breakpoints, cfg.Breakpoints)
	}
}

func TestUnmarshalConfig(t *testing.T) {
	t.Run("valid config without processing", func(t *testing.T) {
		result, err := unmarshalConfig([]byte(`version: 1`), &Config{}, false)
		if err != nil {
			t.Fatalf("unmarshalConfig() error = %v", err)
		}
		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := unmarshalConfig([]byte(`invalid: [yaml`), &Config{}, false); err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}
