package config

import (
	"flag"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/giftdeed/internal/codec"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv(t *testing.T) {
	got := FromEnv(Defaults(), envMap(map[string]string{
		EnvAddr:         "127.0.0.1:9000",
		EnvFontPath:     "/fonts/NotoSansJP-Regular.ttf",
		EnvLogLevel:     "DEBUG",
		EnvExportFormat: "YAML",
		EnvDBPath:       "  ",
	}))

	want := Config{
		Addr:         "127.0.0.1:9000",
		DBPath:       "./data/drafts.db",
		FontPath:     "/fonts/NotoSansJP-Regular.ttf",
		LogLevel:     "debug",
		ExportFormat: codec.FormatYAML,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromEnv mismatch (-want +got):\n%s", diff)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	cfg := FromEnv(Defaults(), envMap(map[string]string{
		EnvAddr:     ":7000",
		EnvLogLevel: "warn",
	}))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-addr", ":9090", "-export-format", "yaml"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr: expected :9090, got %q", cfg.Addr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: expected warn from env, got %q", cfg.LogLevel)
	}
	if cfg.ExportFormat != codec.FormatYAML {
		t.Errorf("ExportFormat: expected yaml, got %q", cfg.ExportFormat)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"yml alias", func(c *Config) { c.ExportFormat = "yml" }, false},
		{"unknown format", func(c *Config) { c.ExportFormat = "xml" }, true},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"empty address", func(c *Config) { c.Addr = "" }, true},
		{"empty db path", func(c *Config) { c.DBPath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
