// Package config loads server settings from defaults, environment variables
// and command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mmynk/giftdeed/internal/codec"
	"github.com/mmynk/giftdeed/pkg/logging"
)

// Environment keys.
const (
	EnvAddr         = "ADDR"
	EnvDBPath       = "DB_PATH"
	EnvFontPath     = "FONT_PATH"
	EnvLogLevel     = "LOG_LEVEL"
	EnvExportFormat = "EXPORT_FORMAT"
)

// Config holds the server settings.
type Config struct {
	Addr         string
	DBPath       string
	FontPath     string
	LogLevel     string
	ExportFormat codec.Format
}

// Defaults returns the settings used when nothing else is given.
func Defaults() Config {
	return Config{
		Addr:         ":8080",
		DBPath:       "./data/drafts.db",
		LogLevel:     "info",
		ExportFormat: codec.FormatJSON,
	}
}

// FromEnv overlays the variables found by lookup on base.
// Empty values are ignored.
func FromEnv(base Config, lookup func(string) (string, bool)) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	out := base
	if v, ok := get(EnvAddr); ok {
		out.Addr = v
	}
	if v, ok := get(EnvDBPath); ok {
		out.DBPath = v
	}
	if v, ok := get(EnvFontPath); ok {
		out.FontPath = v
	}
	if v, ok := get(EnvLogLevel); ok {
		out.LogLevel = strings.ToLower(v)
	}
	if v, ok := get(EnvExportFormat); ok {
		out.ExportFormat = codec.Format(strings.ToLower(v))
	}
	return out
}

// RegisterFlags binds c's fields to flags on fs. The current values of c
// become the flag defaults, so parsing fs after FromEnv lets flags win.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "path of the SQLite draft database")
	fs.StringVar(&c.FontPath, "font", c.FontPath, "TrueType font with Japanese glyphs for PDF output")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.Func("export-format", "default export format: json or yaml (default "+string(c.ExportFormat)+")", func(s string) error {
		c.ExportFormat = codec.Format(strings.ToLower(s))
		return nil
	})
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.LogLevel, validation.By(func(v any) error {
			_, err := logging.ParseLevel(v.(string))
			return err
		})),
		validation.Field(&c.ExportFormat, validation.By(func(v any) error {
			_, err := codec.ForFormat(v.(codec.Format))
			return err
		})),
	)
}
