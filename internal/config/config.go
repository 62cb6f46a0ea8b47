// Package config loads computor's user settings.
//
// Settings live in ~/.computor/config.toml (config.json is accepted as a
// fallback). Missing files are not an error: defaults apply, then
// COMPUTOR_* environment variables override whatever was loaded.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Color modes for [display] color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Limits enforced by Validate.
const (
	MaxWorkers        = 256
	MaxDenominatorCap = 1000
	MaxGraphSide      = 400
)

// Config is the full settings tree.
type Config struct {
	History HistoryConfig `toml:"history" json:"history"`
	Display DisplayConfig `toml:"display" json:"display"`
	Batch   BatchConfig   `toml:"batch" json:"batch"`
}

// HistoryConfig controls the solve history database.
type HistoryConfig struct {
	Enabled             bool   `toml:"enabled" json:"enabled"`
	DataDir             string `toml:"data_dir" json:"data_dir"`
	MaxSearchResults    int    `toml:"max_search_results" json:"max_search_results"`
	DedupeWindowMinutes int    `toml:"dedupe_window_minutes" json:"dedupe_window_minutes"`
}

// DedupeWindow is DedupeWindowMinutes as a duration.
func (h HistoryConfig) DedupeWindow() time.Duration {
	return time.Duration(h.DedupeWindowMinutes) * time.Minute
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	Color          string `toml:"color" json:"color"`
	MaxDenominator int    `toml:"max_denominator" json:"max_denominator"`
	Explain        bool   `toml:"explain" json:"explain"`
	GraphWidth     int    `toml:"graph_width" json:"graph_width"`
	GraphHeight    int    `toml:"graph_height" json:"graph_height"`
}

// BatchConfig controls batch solving.
type BatchConfig struct {
	Workers int `toml:"workers" json:"workers"`
}

// Default returns the built-in settings.
func Default() *Config {
	dir, err := Dir()
	if err != nil {
		dir = ".computor"
	}
	return &Config{
		History: HistoryConfig{
			Enabled:             true,
			DataDir:             dir,
			MaxSearchResults:    20,
			DedupeWindowMinutes: 15,
		},
		Display: DisplayConfig{
			Color:          ColorAuto,
			MaxDenominator: 20,
			GraphWidth:     61,
			GraphHeight:    21,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}

// ─── Paths ───────────────────────────────────────────────────────────────────

// Dir returns ~/.computor.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home directory: %w", err)
	}
	return filepath.Join(home, ".computor"), nil
}

// PathTOML returns the path of the TOML config file.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the path of the JSON fallback config file.
func PathJSON() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ─── Load / Save ─────────────────────────────────────────────────────────────

// Load reads the TOML file, else the JSON file, else uses defaults.
// Environment overrides are applied last and the result is validated.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){PathTOML, PathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFromPath(path)
	}
	return finish(Default())
}

// LoadFromPath reads one config file. Files ending in .json are decoded as
// JSON, anything else as TOML. Keys absent from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			fmt.Fprintf(os.Stderr, "WARNING: unknown config keys in %s: %v\n", path, undecoded)
		}
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as TOML to path with owner-only permissions.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("config: create file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# computor configuration")
	fmt.Fprintln(f)
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}

// ─── Environment ─────────────────────────────────────────────────────────────

// ApplyEnvOverrides applies COMPUTOR_* variables:
//
//	COMPUTOR_HISTORY          history.enabled ("0", "false", "off" disable)
//	COMPUTOR_DATA_DIR         history.data_dir
//	COMPUTOR_COLOR            display.color
//	COMPUTOR_WORKERS          batch.workers
//	COMPUTOR_MAX_DENOMINATOR  display.max_denominator
//
// Unparseable numbers are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COMPUTOR_HISTORY"); v != "" {
		c.History.Enabled = parseBool(v)
	}
	if v := os.Getenv("COMPUTOR_DATA_DIR"); v != "" {
		c.History.DataDir = v
	}
	if v := os.Getenv("COMPUTOR_COLOR"); v != "" {
		c.Display.Color = strings.ToLower(v)
	}
	if v := os.Getenv("COMPUTOR_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Batch.Workers = n
		}
	}
	if v := os.Getenv("COMPUTOR_MAX_DENOMINATOR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Display.MaxDenominator = n
		}
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "off", "no":
		return false
	}
	return true
}

// SetDefaults fills zero values left by a partial file.
func (c *Config) SetDefaults() {
	d := Default()
	if c.History.DataDir == "" {
		c.History.DataDir = d.History.DataDir
	}
	if c.History.MaxSearchResults == 0 {
		c.History.MaxSearchResults = d.History.MaxSearchResults
	}
	if c.History.DedupeWindowMinutes == 0 {
		c.History.DedupeWindowMinutes = d.History.DedupeWindowMinutes
	}
	if c.Display.Color == "" {
		c.Display.Color = d.Display.Color
	}
	if c.Display.MaxDenominator == 0 {
		c.Display.MaxDenominator = d.Display.MaxDenominator
	}
	if c.Display.GraphWidth == 0 {
		c.Display.GraphWidth = d.Display.GraphWidth
	}
	if c.Display.GraphHeight == 0 {
		c.Display.GraphHeight = d.Display.GraphHeight
	}
	if c.Batch.Workers == 0 {
		c.Batch.Workers = d.Batch.Workers
	}
}

// ─── Validation ──────────────────────────────────────────────────────────────

// ValidationError is one rejected setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected setting.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks ranges and enumerations. It returns ValidationErrors.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	switch c.Display.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		add("display.color", "invalid mode %q, must be one of: auto, always, never", c.Display.Color)
	}
	if c.Display.MaxDenominator < 1 || c.Display.MaxDenominator > MaxDenominatorCap {
		add("display.max_denominator", "must be between 1 and %d, got %d", MaxDenominatorCap, c.Display.MaxDenominator)
	}
	if c.Display.GraphWidth < 0 || c.Display.GraphWidth > MaxGraphSide {
		add("display.graph_width", "must be between 0 and %d, got %d", MaxGraphSide, c.Display.GraphWidth)
	}
	if c.Display.GraphHeight < 0 || c.Display.GraphHeight > MaxGraphSide {
		add("display.graph_height", "must be between 0 and %d, got %d", MaxGraphSide, c.Display.GraphHeight)
	}
	if c.Batch.Workers < 1 || c.Batch.Workers > MaxWorkers {
		add("batch.workers", "must be between 1 and %d, got %d", MaxWorkers, c.Batch.Workers)
	}
	if c.History.MaxSearchResults < 1 {
		add("history.max_search_results", "must be positive, got %d", c.History.MaxSearchResults)
	}
	if c.History.DedupeWindowMinutes < 0 {
		add("history.dedupe_window_minutes", "must not be negative, got %d", c.History.DedupeWindowMinutes)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// IsValidationError reports whether err carries ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
