// Package config loads goaltree's config.toml and applies environment
// overrides.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alexanderramin/goaltree/internal/domain"
)

const (
	EnvConfig = "GOALTREE_CONFIG"
	EnvDB     = "GOALTREE_DB"
)

// Config represents the config.toml file. Zero fields fall back to Default.
type Config struct {
	Database Database `toml:"database"`
	Log      Log      `toml:"log"`
	Defaults Defaults `toml:"defaults"`
	Canvas   Canvas   `toml:"canvas"`
}

type Database struct {
	Path string `toml:"path"`
}

// Log controls diagnostic output. File "off" disables logging; an empty
// file logs to stderr.
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Defaults struct {
	// Color is applied to nodes created without one.
	Color string `toml:"color"`
}

// Canvas sizes the mind map drawn by the map command and the browser.
type Canvas struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	NodeRadius float64 `toml:"node_radius"`
}

// Default returns the built-in configuration rooted at home.
func Default(home string) Config {
	return Config{
		Database: Database{Path: filepath.Join(home, ".goaltree", "goaltree.db")},
		Log:      Log{Level: "warn"},
		Defaults: Defaults{Color: domain.DefaultColor},
		Canvas:   Canvas{Width: 1000, Height: 1000, NodeRadius: 60},
	}
}

// Load reads the config file named by GOALTREE_CONFIG, or
// ~/.config/goaltree/config.toml, over the defaults. A missing file is
// not an error. GOALTREE_DB wins over database.path.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}
	path := os.Getenv(EnvConfig)
	if path == "" {
		path = filepath.Join(home, ".config", "goaltree", "config.toml")
	}
	cfg, err := LoadFile(path, home)
	if err != nil {
		return nil, err
	}
	if db := strings.TrimSpace(os.Getenv(EnvDB)); db != "" {
		cfg.Database.Path = db
	}
	return cfg, nil
}

// LoadFile reads one config file over Default(home).
func LoadFile(path, home string) (*Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var file Config
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config file %s: unknown key %q", path, undecoded[0].String())
	}

	merge(&cfg, &file, meta)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return &cfg, nil
}

func merge(dst, src *Config, meta toml.MetaData) {
	if meta.IsDefined("database", "path") {
		dst.Database.Path = expandHome(strings.TrimSpace(src.Database.Path))
	}
	if meta.IsDefined("log", "level") {
		dst.Log.Level = strings.ToLower(strings.TrimSpace(src.Log.Level))
	}
	if meta.IsDefined("log", "file") {
		dst.Log.File = expandHome(strings.TrimSpace(src.Log.File))
	}
	if meta.IsDefined("defaults", "color") {
		dst.Defaults.Color = strings.TrimSpace(src.Defaults.Color)
	}
	if meta.IsDefined("canvas", "width") {
		dst.Canvas.Width = src.Canvas.Width
	}
	if meta.IsDefined("canvas", "height") {
		dst.Canvas.Height = src.Canvas.Height
	}
	if meta.IsDefined("canvas", "node_radius") {
		dst.Canvas.NodeRadius = src.Canvas.NodeRadius
	}
}

// Validate rejects values the rest of the program cannot use.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if !domain.ValidColor(c.Defaults.Color) {
		return fmt.Errorf("defaults.color: invalid color %q (expected #RRGGBB)", c.Defaults.Color)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas: width and height must be positive")
	}
	if c.Canvas.NodeRadius <= 0 || 2*c.Canvas.NodeRadius > min(c.Canvas.Width, c.Canvas.Height) {
		return fmt.Errorf("canvas.node_radius %v does not fit a %vx%v canvas", c.Canvas.NodeRadius, c.Canvas.Width, c.Canvas.Height)
	}
	return nil
}

// Level maps log.level to a slog level.
func (c *Config) Level() (slog.Level, error) {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
}

// Logger builds the diagnostic logger. The returned closer releases the
// log file, if one was opened.
func (c *Config) Logger(stderr io.Writer) (*slog.Logger, io.Closer, error) {
	if c.Log.File == "off" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	level, err := c.Level()
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = stderr
	var closer io.Closer = io.NopCloser(nil)
	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
