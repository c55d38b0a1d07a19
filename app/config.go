package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the program configuration, loaded from a TOML file.
//
// Only programs use files for configuration; the library itself is
// configured through descriptors and options.
type Config struct {
	// Title is the window title.
	Title string `toml:"title"`

	// Width and Height are the initial window size in screen coordinates.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// VSync synchronizes buffer swaps with the display.
	VSync bool `toml:"vsync"`

	// Adapter selects the driver adapter by name. Empty means the best
	// available adapter.
	Adapter string `toml:"adapter"`

	// LogLevel is one of "debug", "info", "warn", "error". Empty disables
	// logging.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Title:  "passgate",
		Width:  800,
		Height: 600,
		VSync:  true,
	}
}

// LoadConfig reads a TOML configuration file. Missing fields keep their
// defaults; a missing file is not an error and yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("config %q: window size %dx%d is not positive", path, cfg.Width, cfg.Height)
	}
	return cfg, nil
}
