// Package config loads optional TOML configuration for dcmconvert.
// Command-line flags override anything set here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultCreateMissing = true
	defaultJPEGQuality   = 95
	defaultRecursive     = true
	defaultWorkers       = 0 // 0 means one worker per CPU
)

// Output configures where and how converted files are written.
type Output struct {
	Directory     string `toml:"directory"`
	CreateMissing bool   `toml:"create_missing"`
	JPEGQuality   int    `toml:"jpeg_quality"`
}

// Scan configures input directory traversal.
type Scan struct {
	Recursive bool `toml:"recursive"`
}

// Run configures pipeline execution.
type Run struct {
	Workers int `toml:"workers"`
}

// Config is the full configuration file shape.
type Config struct {
	Output Output `toml:"output"`
	Scan   Scan   `toml:"scan"`
	Run    Run    `toml:"run"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Output: Output{
			CreateMissing: defaultCreateMissing,
			JPEGQuality:   defaultJPEGQuality,
		},
		Scan: Scan{
			Recursive: defaultRecursive,
		},
		Run: Run{
			Workers: defaultWorkers,
		},
	}
}

// Load reads a TOML file over the defaults. A missing file is not an error
// when the path is empty; an explicitly given path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("config file %s does not exist", path)
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot honor.
func (c Config) Validate() error {
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpeg_quality must be between 1 and 100, got %d", c.Output.JPEGQuality)
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("run.workers must not be negative, got %d", c.Run.Workers)
	}
	return nil
}
