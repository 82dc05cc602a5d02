// Package config holds the penfix tool configuration, read from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/penfix"
)

// Frame selects the coordinate frame written meshes are exported in.
const (
	FrameLocal = "local"
	FrameWorld = "world"
)

type Config struct {
	// TargetLength overrides penfix.DefaultTargetLength.
	TargetLength float64 `toml:"target_length"`
	// Policy is "fail-fast" or "best-effort".
	Policy    string `toml:"policy"`
	OutputDir string `toml:"output_dir"`
	LogLevel  string `toml:"log_level"`
	// Frame is the coordinate frame of written meshes.
	Frame string `toml:"frame"`
	// ASCII writes ASCII STL instead of binary.
	ASCII         bool    `toml:"ascii"`
	WeldTolerance float64 `toml:"weld_tolerance"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		TargetLength: penfix.DefaultTargetLength,
		Policy:       penfix.FailFast.String(),
		OutputDir:    "fixed",
		LogLevel:     "info",
		Frame:        FrameLocal,
	}
}

// Load reads a TOML file over the defaults and validates the result.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return cfg, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if !(c.TargetLength > 0) || math.IsInf(c.TargetLength, 0) {
		return fmt.Errorf("target_length must be finite and > 0, got %g", c.TargetLength)
	}
	if _, err := penfix.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return errors.New("output_dir is empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Frame != FrameLocal && c.Frame != FrameWorld {
		return fmt.Errorf("frame must be %q or %q, got %q", FrameLocal, FrameWorld, c.Frame)
	}
	if c.WeldTolerance < 0 {
		return fmt.Errorf("weld_tolerance must be >= 0, got %g", c.WeldTolerance)
	}
	return nil
}

// Batch returns the batch described by c, logging to logger.
// c must be valid.
func (c Config) Batch(logger *log.Logger) penfix.Batch {
	policy, _ := penfix.ParsePolicy(c.Policy)
	return penfix.Batch{
		Normalizer: penfix.Normalizer{TargetLength: c.TargetLength},
		Policy:     policy,
		Log:        logger,
	}
}
