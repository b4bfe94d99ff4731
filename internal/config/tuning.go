package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig is the optional JSON tuning file for engine defaults.
// Every field is a pointer so a partial file only overrides what it names;
// the Get* accessors fall back to the built-in defaults.
type TuningConfig struct {
	// Minimizer params
	NumIters  *int     `json:"num_iters,omitempty"`
	NumPts    *int     `json:"num_pts,omitempty"`
	RedFactor *float64 `json:"red_factor,omitempty"`
	Workers   *int     `json:"workers,omitempty"`

	// Event generator params
	ClockMHz  *float64 `json:"clock_mhz,omitempty"`
	ShapeTime *float64 `json:"shape_time_s,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.NumIters != nil && *c.NumIters <= 0 {
		return fmt.Errorf("num_iters must be positive, got %d", *c.NumIters)
	}
	if c.NumPts != nil && *c.NumPts <= 0 {
		return fmt.Errorf("num_pts must be positive, got %d", *c.NumPts)
	}
	if c.RedFactor != nil {
		if *c.RedFactor <= 0 || *c.RedFactor > 1 {
			return fmt.Errorf("red_factor must be in (0, 1], got %f", *c.RedFactor)
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.ClockMHz != nil && *c.ClockMHz <= 0 {
		return fmt.Errorf("clock_mhz must be positive, got %f", *c.ClockMHz)
	}
	if c.ShapeTime != nil && *c.ShapeTime <= 0 {
		return fmt.Errorf("shape_time_s must be positive, got %f", *c.ShapeTime)
	}
	return nil
}

// GetNumIters returns the num_iters value or the default.
func (c *TuningConfig) GetNumIters() int {
	if c.NumIters == nil {
		return 10
	}
	return *c.NumIters
}

// GetNumPts returns the num_pts value or the default.
func (c *TuningConfig) GetNumPts() int {
	if c.NumPts == nil {
		return 200
	}
	return *c.NumPts
}

// GetRedFactor returns the red_factor value or the default.
func (c *TuningConfig) GetRedFactor() float64 {
	if c.RedFactor == nil {
		return 0.8
	}
	return *c.RedFactor
}

// GetWorkers returns the workers value or 0, meaning one worker per CPU.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetClockMHz returns the clock_mhz value or the default.
func (c *TuningConfig) GetClockMHz() float64 {
	if c.ClockMHz == nil {
		return 12.5
	}
	return *c.ClockMHz
}

// GetShapeTime returns the shape_time_s value or the default.
func (c *TuningConfig) GetShapeTime() float64 {
	if c.ShapeTime == nil {
		return 280e-9
	}
	return *c.ShapeTime
}
