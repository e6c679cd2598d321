package utils

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cellau3d/compute"
	"github.com/sheikhrachel/go-cellau3d/model"
)

const (
	MinStates = 2
	MaxStates = 256 // ages are published as one byte per cell
)

// Config holds the configuration for the automaton
type Config struct {
	Width        int                    `json:"width"`
	Height       int                    `json:"height"`
	Depth        int                    `json:"depth"`
	GridType     model.GridType         `json:"grid_type"`
	ComputeMode  compute.Mode           `json:"compute_mode"`
	States       int                    `json:"states"`
	Neighborhood model.NeighborhoodType `json:"neighborhood"`
	Survives     string                 `json:"survives"`
	Births       string                 `json:"births"`
	UpdatePeriod time.Duration          `json:"update_period"`
	AsyncCompute bool                   `json:"async_compute"`
	Workers      int                    `json:"workers"`
	Seed         int64                  `json:"seed"`

	// used by the command line runner
	SeedPattern    string        `json:"seed_pattern"`
	FrameRate      time.Duration `json:"frame_rate"`
	MaxGenerations int           `json:"max_generations"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:          40,
		Height:         40,
		Depth:          40,
		GridType:       model.GridNibbleX64Counted,
		ComputeMode:    compute.SparseParallel,
		States:         5,
		Neighborhood:   model.VonNeumann,
		Survives:       "",
		Births:         "1",
		UpdatePeriod:   100 * time.Millisecond,
		AsyncCompute:   true,
		Workers:        0, // one per CPU
		Seed:           1234,
		SeedPattern:    "single",
		FrameRate:      50 * time.Millisecond,
		MaxGenerations: 200,
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid configuration in file: %+v", filename)
	}

	return config, nil
}

// Validate checks the values the grid relies on without checking itself
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 || c.Depth < 1 {
		return errors.Errorf("[Validate] dimensions must be >= 1, got %dx%dx%d", c.Width, c.Height, c.Depth)
	}
	if c.States < MinStates || c.States > MaxStates {
		return errors.Errorf("[Validate] states must be in %d..%d, got %d", MinStates, MaxStates, c.States)
	}
	if c.UpdatePeriod < 0 {
		return errors.Errorf("[Validate] negative update period %v", c.UpdatePeriod)
	}
	if c.Workers < 0 {
		return errors.Errorf("[Validate] negative worker count %d", c.Workers)
	}
	return nil
}

// Bind attaches the configuration to the provided FlagSet
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "cells along x")
	fs.IntVar(&c.Height, "height", c.Height, "cells along y")
	fs.IntVar(&c.Depth, "depth", c.Depth, "cells along z")
	fs.TextVar(&c.GridType, "grid", c.GridType, "grid encoding")
	fs.TextVar(&c.ComputeMode, "mode", c.ComputeMode, "compute mode")
	fs.IntVar(&c.States, "states", c.States, "number of cell states (ages + dead)")
	fs.TextVar(&c.Neighborhood, "neighborhood", c.Neighborhood, "neighborhood")
	fs.StringVar(&c.Survives, "survives", c.Survives, "neighbor counts that keep a cell alive, e.g. 2-3")
	fs.StringVar(&c.Births, "births", c.Births, "neighbor counts that give birth, e.g. 3")
	fs.DurationVar(&c.UpdatePeriod, "period", c.UpdatePeriod, "time between steps")
	fs.BoolVar(&c.AsyncCompute, "async", c.AsyncCompute, "step on a background goroutine")
	fs.IntVar(&c.Workers, "workers", c.Workers, "parallel workers, 0 for one per CPU")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for noise patterns")
	fs.StringVar(&c.SeedPattern, "pattern", c.SeedPattern, "initial pattern")
	fs.DurationVar(&c.FrameRate, "frame", c.FrameRate, "time between rendered frames")
	fs.IntVar(&c.MaxGenerations, "generations", c.MaxGenerations, "stop after this many generations, 0 for no limit")
}
