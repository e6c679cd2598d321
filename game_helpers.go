package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cellau3d/automaton"
	"github.com/sheikhrachel/go-cellau3d/model"
	"github.com/sheikhrachel/go-cellau3d/utils"
)

const defaultConfigFile = "config.json"

// loadConfig reads the JSON config named by -config (defaults if missing)
// and applies every flag given explicitly on top of it.
func loadConfig(fs *flag.FlagSet, args []string) (utils.Config, error) {
	config := utils.DefaultConfig()
	path := fs.String("config", defaultConfigFile, "JSON configuration file")
	config.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return config, errors.Wrap(err, "[loadConfig] failed to parse flags")
	}

	loaded, err := utils.LoadConfig(*path)
	if err != nil {
		fmt.Printf("Using default configuration (%v)\n", err)
		return config, config.Validate()
	}

	// flags given on the command line win over the file
	overlay := flag.NewFlagSet("overlay", flag.ContinueOnError)
	loaded.Bind(overlay)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || setErr != nil {
			return
		}
		setErr = overlay.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return loaded, errors.Wrap(setErr, "[loadConfig] failed to apply flags")
	}
	return loaded, loaded.Validate()
}

// initializeAutomaton sets up the automaton and seeds it
func initializeAutomaton(config utils.Config) (*automaton.Automaton, *model.TerminalRenderer, error) {
	logger := log.New(os.Stderr, "cellau3d: ", log.LstdFlags)
	ca := automaton.New(config, automaton.WithLogger(logger))
	if err := seedAutomaton(ca, config.SeedPattern); err != nil {
		return nil, nil, err
	}
	return ca, &model.TerminalRenderer{}, nil
}

// seedAutomaton applies a named seed: a debug seed action, a Game of Life
// pattern, or "sierpinski-N" / "big-cube-N".
func seedAutomaton(ca *automaton.Automaton, pattern string) error {
	switch pattern {
	case "", "single":
		ca.SeedSingle()
		return nil
	case "noise":
		ca.SeedNoise()
		return nil
	case "block":
		ca.SeedBlock()
		return nil
	case "bounding-box":
		ca.SeedBoundingBox()
		return nil
	}
	for prefix, preset := range map[string]func(int) error{
		"sierpinski-": ca.Sierpinski,
		"big-cube-":   ca.BigCube,
	} {
		if rest, ok := strings.CutPrefix(pattern, prefix); ok {
			i, err := strconv.Atoi(rest)
			if err != nil || i < 1 || i > 5 {
				return errors.Errorf("[seedAutomaton] preset index must be in 1..5: %+v", pattern)
			}
			return preset(i)
		}
	}
	return ca.GameOfLife(pattern)
}

// isManual reports whether the automaton only steps on request, which is
// where the sierpinski and big-cube presets leave it.
func isManual(ca *automaton.Automaton) bool {
	period, _ := ca.Throttle()
	return period == automaton.Manual
}

// displayInfo shows the initial automaton information
func displayInfo(config utils.Config, ca *automaton.Automaton) {
	sx, sy, sz := ca.Size()
	r := ca.Rules()
	fmt.Printf("Grid: %dx%dx%d %s | Mode: %s | Async: %v\n",
		sx, sy, sz, config.GridType, config.ComputeMode, config.AsyncCompute)
	fmt.Printf("Rules: survives %q births %q | States: %d | Neighborhood: %s\n",
		config.Survives, config.Births, r.States, r.Neighborhood.Type)
	fmt.Println("Press Ctrl+C to exit gracefully")
	fmt.Println()
}

// displayStatus shows the current automaton status
func displayStatus(ca *automaton.Automaton, frame model.Frame) {
	stats := ca.Stats()
	density := float64(stats.Population) / float64(max(len(frame.Cells), 1)) * 100

	status := "Active"
	if !ca.IsAlive() {
		status = "Extinct"
	}

	fmt.Printf("Gen: %d | Living: %d | Density: %.1f%% | Status: %s | Layer y=%d\n",
		frame.Generation, stats.Population, density, status, frame.SY/2)
	fmt.Printf("Performance: %.1f ticks/sec | %.2f ns/cell | Avg Pop: %.1f\n",
		stats.TicksPerSecond, stats.NanosPerCell, stats.AveragePopulation)
	fmt.Println()
}
