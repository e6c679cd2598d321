//go:build ebiten

package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cellau3d/automaton"
	"github.com/sheikhrachel/go-cellau3d/utils"
)

func main() {
	cfg := utils.DefaultConfig()
	cfg.Bind(flag.CommandLine)
	scale := flag.Int("scale", 8, "pixels per cell")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ca := automaton.New(cfg, automaton.WithLogger(log.New(os.Stderr, "cellau3d: ", log.LstdFlags)))
	game := newViewer(ca, *scale)

	ebiten.SetWindowTitle("cellau3d")
	ebiten.SetWindowSize(cfg.Width*(*scale), cfg.Depth*(*scale))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
	ca.Wait()
}
