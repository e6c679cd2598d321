package automaton

import (
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cellau3d/model"
)

// ClearGrid empties both grids, creating them if needed
func (a *Automaton) ClearGrid() {
	a.lock()
	defer a.mu.Unlock()
	a.clearGrid()
}

func (a *Automaton) clearGrid() {
	a.createGrids()
	a.alive = false
}

// SeedSingle clears the grids and places one newborn cell at the center
func (a *Automaton) SeedSingle() {
	a.lock()
	defer a.mu.Unlock()
	a.seedSingle()
}

func (a *Automaton) seedSingle() {
	a.clearGrid()
	src := a.source()
	place(src, a.sizeX/2, a.sizeY/2, a.sizeZ/2, a.rules.MaxAge())
	a.alive = true
}

// SeedNoise clears the grids and scatters newborn cells in a cube of radius 4
// around the center with density 0.5.
func (a *Automaton) SeedNoise() {
	a.lock()
	defer a.mu.Unlock()
	a.clearGrid()
	src := a.source()
	SpawnNoise(src, 4, 0.5, a.rules.MaxAge(), a.rng)
	a.alive = !src.IsEmpty()
}

// SeedBlock clears the grids and fills the 4x4x4 block around the center
func (a *Automaton) SeedBlock() {
	a.lock()
	defer a.mu.Unlock()
	a.seedWith(func(x, y, z int) bool {
		cx, cy, cz := a.sizeX/2, a.sizeY/2, a.sizeZ/2
		return x >= cx-2 && x <= cx+1 && y >= cy-2 && y <= cy+1 && z >= cz-2 && z <= cz+1
	})
}

// SeedBoundingBox clears the grids and fills the twelve edges of the volume
func (a *Automaton) SeedBoundingBox() {
	a.lock()
	defer a.mu.Unlock()
	a.seedWith(func(x, y, z int) bool {
		return boolInt(x == 0 || x == a.sizeX-1)+
			boolInt(y == 0 || y == a.sizeY-1)+
			boolInt(z == 0 || z == a.sizeZ-1) == 2
	})
}

func (a *Automaton) seedWith(fill func(x, y, z int) bool) {
	a.clearGrid()
	src := a.source()
	for z := 0; z < a.sizeZ; z++ {
		for y := 0; y < a.sizeY; y++ {
			for x := 0; x < a.sizeX; x++ {
				if fill(x, y, z) {
					place(src, x, y, z, a.rules.MaxAge())
				}
			}
		}
	}
	a.alive = !src.IsEmpty()
}

// SpawnNoise sets about density*(2r+1)^3 random cells alive with the given
// age inside the cube of radius r around the grid center.
func SpawnNoise(g model.Grid, radius int, density float64, state int, rng *rand.Rand) {
	sx, sy, sz := g.Size()
	var (
		x0      = sx/2 - radius
		y0      = sy/2 - radius
		z0      = sz/2 - radius
		side    = radius*2 + 1
		samples = int(density*float64(side*side*side) + rng.Float64())
	)
	for range samples {
		x, y, z := x0+rng.IntN(side), y0+rng.IntN(side), z0+rng.IntN(side)
		if x >= 0 && y >= 0 && z >= 0 && x < sx && y < sy && z < sz {
			place(g, x, y, z, state)
		}
	}
}

func place(g model.Grid, x, y, z, state int) {
	g.Set(x, y, z, true)
	g.SetState(x, y, z, state)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// lifePatterns are Game of Life seeds, 'x' marks alive cells. Rows run along z.
var lifePatterns = map[string][]string{
	"glider":      {"  x", "x x", " xx"},
	"blinker":     {"xxx"},
	"toad":        {" xxx", "xxx "},
	"beacon":      {"xx  ", "xx  ", "  xx", "  xx"},
	"r-pentomino": {" xx", "xx ", " x "},
	"diehard":     {"      x ", "xx      ", " x   xxx"},
	"acorn":       {" x     ", "   x   ", "xx  xxx"},
	"pulsar": {
		"  xxx   xxx  ",
		"             ",
		"x    x x    x",
		"x    x x    x",
		"x    x x    x",
		"  xxx   xxx  ",
		"             ",
		"  xxx   xxx  ",
		"x    x x    x",
		"x    x x    x",
		"x    x x    x",
		"             ",
		"  xxx   xxx  ",
	},
}

// LifePatterns lists the names accepted by GameOfLife
func LifePatterns() []string {
	names := make([]string, 0, len(lifePatterns))
	for name := range lifePatterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GameOfLife configures Conway's rules on a single x/z layer and seeds the
// named pattern centered in it.
func (a *Automaton) GameOfLife(name string) error {
	pattern, ok := lifePatterns[name]
	if !ok {
		return errors.Errorf("[GameOfLife] unknown pattern: %+v", name)
	}
	width := 0
	for _, row := range pattern {
		width = max(width, len(row))
	}

	a.lock()
	defer a.mu.Unlock()
	a.setSize(max(a.sizeX, width), 1, max(a.sizeZ, len(pattern)))
	a.setNeighborhood(model.Moore2D)
	a.setSurvives("2,3")
	a.setBirths("3")
	a.setStates(2)

	x0 := (a.sizeX - width) / 2
	z0 := (a.sizeZ - len(pattern)) / 2
	a.seedWith(func(x, y, z int) bool {
		row := z - z0
		col := x - x0
		return row >= 0 && row < len(pattern) && col >= 0 && col < len(pattern[row]) && pattern[row][col] == 'x'
	})
	return nil
}

// Sierpinski grows a Von Neumann fractal from one cell for (2<<i)-1 steps
func (a *Automaton) Sierpinski(i int) error {
	return a.growFromCenter((2<<i)-1, model.VonNeumann)
}

// BigCube grows a Moore cube from one cell for (2<<i)-1 steps
func (a *Automaton) BigCube(i int) error {
	return a.growFromCenter((2<<i)-1, model.Moore)
}

func (a *Automaton) growFromCenter(steps int, n model.NeighborhoodType) error {
	a.lock()
	minSize := steps*2 + 1
	a.setSize(max(a.sizeX, minSize), max(a.sizeY, minSize), max(a.sizeZ, minSize))
	a.setNeighborhood(n)
	a.setBirths("1")
	a.setSurvives("")
	a.seedSingle()
	a.mu.Unlock()
	return a.RunSteps(steps)
}
