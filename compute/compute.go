package compute

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cellau3d/model"
	"github.com/sheikhrachel/go-cellau3d/rules"
)

// ErrGPUDelegated is returned when the GPU mode is dispatched on the CPU.
// GPU steps are executed by the rendering side, never by this package.
var ErrGPUDelegated = errors.New("compute mode GPU must be executed by the GPU stepper")

// Strategy fills dst with the generation following src. src is only read.
type Strategy interface {
	Compute(pool *Pool, src, dst model.Grid, r *rules.Rules) error
}

// Mode selects a Strategy
type Mode int

const (
	FullScanSerial Mode = iota
	FullScanParallel
	SparseSerial
	SparseParallel
	GPU
)

var modeNames = map[Mode]string{
	FullScanSerial:   "full-serial",
	FullScanParallel: "full-parallel",
	SparseSerial:     "sparse-serial",
	SparseParallel:   "sparse-parallel",
	GPU:              "gpu",
}

// Modes lists every mode
func Modes() []Mode {
	return []Mode{FullScanSerial, FullScanParallel, SparseSerial, SparseParallel, GPU}
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, errors.Errorf("[Mode.MarshalText] unknown compute mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range modeNames {
		if v == name {
			*m = k
			return nil
		}
	}
	return errors.Errorf("[Mode.UnmarshalText] unknown compute mode: %+v", string(text))
}

// Strategy returns the implementation behind m
func (m Mode) Strategy() Strategy {
	switch m {
	case FullScanSerial:
		return fullScan{}
	case FullScanParallel:
		return fullScan{parallel: true}
	case SparseSerial:
		return sparse{}
	case SparseParallel:
		return sparse{parallel: true}
	case GPU:
		return gpuMarker{}
	}
	panic(errors.Errorf("[Mode.Strategy] unknown compute mode %d", int(m)))
}

// Compute runs one transition with the strategy selected by mode
func Compute(mode Mode, pool *Pool, src, dst model.Grid, r *rules.Rules) error {
	return mode.Strategy().Compute(pool, src, dst, r)
}

type gpuMarker struct{}

func (gpuMarker) Compute(*Pool, model.Grid, model.Grid, *rules.Rules) error {
	return ErrGPUDelegated
}

// fullScan visits every cell of the volume and writes every destination cell
type fullScan struct {
	parallel bool
}

func (s fullScan) Compute(pool *Pool, src, dst model.Grid, r *rules.Rules) error {
	sx, sy, sz := src.Size()
	if !s.parallel {
		scanBlock(src, dst, r, sx, 0, sy, 0, sz)
		return nil
	}
	err := pool.Tiles(sy, sz, func(y0, y1, z0, z1 int) {
		scanBlock(src, dst, r, sx, y0, y1, z0, z1)
	})
	return errors.Wrap(err, "[fullScan.Compute] failed to process tiles")
}

func scanBlock(src, dst model.Grid, r *rules.Rules, sx, y0, y1, z0, z1 int) {
	n := r.Neighborhood
	counts := make([]int, sx)
	for z := z0; z < z1; z++ {
		for y := y0; y < y1; y++ {
			n.CountRow(src, y, z, counts)
			for x, count := range counts {
				store(src, dst, r, x, y, z, count)
			}
		}
	}
}

// apply writes the next state of one cell into dst, counting neighbors only
// when the transition depends on them
func apply(src, dst model.Grid, r *rules.Rules, n *model.Neighborhood, x, y, z int) {
	count := 0
	if !src.Get(x, y, z) || src.State(x, y, z) == r.MaxAge() {
		count = n.Count(src, x, y, z)
	}
	store(src, dst, r, x, y, z, count)
}

// store writes the next state of one cell with count alive neighbors into dst
func store(src, dst model.Grid, r *rules.Rules, x, y, z, count int) {
	alive, age := src.Get(x, y, z), 0
	if alive {
		age = src.State(x, y, z)
	}
	alive, age = r.Next(alive, age, count)
	dst.Set(x, y, z, alive)
	if alive {
		dst.SetState(x, y, z, age)
	}
}

// sparse only visits alive cells and the dead cells next to them. It misses
// births with zero alive neighbors, so it requires bit 0 of the birth mask
// to be clear.
type sparse struct {
	parallel bool
}

type cell struct{ x, y, z int }

func (s sparse) Compute(pool *Pool, src, dst model.Grid, r *rules.Rules) error {
	dst.Clear()
	if !s.parallel {
		src.ForAllFilled(func(x, y, z int) {
			survive(src, dst, r, x, y, z)
			births(src, r, x, y, z, func(c cell) { born(dst, r, c) })
		})
		return nil
	}

	// births are collected per chunk, neighboring alive cells may share them
	units := src.ScanUnits()
	found := make([][]cell, pool.Chunks(units))
	err := pool.Split(units, func(chunk, u0, u1 int) {
		src.ForFilledIn(u0, u1, func(x, y, z int) {
			survive(src, dst, r, x, y, z)
			births(src, r, x, y, z, func(c cell) { found[chunk] = append(found[chunk], c) })
		})
	})
	if err != nil {
		return errors.Wrap(err, "[sparse.Compute] failed to scan alive cells")
	}
	for _, cells := range found {
		for _, c := range cells {
			born(dst, r, c)
		}
	}
	return nil
}

// survive applies the decay and survival rule to the alive cell (x, y, z)
func survive(src, dst model.Grid, r *rules.Rules, x, y, z int) {
	apply(src, dst, r, r.Neighborhood, x, y, z)
}

// births reports every dead neighbor of (x, y, z) that the birth rule turns alive
func births(src model.Grid, r *rules.Rules, x, y, z int, emit func(c cell)) {
	n := r.Neighborhood
	for _, o := range n.Offsets {
		xi, yi, zi := x+o.X, y+o.Y, z+o.Z
		if src.GetOr(xi, yi, zi, true) {
			continue
		}
		if r.Births(n.Count(src, xi, yi, zi)) {
			emit(cell{xi, yi, zi})
		}
	}
}

func born(dst model.Grid, r *rules.Rules, c cell) {
	dst.Set(c.x, c.y, c.z, true)
	dst.SetState(c.x, c.y, c.z, r.MaxAge())
}
