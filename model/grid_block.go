package model

import (
	"math/bits"
	"sync"
)

// BlockGrid groups cells into 4x4x4 blocks so that every 64-bit flag word holds
// exactly one spatial block. Index = block index << 6 | lz<<4 | ly<<2 | lx.
type BlockGrid struct {
	dims
	bx, by, bz int
	alive      *PackedField
	states     *PackedField
}

// NewBlockGrid allocates a cleared block grid
func NewBlockGrid(sx, sy, sz, stateBits int) *BlockGrid {
	bx, by, bz := (sx+3)/4, (sy+3)/4, (sz+3)/4
	size := bx * by * bz * 64
	return &BlockGrid{
		dims:   dims{sx: sx, sy: sy, sz: sz, stateBits: stateBits},
		bx:     bx,
		by:     by,
		bz:     bz,
		alive:  NewPackedField(1, size),
		states: NewPackedField(max(stateBits, 1), size),
	}
}

func (g *BlockGrid) index(x, y, z int) int {
	local := (x & 3) | (y&3)<<2 | (z&3)<<4
	return (x>>2+g.bx*(y>>2+g.by*(z>>2)))<<6 | local
}

func (g *BlockGrid) Get(x, y, z int) bool { return g.alive.Get(g.index(x, y, z)) != 0 }

func (g *BlockGrid) GetOr(x, y, z int, d bool) bool {
	if !g.inBounds(x, y, z) {
		return d
	}
	return g.alive.Get(g.index(x, y, z)) != 0
}

func (g *BlockGrid) Set(x, y, z int, alive bool) {
	g.alive.Set(g.index(x, y, z), boolInt(alive))
}

func (g *BlockGrid) State(x, y, z int) int { return g.states.Get(g.index(x, y, z)) }

func (g *BlockGrid) SetState(x, y, z, state int) { g.states.Set(g.index(x, y, z), state) }

func (g *BlockGrid) Clear() {
	g.alive.Clear()
	g.states.Clear()
}

func (g *BlockGrid) IsEmpty() bool { return wordsEmpty(g.alive.Words()) }

// ScanUnits returns one unit per block
func (g *BlockGrid) ScanUnits() int { return len(g.alive.Words()) }

func (g *BlockGrid) ForAllFilled(visit func(x, y, z int)) {
	g.ForFilledIn(0, g.ScanUnits(), visit)
}

// ForFilledIn skips empty blocks with a single word compare.
func (g *BlockGrid) ForFilledIn(u0, u1 int, visit func(x, y, z int)) {
	words := g.alive.Words()
	for block := u0; block < u1; block++ {
		word := words[block]
		if word == 0 {
			continue
		}
		hx := (block % g.bx) << 2
		byz := block / g.bx
		hy := (byz % g.by) << 2
		hz := (byz / g.by) << 2
		for word != 0 {
			local := bits.TrailingZeros64(word)
			word &= word - 1
			visit(hx+local&3, hy+(local>>2)&3, hz+(local>>4)&3)
		}
	}
}

// CountingBlockGrid is a BlockGrid that also keeps, per cell, the number of
// alive neighbors under one Neighborhood. Every flip of an alive flag pushes
// the delta to all neighbors inside one critical section.
type CountingBlockGrid struct {
	*BlockGrid
	neighborhood *Neighborhood
	counts       *PackedField
	mu           sync.Mutex
}

// NewCountingBlockGrid allocates a cleared counting grid for neighborhood n
func NewCountingBlockGrid(sx, sy, sz, stateBits int, n *Neighborhood) *CountingBlockGrid {
	base := NewBlockGrid(sx, sy, sz, stateBits)
	return &CountingBlockGrid{
		BlockGrid:    base,
		neighborhood: n,
		counts:       NewPackedField(bits.Len(uint(len(n.Offsets))), base.alive.Len()),
	}
}

// NeighborCount returns the cached number of alive neighbors
func (g *CountingBlockGrid) NeighborCount(x, y, z int) int {
	return g.counts.Get(g.index(x, y, z))
}

// CountsFor returns the neighborhood the counts are kept for
func (g *CountingBlockGrid) CountsFor() *Neighborhood { return g.neighborhood }

func (g *CountingBlockGrid) Set(x, y, z int, alive bool) {
	index := g.index(x, y, z)
	v := boolInt(alive)
	g.mu.Lock()
	defer g.mu.Unlock()
	delta := v - g.alive.Get(index)
	if delta == 0 {
		return
	}
	for _, o := range g.neighborhood.Offsets {
		xi, yi, zi := x+o.X, y+o.Y, z+o.Z
		if g.inBounds(xi, yi, zi) {
			g.counts.Add(g.index(xi, yi, zi), delta)
		}
	}
	g.alive.Set(index, v)
}

func (g *CountingBlockGrid) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.BlockGrid.Clear()
	g.counts.Clear()
}
