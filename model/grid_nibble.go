package model

import "math/bits"

// NibbleGrid packs the alive flags into one bit per cell and the ages into
// stateBits per cell, both in x-fastest row-major order.
type NibbleGrid struct {
	dims
	alive  *PackedField
	states *PackedField
}

// NewNibbleGrid allocates a cleared nibble grid
func NewNibbleGrid(sx, sy, sz, stateBits int) *NibbleGrid {
	d := dims{sx: sx, sy: sy, sz: sz, stateBits: stateBits}
	return &NibbleGrid{
		dims:   d,
		alive:  NewPackedField(1, d.volume()),
		states: NewPackedField(max(stateBits, 1), d.volume()),
	}
}

func (g *NibbleGrid) Get(x, y, z int) bool { return g.alive.Get(g.linear(x, y, z)) != 0 }

func (g *NibbleGrid) GetOr(x, y, z int, d bool) bool {
	if !g.inBounds(x, y, z) {
		return d
	}
	return g.alive.Get(g.linear(x, y, z)) != 0
}

func (g *NibbleGrid) Set(x, y, z int, alive bool) {
	g.alive.Set(g.linear(x, y, z), boolInt(alive))
}

func (g *NibbleGrid) State(x, y, z int) int { return g.states.Get(g.linear(x, y, z)) }

func (g *NibbleGrid) SetState(x, y, z, state int) { g.states.Set(g.linear(x, y, z), state) }

func (g *NibbleGrid) Clear() {
	g.alive.Clear()
	g.states.Clear()
}

func (g *NibbleGrid) IsEmpty() bool { return wordsEmpty(g.alive.Words()) }

// ScanUnits returns one unit per 64-cell flag word
func (g *NibbleGrid) ScanUnits() int { return len(g.alive.Words()) }

func (g *NibbleGrid) ForAllFilled(visit func(x, y, z int)) {
	g.ForFilledIn(0, g.ScanUnits(), visit)
}

func (g *NibbleGrid) ForFilledIn(u0, u1 int, visit func(x, y, z int)) {
	words := g.alive.Words()
	for major := u0; major < u1; major++ {
		word := words[major]
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			word &= word - 1
			index := major*wordBits + bit
			x := index % g.sx
			yz := index / g.sx
			visit(x, yz%g.sy, yz/g.sy)
		}
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func wordsEmpty(words []uint64) bool {
	for _, w := range words {
		if w != 0 {
			return false
		}
	}
	return true
}
