package model

// ByteGrid stores one byte per cell for the flag and one for the age.
type ByteGrid struct {
	dims
	flags  []uint8
	states []uint8
}

// NewByteGrid allocates a cleared byte grid
func NewByteGrid(sx, sy, sz, stateBits int) *ByteGrid {
	d := dims{sx: sx, sy: sy, sz: sz, stateBits: stateBits}
	return &ByteGrid{dims: d, flags: make([]uint8, d.volume()), states: make([]uint8, d.volume())}
}

func (g *ByteGrid) Get(x, y, z int) bool { return g.flags[g.linear(x, y, z)] != 0 }

func (g *ByteGrid) GetOr(x, y, z int, d bool) bool {
	if !g.inBounds(x, y, z) {
		return d
	}
	return g.flags[g.linear(x, y, z)] != 0
}

func (g *ByteGrid) Set(x, y, z int, alive bool) {
	var v uint8
	if alive {
		v = 1
	}
	g.flags[g.linear(x, y, z)] = v
}

func (g *ByteGrid) State(x, y, z int) int { return int(g.states[g.linear(x, y, z)]) }

func (g *ByteGrid) SetState(x, y, z, state int) { g.states[g.linear(x, y, z)] = uint8(state) }

func (g *ByteGrid) Clear() {
	clear(g.flags)
	clear(g.states)
}

func (g *ByteGrid) IsEmpty() bool {
	for _, f := range g.flags {
		if f != 0 {
			return false
		}
	}
	return true
}

// ScanUnits returns one unit per z layer
func (g *ByteGrid) ScanUnits() int { return g.sz }

func (g *ByteGrid) ForAllFilled(visit func(x, y, z int)) { g.ForFilledIn(0, g.sz, visit) }

func (g *ByteGrid) ForFilledIn(z0, z1 int, visit func(x, y, z int)) {
	index := g.linear(0, 0, z0)
	for z := z0; z < z1; z++ {
		for y := 0; y < g.sy; y++ {
			for x := 0; x < g.sx; x++ {
				if g.flags[index] != 0 {
					visit(x, y, z)
				}
				index++
			}
		}
	}
}

// IntGrid stores one int32 per cell for the flag and one for the age.
type IntGrid struct {
	dims
	flags  []int32
	states []int32
}

// NewIntGrid allocates a cleared int grid
func NewIntGrid(sx, sy, sz, stateBits int) *IntGrid {
	d := dims{sx: sx, sy: sy, sz: sz, stateBits: stateBits}
	return &IntGrid{dims: d, flags: make([]int32, d.volume()), states: make([]int32, d.volume())}
}

func (g *IntGrid) Get(x, y, z int) bool { return g.flags[g.linear(x, y, z)] != 0 }

func (g *IntGrid) GetOr(x, y, z int, d bool) bool {
	if !g.inBounds(x, y, z) {
		return d
	}
	return g.flags[g.linear(x, y, z)] != 0
}

func (g *IntGrid) Set(x, y, z int, alive bool) {
	var v int32
	if alive {
		v = 1
	}
	g.flags[g.linear(x, y, z)] = v
}

func (g *IntGrid) State(x, y, z int) int { return int(g.states[g.linear(x, y, z)]) }

func (g *IntGrid) SetState(x, y, z, state int) { g.states[g.linear(x, y, z)] = int32(state) }

func (g *IntGrid) Clear() {
	clear(g.flags)
	clear(g.states)
}

func (g *IntGrid) IsEmpty() bool {
	for _, f := range g.flags {
		if f != 0 {
			return false
		}
	}
	return true
}

func (g *IntGrid) ScanUnits() int { return g.sz }

func (g *IntGrid) ForAllFilled(visit func(x, y, z int)) { g.ForFilledIn(0, g.sz, visit) }

func (g *IntGrid) ForFilledIn(z0, z1 int, visit func(x, y, z int)) {
	index := g.linear(0, 0, z0)
	for z := z0; z < z1; z++ {
		for y := 0; y < g.sy; y++ {
			for x := 0; x < g.sx; x++ {
				if g.flags[index] != 0 {
					visit(x, y, z)
				}
				index++
			}
		}
	}
}
