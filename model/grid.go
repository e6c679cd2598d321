package model

import (
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// Grid is a 3D volume of cells, each carrying an alive flag and an age.
// The age of a dead cell carries no meaning.
type Grid interface {
	Size() (sx, sy, sz int)
	StateBits() int

	// Get reports the alive flag. Coordinates must lie inside the volume.
	Get(x, y, z int) bool
	// GetOr is Get, returning d for coordinates outside the volume.
	GetOr(x, y, z int, d bool) bool
	Set(x, y, z int, alive bool)

	State(x, y, z int) int
	SetState(x, y, z, state int)

	Clear()
	IsEmpty() bool

	// ForAllFilled visits every alive cell. Order depends on the encoding.
	ForAllFilled(visit func(x, y, z int))
	// ScanUnits is the number of independent chunks ForFilledIn can enumerate.
	// Disjoint unit ranges visit disjoint cells, which is what parallel scans split on.
	ScanUnits() int
	ForFilledIn(u0, u1 int, visit func(x, y, z int))
}

// NeighborCounter is implemented by encodings that keep a live-neighbor count per cell.
type NeighborCounter interface {
	NeighborCount(x, y, z int) int
	CountsFor() *Neighborhood
}

// StateBitsFor returns ceil(log2(states)), the width needed to store ages 0..states-1.
func StateBitsFor(states int) int {
	if states <= 1 {
		return 0
	}
	return bits.Len(uint(states - 1))
}

// dims holds the volume shared by all encodings
type dims struct {
	sx, sy, sz int
	stateBits  int
}

func (d dims) Size() (int, int, int) { return d.sx, d.sy, d.sz }

func (d dims) StateBits() int { return d.stateBits }

func (d dims) inBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < d.sx && y < d.sy && z < d.sz
}

func (d dims) volume() int { return d.sx * d.sy * d.sz }

// linear is the x-fastest row-major index
func (d dims) linear(x, y, z int) int { return x + d.sx*(y+d.sy*z) }

// GridType selects one of the grid encodings
type GridType int

const (
	GridByteArray GridType = iota
	GridIntArray
	GridNibble
	GridNibbleX64
	GridNibbleX64Counted
)

var gridTypeNames = map[GridType]string{
	GridByteArray:        "byte-array",
	GridIntArray:         "int-array",
	GridNibble:           "nibble",
	GridNibbleX64:        "nibble-x64",
	GridNibbleX64Counted: "nibble-x64-counted",
}

// GridTypes lists every encoding
func GridTypes() []GridType {
	return []GridType{GridByteArray, GridIntArray, GridNibble, GridNibbleX64, GridNibbleX64Counted}
}

func (t GridType) String() string {
	if name, ok := gridTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (t GridType) MarshalText() ([]byte, error) {
	if _, ok := gridTypeNames[t]; !ok {
		return nil, errors.Errorf("[GridType.MarshalText] unknown grid type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *GridType) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range gridTypeNames {
		if v == name {
			*t = k
			return nil
		}
	}
	return errors.Errorf("[GridType.UnmarshalText] unknown grid type: %+v", string(text))
}

// CachesCounts reports whether grids of this type depend on the neighborhood
func (t GridType) CachesCounts() bool { return t == GridNibbleX64Counted }

// NewGrid creates a cleared grid of the given encoding. The neighborhood is only
// used by encodings that cache neighbor counts.
func NewGrid(t GridType, sx, sy, sz, stateBits int, n *Neighborhood) Grid {
	switch t {
	case GridByteArray:
		return NewByteGrid(sx, sy, sz, stateBits)
	case GridIntArray:
		return NewIntGrid(sx, sy, sz, stateBits)
	case GridNibble:
		return NewNibbleGrid(sx, sy, sz, stateBits)
	case GridNibbleX64:
		return NewBlockGrid(sx, sy, sz, stateBits)
	case GridNibbleX64Counted:
		return NewCountingBlockGrid(sx, sy, sz, stateBits, n)
	}
	panic(errors.Errorf("[NewGrid] unknown grid type %d", int(t)))
}

// StateIfAlive returns the age of an alive cell and 0 for dead or outside cells.
func StateIfAlive(g Grid, x, y, z int) int {
	if !g.GetOr(x, y, z, false) {
		return 0
	}
	return g.State(x, y, z)
}

// IsSame reports whether two grids hold the same alive cells with the same ages.
func IsSame(a, b Grid) bool {
	ax, ay, az := a.Size()
	bx, by, bz := b.Size()
	if ax != bx || ay != by || az != bz {
		return false
	}
	for z := 0; z < az; z++ {
		for y := 0; y < ay; y++ {
			for x := 0; x < ax; x++ {
				if StateIfAlive(a, x, y, z) != StateIfAlive(b, x, y, z) || a.Get(x, y, z) != b.Get(x, y, z) {
					return false
				}
			}
		}
	}
	return true
}
