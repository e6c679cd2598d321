package model

import (
	"strings"

	"github.com/pkg/errors"
)

// Offset is a relative cell position
type Offset struct{ X, Y, Z int }

// Neighborhood is an immutable set of offsets plus a fast counting path over
// the separable window sums. 2D neighborhoods live in the x/z plane (y pinned).
type Neighborhood struct {
	Type    NeighborhoodType
	Offsets []Offset
	sum     func(g Grid, x, y, z int) int
	// column is the y/z cross-section of the window at x, for windows
	// that are full in x
	column  func(g Grid, x, y, z int) int
}

// NeighborhoodType enumerates the supported adjacency patterns
type NeighborhoodType int

const (
	Moore NeighborhoodType = iota
	VonNeumann
	Moore2D
	VonNeumann2D
)

var (
	moore = &Neighborhood{
		Type:    Moore,
		Offsets: cubeOffsets(true),
		sum: func(g Grid, x, y, z int) int {
			return Sum27(g, x, y, z) - flag(g, x, y, z)
		},
		column: Sum9YZ,
	}
	vonNeumann = &Neighborhood{
		Type: VonNeumann,
		Offsets: []Offset{
			{-1, 0, 0}, {1, 0, 0},
			{0, -1, 0}, {0, 1, 0},
			{0, 0, -1}, {0, 0, 1},
		},
		sum: func(g Grid, x, y, z int) int {
			return Sum3X(g, x, y, z) - flag(g, x, y, z) +
				flag(g, x, y-1, z) + flag(g, x, y+1, z) +
				flag(g, x, y, z-1) + flag(g, x, y, z+1)
		},
	}
	moore2D = &Neighborhood{
		Type:    Moore2D,
		Offsets: cubeOffsets(false),
		sum: func(g Grid, x, y, z int) int {
			return Sum9XZ(g, x, y, z) - flag(g, x, y, z)
		},
		column: Sum3Z,
	}
	vonNeumann2D = &Neighborhood{
		Type: VonNeumann2D,
		Offsets: []Offset{
			{-1, 0, 0}, {1, 0, 0},
			{0, 0, -1}, {0, 0, 1},
		},
		sum: func(g Grid, x, y, z int) int {
			return Sum3X(g, x, y, z) - flag(g, x, y, z) +
				flag(g, x, y, z-1) + flag(g, x, y, z+1)
		},
	}
)

var neighborhoodNames = map[NeighborhoodType]string{
	Moore:        "moore",
	VonNeumann:   "von-neumann",
	Moore2D:      "moore-2d",
	VonNeumann2D: "von-neumann-2d",
}

func cubeOffsets(withY bool) []Offset {
	ys := []int{0}
	if withY {
		ys = []int{-1, 0, 1}
	}
	var offsets []Offset
	for z := -1; z <= 1; z++ {
		for _, y := range ys {
			for x := -1; x <= 1; x++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				offsets = append(offsets, Offset{x, y, z})
			}
		}
	}
	return offsets
}

// Neighborhood returns the shared immutable neighborhood for t
func (t NeighborhoodType) Neighborhood() *Neighborhood {
	switch t {
	case Moore:
		return moore
	case VonNeumann:
		return vonNeumann
	case Moore2D:
		return moore2D
	case VonNeumann2D:
		return vonNeumann2D
	}
	panic(errors.Errorf("[NeighborhoodType.Neighborhood] unknown neighborhood %d", int(t)))
}

// NeighborhoodTypes lists every neighborhood
func NeighborhoodTypes() []NeighborhoodType {
	return []NeighborhoodType{Moore, VonNeumann, Moore2D, VonNeumann2D}
}

func (t NeighborhoodType) String() string {
	if name, ok := neighborhoodNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (t NeighborhoodType) MarshalText() ([]byte, error) {
	if _, ok := neighborhoodNames[t]; !ok {
		return nil, errors.Errorf("[NeighborhoodType.MarshalText] unknown neighborhood %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *NeighborhoodType) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for k, v := range neighborhoodNames {
		if v == name {
			*t = k
			return nil
		}
	}
	return errors.Errorf("[NeighborhoodType.UnmarshalText] unknown neighborhood: %+v", string(text))
}

// Count returns the number of alive neighbors of (x, y, z) in g. A grid that
// caches counts for this neighborhood answers directly.
func (n *Neighborhood) Count(g Grid, x, y, z int) int {
	if c, ok := g.(NeighborCounter); ok && c.CountsFor() == n {
		return c.NeighborCount(x, y, z)
	}
	if n.sum != nil {
		return n.sum(g, x, y, z)
	}
	return n.CountDirect(g, x, y, z)
}

// CountRow writes the number of alive neighbors of (x, y, z) for every x in
// [0, len(counts)) into counts. Windows that are full in x slide a column sum
// along the row, reading each column once.
func (n *Neighborhood) CountRow(g Grid, y, z int, counts []int) {
	c, cached := g.(NeighborCounter)
	if (cached && c.CountsFor() == n) || n.column == nil {
		for x := range counts {
			counts[x] = n.Count(g, x, y, z)
		}
		return
	}
	// the column at x = -1 lies outside the volume
	left, mid := 0, n.column(g, 0, y, z)
	for x := range counts {
		right := n.column(g, x+1, y, z)
		counts[x] = left + mid + right - flag(g, x, y, z)
		left, mid = mid, right
	}
}

// CountDirect sums the alive flags over the offset list
func (n *Neighborhood) CountDirect(g Grid, x, y, z int) int {
	count := 0
	for _, o := range n.Offsets {
		count += flag(g, x+o.X, y+o.Y, z+o.Z)
	}
	return count
}

// NewNeighborhood builds a custom neighborhood that counts by direct summation
func NewNeighborhood(offsets []Offset) *Neighborhood {
	return &Neighborhood{Type: -1, Offsets: append([]Offset(nil), offsets...)}
}
