package model

import (
	"math/rand/v2"
	"testing"
)

func TestNeighborhoodOffsets(t *testing.T) {
	cases := map[NeighborhoodType]int{Moore: 26, VonNeumann: 6, Moore2D: 8, VonNeumann2D: 4}
	for nt, want := range cases {
		n := nt.Neighborhood()
		if len(n.Offsets) != want {
			t.Fatalf("%s: %d offsets, want %d", nt, len(n.Offsets), want)
		}
		seen := map[Offset]bool{}
		for _, o := range n.Offsets {
			if o == (Offset{}) {
				t.Fatalf("%s: contains the center", nt)
			}
			if seen[o] {
				t.Fatalf("%s: duplicate offset %v", nt, o)
			}
			seen[o] = true
			if (nt == Moore2D || nt == VonNeumann2D) && o.Y != 0 {
				t.Fatalf("%s: offset %v leaves the x/z plane", nt, o)
			}
		}
		if nt.Neighborhood() != n {
			t.Fatalf("%s: expected a shared instance", nt)
		}
	}
}

func TestCountMatchesDirect(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for _, nt := range NeighborhoodTypes() {
		n := nt.Neighborhood()
		for _, gt := range GridTypes() {
			g := NewGrid(gt, 6, 5, 6, 1, n)
			for c := range randomCells(rng, 6, 5, 6, 0.35, 2) {
				g.Set(c.x, c.y, c.z, true)
			}
			for z := 0; z < 6; z++ {
				for y := 0; y < 5; y++ {
					for x := 0; x < 6; x++ {
						if got, want := n.Count(g, x, y, z), n.CountDirect(g, x, y, z); got != want {
							t.Fatalf("%s/%s: Count(%d,%d,%d) = %d, want %d", nt, gt, x, y, z, got, want)
						}
					}
				}
			}
		}
	}
}

func TestCountRowMatchesDirect(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	for _, nt := range NeighborhoodTypes() {
		n := nt.Neighborhood()
		for _, gt := range GridTypes() {
			g := NewGrid(gt, 7, 4, 5, 1, n)
			for c := range randomCells(rng, 7, 4, 5, 0.4, 2) {
				g.Set(c.x, c.y, c.z, true)
			}
			counts := make([]int, 7)
			for z := 0; z < 5; z++ {
				for y := 0; y < 4; y++ {
					n.CountRow(g, y, z, counts)
					for x, got := range counts {
						if want := n.CountDirect(g, x, y, z); got != want {
							t.Fatalf("%s/%s: row count at (%d,%d,%d) = %d, want %d", nt, gt, x, y, z, got, want)
						}
					}
				}
			}
		}
	}
	custom := NewNeighborhood([]Offset{{1, 0, 0}})
	g := NewByteGrid(3, 1, 1, 1)
	g.Set(2, 0, 0, true)
	counts := make([]int, 3)
	custom.CountRow(g, 0, 0, counts)
	if counts[0] != 0 || counts[1] != 1 || counts[2] != 0 {
		t.Fatalf("custom neighborhood row counts %v", counts)
	}
}

func TestCustomNeighborhood(t *testing.T) {
	n := NewNeighborhood([]Offset{{2, 0, 0}, {0, 0, -2}})
	g := NewByteGrid(5, 1, 5, 1)
	g.Set(4, 0, 2, true)
	g.Set(2, 0, 0, true)
	if got := n.Count(g, 2, 0, 2); got != 2 {
		t.Fatalf("expected 2 neighbors, got %d", got)
	}
	// a counting grid caching another neighborhood falls back to summation
	cg := NewCountingBlockGrid(5, 1, 5, 1, Moore2D.Neighborhood())
	cg.Set(4, 0, 2, true)
	if got := n.Count(cg, 2, 0, 2); got != 1 {
		t.Fatalf("expected 1 neighbor, got %d", got)
	}
}

func TestNeighborhoodTypeText(t *testing.T) {
	var nt NeighborhoodType
	if err := nt.UnmarshalText([]byte(" Von-Neumann-2D ")); err != nil || nt != VonNeumann2D {
		t.Fatalf("got %v, %v", nt, err)
	}
	if err := nt.UnmarshalText([]byte("hex")); err == nil {
		t.Fatalf("expected error")
	}
}
