package compute

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/sheikhrachel/go-cellau3d/model"
	"github.com/sheikhrachel/go-cellau3d/rules"
)

var cpuModes = []Mode{FullScanSerial, FullScanParallel, SparseSerial, SparseParallel}

func seedRandom(g model.Grid, rng *rand.Rand, density float64, states int) {
	sx, sy, sz := g.Size()
	for z := 0; z < sz; z++ {
		for y := 0; y < sy; y++ {
			for x := 0; x < sx; x++ {
				if rng.Float64() < density {
					g.Set(x, y, z, true)
					g.SetState(x, y, z, 1+rng.IntN(states-1))
				}
			}
		}
	}
}

func newPair(gt model.GridType, sx, sy, sz int, r *rules.Rules) (model.Grid, model.Grid) {
	bits := model.StateBitsFor(r.States)
	return model.NewGrid(gt, sx, sy, sz, bits, r.Neighborhood), model.NewGrid(gt, sx, sy, sz, bits, r.Neighborhood)
}

func alive(g model.Grid) map[[3]int]int {
	cells := map[[3]int]int{}
	g.ForAllFilled(func(x, y, z int) { cells[[3]int{x, y, z}] = g.State(x, y, z) })
	return cells
}

func TestStrategiesAgree(t *testing.T) {
	ruleSets := []struct{ survives, births string }{
		{"", "1"},
		{"2-3", "3"},
		{"4-9", "4,6-8"},
	}
	pool := NewPool(4)
	for _, nt := range model.NeighborhoodTypes() {
		for _, rs := range ruleSets {
			for _, states := range []int{2, 5} {
				r := rules.New(rs.survives, rs.births, states, nt.Neighborhood())
				rng := rand.New(rand.NewPCG(uint64(states), uint64(nt)))
				ref := model.NewByteGrid(11, 9, 10, model.StateBitsFor(states))
				seedRandom(ref, rng, 0.25, states)

				for _, gt := range model.GridTypes() {
					for _, mode := range cpuModes {
						src, dst := newPair(gt, 11, 9, 10, r)
						model.Unpack(src, mustPack(ref))
						want := model.NewByteGrid(11, 9, 10, model.StateBitsFor(states))
						wantNext := model.NewByteGrid(11, 9, 10, model.StateBitsFor(states))
						model.Unpack(want, mustPack(ref))
						// three generations, ping-ponging both pairs
						for step := 0; step < 3; step++ {
							if err := Compute(FullScanSerial, nil, want, wantNext, r); err != nil {
								t.Fatal(err)
							}
							if err := Compute(mode, pool, src, dst, r); err != nil {
								t.Fatalf("%s/%s: %v", gt, mode, err)
							}
							if !model.IsSame(dst, wantNext) {
								t.Fatalf("%s/%s/%s %q/%q states %d: generation %d differs",
									nt, gt, mode, rs.survives, rs.births, states, step+1)
							}
							src, dst = dst, src
							want, wantNext = wantNext, want
						}
					}
				}
			}
		}
	}
}

func mustPack(g model.Grid) []byte {
	buf, _ := model.Pack(g, nil)
	return buf
}

func TestSingleCellVonNeumann(t *testing.T) {
	r := rules.New("", "1", 2, model.VonNeumann.Neighborhood())
	for _, gt := range model.GridTypes() {
		for _, mode := range cpuModes {
			src, dst := newPair(gt, 3, 3, 3, r)
			src.Set(1, 1, 1, true)
			src.SetState(1, 1, 1, 1)
			if err := Compute(mode, NewPool(2), src, dst, r); err != nil {
				t.Fatal(err)
			}
			got := alive(dst)
			want := map[[3]int]int{
				{0, 1, 1}: 1, {2, 1, 1}: 1,
				{1, 0, 1}: 1, {1, 2, 1}: 1,
				{1, 1, 0}: 1, {1, 1, 2}: 1,
			}
			if len(got) != len(want) {
				t.Fatalf("%s/%s: got %v, want %v", gt, mode, got, want)
			}
			for c, age := range want {
				if got[c] != age {
					t.Fatalf("%s/%s: cell %v has age %d, want %d", gt, mode, c, got[c], age)
				}
			}

			if err := Compute(mode, NewPool(2), dst, src, r); err != nil {
				t.Fatal(err)
			}
			if !src.IsEmpty() {
				t.Fatalf("%s/%s: expected extinction in generation 2, got %v", gt, mode, alive(src))
			}
		}
	}
}

func TestBlinkerPeriodTwo(t *testing.T) {
	r := rules.Conway()
	horizontal := map[[3]int]int{{1, 0, 2}: 1, {2, 0, 2}: 1, {3, 0, 2}: 1}
	vertical := map[[3]int]int{{2, 0, 1}: 1, {2, 0, 2}: 1, {2, 0, 3}: 1}
	for _, gt := range model.GridTypes() {
		for _, mode := range cpuModes {
			src, dst := newPair(gt, 5, 1, 5, r)
			for c := range horizontal {
				src.Set(c[0], c[1], c[2], true)
				src.SetState(c[0], c[1], c[2], 1)
			}
			for step, want := range []map[[3]int]int{vertical, horizontal, vertical} {
				if err := Compute(mode, NewPool(3), src, dst, r); err != nil {
					t.Fatal(err)
				}
				got := alive(dst)
				if len(got) != len(want) {
					t.Fatalf("%s/%s step %d: got %v, want %v", gt, mode, step+1, got, want)
				}
				for c := range want {
					if _, ok := got[c]; !ok {
						t.Fatalf("%s/%s step %d: missing %v", gt, mode, step+1, c)
					}
				}
				src, dst = dst, src
			}
		}
	}
}

func TestFullScanOverwritesStaleDestination(t *testing.T) {
	r := rules.New("", "1", 3, model.Moore.Neighborhood())
	for _, mode := range cpuModes {
		src, dst := newPair(model.GridNibble, 6, 6, 6, r)
		dst.Set(5, 5, 5, true)
		dst.SetState(5, 5, 5, 2)
		src.Set(0, 0, 0, true)
		src.SetState(0, 0, 0, 1)
		if err := Compute(mode, NewPool(2), src, dst, r); err != nil {
			t.Fatal(err)
		}
		if dst.Get(5, 5, 5) {
			t.Fatalf("%s: stale cell survived in the destination", mode)
		}
	}
}

func TestGPUModeIsDelegated(t *testing.T) {
	r := rules.Conway()
	src, dst := newPair(model.GridByteArray, 3, 1, 3, r)
	if err := Compute(GPU, NewPool(1), src, dst, r); !errors.Is(err, ErrGPUDelegated) {
		t.Fatalf("expected ErrGPUDelegated, got %v", err)
	}
}

func TestModeText(t *testing.T) {
	for _, m := range Modes() {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Mode
		if err := back.UnmarshalText(text); err != nil || back != m {
			t.Fatalf("%s: round trip gave %v, %v", text, back, err)
		}
	}
	var m Mode
	if err := m.UnmarshalText([]byte("quantum")); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
