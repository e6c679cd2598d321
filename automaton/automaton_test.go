package automaton

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sheikhrachel/go-cellau3d/compute"
	"github.com/sheikhrachel/go-cellau3d/model"
	"github.com/sheikhrachel/go-cellau3d/rules"
	"github.com/sheikhrachel/go-cellau3d/utils"
)

func testConfig() utils.Config {
	cfg := utils.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Depth = 8, 8, 8
	cfg.GridType = model.GridNibble
	cfg.ComputeMode = compute.SparseSerial
	cfg.States = 2
	cfg.Neighborhood = model.VonNeumann
	cfg.Survives = ""
	cfg.Births = "1"
	cfg.UpdatePeriod = 100 * time.Millisecond
	cfg.AsyncCompute = false
	cfg.Workers = 2
	return cfg
}

func TestTickSeedsAndSteps(t *testing.T) {
	a := New(testConfig())
	if a.Source() != nil {
		t.Fatalf("grids should be created lazily")
	}
	a.Tick(50 * time.Millisecond)
	src := a.Source()
	if src == nil || !src.Get(4, 4, 4) || !a.IsAlive() {
		t.Fatalf("first tick should seed the center cell")
	}
	if a.Frame().Generation != 0 {
		t.Fatalf("stepped before the period elapsed")
	}

	a.Tick(60 * time.Millisecond)
	if got := a.Frame().Generation; got != 1 {
		t.Fatalf("expected generation 1, got %d", got)
	}
	if _, acc := a.Throttle(); acc != 10*time.Millisecond {
		t.Fatalf("expected 10ms carried over, got %v", acc)
	}
	if got := a.Stats().Population; got != 6 {
		t.Fatalf("expected 6 newborn cells, got %d", got)
	}
}

func TestDeadAutomatonStopsStepping(t *testing.T) {
	cfg := testConfig()
	cfg.Births = ""
	a := New(cfg)
	a.Tick(time.Second)
	if a.IsAlive() || a.Frame().Generation != 1 {
		t.Fatalf("expected one step into extinction, got generation %d alive=%v", a.Frame().Generation, a.IsAlive())
	}
	for range 5 {
		a.Tick(time.Second)
	}
	if got := a.Frame().Generation; got != 1 {
		t.Fatalf("dead automaton kept stepping to generation %d", got)
	}
}

func TestFrameMatchesSourceGrid(t *testing.T) {
	cfg := testConfig()
	cfg.Width, cfg.Height, cfg.Depth = 7, 5, 6
	cfg.States = 4
	cfg.GridType = model.GridNibbleX64Counted
	a := New(cfg, WithPool(compute.NewPool(3)), WithBufferPool(model.NewBufferPool()))
	if err := a.RunSteps(2); err != nil {
		t.Fatal(err)
	}
	f := a.Frame()
	if f.SX != 7 || f.SY != 5 || f.SZ != 6 || f.States != 4 || len(f.Cells) != 7*5*6 {
		t.Fatalf("unexpected frame header %+v", f)
	}
	src := a.Source()
	for z := 0; z < 6; z++ {
		for y := 0; y < 5; y++ {
			for x := 0; x < 7; x++ {
				if got, want := int(f.Cells[x+7*(y+5*z)]), model.StateIfAlive(src, x, y, z); got != want {
					t.Fatalf("cell (%d,%d,%d) published as %d, want %d", x, y, z, got, want)
				}
			}
		}
	}
	snap := a.Snapshot()
	if err := a.Step(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(snap.Cells, f.Cells) || snap.Generation != 2 {
		t.Fatalf("snapshot changed after the next step")
	}
}

// blockingPublisher holds every step in flight until released
type blockingPublisher struct {
	published chan uint64
	release   chan struct{}
}

func (p *blockingPublisher) Publish(f model.Frame) {
	p.published <- f.Generation
	<-p.release
}

func TestSingleStepInFlight(t *testing.T) {
	cfg := testConfig()
	cfg.AsyncCompute = true
	pub := &blockingPublisher{published: make(chan uint64, 4), release: make(chan struct{})}
	a := New(cfg, WithPublisher(pub))

	a.Tick(time.Second)
	if gen := <-pub.published; gen != 1 {
		t.Fatalf("expected generation 1, got %d", gen)
	}
	if !a.IsComputing() {
		t.Fatalf("step should still be in flight")
	}
	for range 10 {
		a.Tick(time.Second)
	}
	if err := a.Step(); err != nil {
		t.Fatal(err)
	}
	if got := a.Frame().Generation; got != 1 {
		t.Fatalf("a second step started while one was in flight: generation %d", got)
	}

	close(pub.release)
	a.Wait()
	if a.IsComputing() {
		t.Fatalf("still computing after Wait")
	}
	select {
	case gen := <-pub.published:
		t.Fatalf("unexpected extra publication of generation %d", gen)
	default:
	}
}

type fakeGPU struct {
	calls int
	seen  []byte
}

func (g *fakeGPU) StepGPU(f model.Frame, r *rules.Rules) error {
	g.calls++
	g.seen = append([]byte(nil), f.Cells...)
	clear(f.Cells)
	f.Cells[0] = byte(r.MaxAge())
	return nil
}

func TestGPUStep(t *testing.T) {
	cfg := testConfig()
	cfg.ComputeMode = compute.GPU
	cfg.AsyncCompute = true
	gpu := &fakeGPU{}
	a := New(cfg, WithGPU(gpu))
	a.Tick(time.Second)
	if gpu.calls != 1 {
		t.Fatalf("expected a synchronous GPU step, got %d calls", gpu.calls)
	}
	if gpu.seen[4+8*(4+8*4)] != 1 {
		t.Fatalf("GPU stepper did not receive the seeded center cell")
	}
	f := a.Frame()
	if f.Cells[0] != 1 || a.Stats().Population != 1 || !a.Source().Get(0, 0, 0) {
		t.Fatalf("GPU result not read back into the grid")
	}
}

func TestGPUStepWithoutStepper(t *testing.T) {
	cfg := testConfig()
	cfg.ComputeMode = compute.GPU
	a := New(cfg)
	err := a.RunSteps(1)
	if !errors.Is(err, ErrNoGPU) {
		t.Fatalf("expected ErrNoGPU, got %v", err)
	}
	if a.IsComputing() {
		t.Fatalf("failed step left the automaton computing")
	}
}

func TestConfigChangesRecreateGrids(t *testing.T) {
	a := New(testConfig())
	a.Tick(0)
	a.SetSize(5, 6, 7)
	if a.Source() != nil {
		t.Fatalf("size change should drop the grids")
	}
	a.Tick(0)
	if sx, sy, sz := a.Source().Size(); sx != 5 || sy != 6 || sz != 7 {
		t.Fatalf("recreated grid has size %dx%dx%d", sx, sy, sz)
	}

	// plain encodings keep their grids across neighborhood changes
	a.SetNeighborhood(model.Moore)
	if a.Source() == nil {
		t.Fatalf("neighborhood change dropped a grid that does not cache counts")
	}
	a.SetGridType(model.GridNibbleX64Counted)
	a.Tick(0)
	a.SetNeighborhood(model.VonNeumann2D)
	if a.Source() != nil {
		t.Fatalf("neighborhood change kept a grid caching counts")
	}

	a.Tick(0)
	a.SetStates(1)
	if a.Rules().States != 2 || a.Source() == nil {
		t.Fatalf("states below 2 should be ignored")
	}
	a.SetStates(300)
	if a.Rules().States != 2 || a.Source() == nil {
		t.Fatalf("states above 256 should be ignored")
	}
	a.SetStates(9)
	if a.Rules().States != 9 || a.Source() != nil {
		t.Fatalf("states change should drop the grids")
	}
	a.Tick(0)
	if bits := a.Source().StateBits(); bits != 4 {
		t.Fatalf("expected 4 state bits for 9 states, got %d", bits)
	}

	a.SetSurvives("2-3")
	a.SetBirths("3")
	r := a.Rules()
	if !r.Survives(2) || !r.Survives(3) || r.Survives(4) || !r.Births(3) || r.Births(1) {
		t.Fatalf("trigger lists not applied: %+v", r)
	}
	if a.Source() == nil {
		t.Fatalf("trigger changes should keep the grids")
	}
}

func TestStateLimitKeepsEncodingsAlike(t *testing.T) {
	for _, gt := range model.GridTypes() {
		cfg := testConfig()
		cfg.GridType = gt
		a := New(cfg)
		a.SetStates(300)
		a.SetStates(256)
		a.SeedSingle()
		if got := a.Source().State(4, 4, 4); got != 255 {
			t.Fatalf("%s: seeded age %d, want 255", gt, got)
		}
		if err := a.RunSteps(1); err != nil {
			t.Fatal(err)
		}
		f := a.Frame()
		if got := f.At(3, 4, 4); got != 255 {
			t.Fatalf("%s: newborn published as %d, want 255", gt, got)
		}
		if got := f.At(4, 4, 4); got != 254 {
			t.Fatalf("%s: decaying center published as %d, want 254", gt, got)
		}
	}
}

func TestDebugActions(t *testing.T) {
	a := New(testConfig())
	if err := a.Invoke("steps-5/s"); err != nil {
		t.Fatal(err)
	}
	if period, acc := a.Throttle(); period != 200*time.Millisecond || acc != 100*time.Millisecond {
		t.Fatalf("steps-5/s gave period %v accumulated %v", period, acc)
	}
	if err := a.Invoke("steps-max"); err != nil {
		t.Fatal(err)
	}
	if period, _ := a.Throttle(); period != 0 {
		t.Fatalf("steps-max gave period %v", period)
	}

	a.SetSize(4, 6, 8)
	if err := a.Invoke("make-cubic"); err != nil {
		t.Fatal(err)
	}
	if sx, sy, sz := a.Size(); sx != 4 || sy != 4 || sz != 4 {
		t.Fatalf("make-cubic gave %dx%dx%d", sx, sy, sz)
	}

	if err := a.Invoke("seed-block"); err != nil {
		t.Fatal(err)
	}
	if n := countAlive(a.Source()); n != 64 {
		t.Fatalf("seed-block placed %d cells, want 64", n)
	}
	if err := a.Invoke("seed-bounding-box"); err != nil {
		t.Fatal(err)
	}
	// 12 edges of a 4-cube without the corners, 2 cells each
	if n := countAlive(a.Source()); n != 24 {
		t.Fatalf("seed-bounding-box placed %d cells, want 24", n)
	}
	if err := a.Invoke("clear"); err != nil {
		t.Fatal(err)
	}
	if !a.Source().IsEmpty() || a.IsAlive() {
		t.Fatalf("clear left cells behind")
	}

	if err := a.Invoke("seed-single"); err != nil {
		t.Fatal(err)
	}
	if err := a.Invoke("step"); err != nil {
		t.Fatal(err)
	}
	if period, _ := a.Throttle(); period != Manual || a.Frame().Generation != 1 {
		t.Fatalf("step should switch to manual stepping and advance one generation")
	}
	a.Tick(time.Hour)
	if a.Frame().Generation != 1 {
		t.Fatalf("manual mode stepped on tick")
	}

	if err := a.Invoke("reset"); err != nil {
		t.Fatal(err)
	}
	if a.Source() != nil {
		t.Fatalf("reset kept the grids")
	}
	if err := a.Invoke("warp"); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestSeedNoiseStaysNearCenter(t *testing.T) {
	cfg := testConfig()
	cfg.Width, cfg.Height, cfg.Depth = 20, 20, 20
	a := New(cfg)
	a.SeedNoise()
	n := 0
	a.Source().ForAllFilled(func(x, y, z int) {
		n++
		if x < 6 || x > 14 || y < 6 || y > 14 || z < 6 || z > 14 {
			t.Fatalf("noise cell (%d,%d,%d) outside radius 4", x, y, z)
		}
	})
	if n == 0 || !a.IsAlive() {
		t.Fatalf("noise placed no cells")
	}
}

func TestPresets(t *testing.T) {
	a := New(testConfig())
	if err := a.Sierpinski(1); err != nil {
		t.Fatal(err)
	}
	if sx, sy, sz := a.Size(); sx < 7 || sy < 7 || sz < 7 {
		t.Fatalf("sierpinski volume too small: %dx%dx%d", sx, sy, sz)
	}
	r := a.Rules()
	if a.Frame().Generation != 3 || r.Neighborhood.Type != model.VonNeumann || r.Survival != 0 || !r.Births(1) {
		t.Fatalf("unexpected sierpinski state: generation %d rules %+v", a.Frame().Generation, r)
	}
	if period, _ := a.Throttle(); period != Manual {
		t.Fatalf("presets should leave manual stepping on")
	}

	cfg := testConfig()
	cfg.States = 5
	b := New(cfg)
	if err := b.BigCube(2); err != nil {
		t.Fatal(err)
	}
	if sx, _, _ := b.Size(); sx < 15 {
		t.Fatalf("big cube volume too small: %d", sx)
	}
	if b.Frame().Generation != 7 || b.Rules().Neighborhood.Type != model.Moore {
		t.Fatalf("unexpected big cube state: generation %d", b.Frame().Generation)
	}
}

func TestGameOfLifeBlinker(t *testing.T) {
	a := New(testConfig())
	if err := a.GameOfLife("blinker"); err != nil {
		t.Fatal(err)
	}
	if _, sy, _ := a.Size(); sy != 1 {
		t.Fatalf("life runs on a single layer, got height %d", sy)
	}
	start, population := model.Pack(a.Source(), nil)
	if population != 3 {
		t.Fatalf("blinker seeded %d cells", population)
	}
	if err := a.RunSteps(2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Frame().Cells, start) {
		t.Fatalf("blinker did not return after two generations")
	}
	if err := a.GameOfLife("spaceship-9000"); err == nil {
		t.Fatalf("expected error for unknown pattern")
	}
}

func TestLifePatternsSorted(t *testing.T) {
	names := LifePatterns()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("patterns not sorted: %v", names)
		}
	}
	for _, name := range names {
		a := New(testConfig())
		if err := a.GameOfLife(name); err != nil || !a.IsAlive() {
			t.Fatalf("%s: err=%v alive=%v", name, err, a.IsAlive())
		}
	}
}

func countAlive(g model.Grid) int {
	n := 0
	g.ForAllFilled(func(int, int, int) { n++ })
	return n
}
