package automaton

import (
	"io"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cellau3d/compute"
	"github.com/sheikhrachel/go-cellau3d/model"
	"github.com/sheikhrachel/go-cellau3d/rules"
	"github.com/sheikhrachel/go-cellau3d/utils"
)

// ErrNoGPU is returned by GPU steps when no GPUStepper was configured
var ErrNoGPU = errors.New("compute mode GPU needs a GPU stepper")

// GPUStepper advances the cells of a frame by one generation in place. It is
// implemented by the rendering side and may block until the device is done.
type GPUStepper interface {
	StepGPU(f model.Frame, r *rules.Rules) error
}

// Publisher receives every frame after its step completed. The frame's cells
// stay valid until the next step completes.
type Publisher interface {
	Publish(f model.Frame)
}

type stepState int32

const (
	idle stepState = iota
	stepping
)

// Automaton owns the ping-pong grid pair, the rules and the step scheduling.
//
// Tick, the setters and the debug actions are meant to be called from one
// goroutine; Frame, IsAlive, IsComputing and Stats are safe from any.
type Automaton struct {
	mu sync.Mutex

	sizeX, sizeY, sizeZ int
	gridType            model.GridType
	mode                compute.Mode
	neighborhood        model.NeighborhoodType
	survives, births    string
	rules               *rules.Rules
	async               bool

	g0, g1   model.Grid
	lastSrc  model.Grid
	alive    bool
	throttle *Throttle
	frame    model.Frame
	stats    *utils.Stats
	rng      *rand.Rand

	state    atomic.Int32
	inflight sync.WaitGroup

	pool      *compute.Pool
	buffers   *model.BufferPool
	gpu       GPUStepper
	publisher Publisher
	log       *log.Logger
}

// Option customizes an Automaton
type Option func(*Automaton)

// WithLogger sets the logger for grid lifecycle and step failures
func WithLogger(l *log.Logger) Option { return func(a *Automaton) { a.log = l } }

// WithGPU sets the stepper used in compute mode GPU
func WithGPU(s GPUStepper) Option { return func(a *Automaton) { a.gpu = s } }

// WithPool sets the worker pool used by parallel strategies
func WithPool(p *compute.Pool) Option { return func(a *Automaton) { a.pool = p } }

// WithBufferPool sets the allocator for published frames
func WithBufferPool(p *model.BufferPool) Option { return func(a *Automaton) { a.buffers = p } }

// WithPublisher registers a receiver for finished frames
func WithPublisher(p Publisher) Option { return func(a *Automaton) { a.publisher = p } }

// New creates an automaton from a validated configuration. Grids are created
// lazily on the first Tick or seeding action.
func New(cfg utils.Config, opts ...Option) *Automaton {
	a := &Automaton{
		sizeX:        cfg.Width,
		sizeY:        cfg.Height,
		sizeZ:        cfg.Depth,
		gridType:     cfg.GridType,
		mode:         cfg.ComputeMode,
		neighborhood: cfg.Neighborhood,
		survives:     cfg.Survives,
		births:       cfg.Births,
		async:        cfg.AsyncCompute,
		throttle:     NewThrottle(cfg.UpdatePeriod),
		stats:        utils.NewStats(),
		rng:          rand.New(rand.NewPCG(uint64(cfg.Seed), 0)),
		log:          log.New(io.Discard, "", 0),
	}
	a.rules = rules.New(cfg.Survives, cfg.Births, cfg.States, cfg.Neighborhood.Neighborhood())
	for _, opt := range opts {
		opt(a)
	}
	if a.pool == nil {
		a.pool = compute.NewPool(cfg.Workers)
	}
	if a.buffers == nil {
		a.buffers = model.NewBufferPool()
	}
	return a
}

func (a *Automaton) stateBits() int { return model.StateBitsFor(a.rules.States) }

// createGrids (re)allocates the pair when the shape changed, else clears it
func (a *Automaton) createGrids() {
	if a.g0 == nil || a.g1 == nil || !a.fits(a.g0) {
		a.log.Printf("creating %s field %dx%dx%d", a.gridType, a.sizeX, a.sizeY, a.sizeZ)
		a.g0 = model.NewGrid(a.gridType, a.sizeX, a.sizeY, a.sizeZ, a.stateBits(), a.rules.Neighborhood)
		a.g1 = model.NewGrid(a.gridType, a.sizeX, a.sizeY, a.sizeZ, a.stateBits(), a.rules.Neighborhood)
		a.lastSrc = nil
		return
	}
	a.g0.Clear()
	a.g1.Clear()
}

func (a *Automaton) fits(g model.Grid) bool {
	sx, sy, sz := g.Size()
	return sx == a.sizeX && sy == a.sizeY && sz == a.sizeZ && g.StateBits() == a.stateBits()
}

// source returns the grid the next step reads from
func (a *Automaton) source() model.Grid {
	if a.g0 == a.lastSrc {
		return a.g1
	}
	return a.g0
}

// Tick advances the clock by dt and starts a step when one is due, the
// automaton is alive and no step is in flight.
func (a *Automaton) Tick(dt time.Duration) {
	a.mu.Lock()
	if a.g0 == nil || a.g1 == nil {
		a.createGrids()
		a.seedSingle()
	}
	a.throttle.Accumulate(dt)
	due := a.alive && a.throttle.Due()
	async := a.async && a.mode != compute.GPU
	a.mu.Unlock()

	if !due || !a.state.CompareAndSwap(int32(idle), int32(stepping)) {
		return
	}
	if !async {
		a.runStep()
		return
	}
	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()
		a.runStep()
	}()
}

// Step switches to manual stepping and runs one step now unless one is in flight.
func (a *Automaton) Step() error {
	a.mu.Lock()
	a.throttle.SetPeriod(Manual)
	ready := a.g0 != nil && a.g1 != nil
	a.mu.Unlock()
	if !ready || !a.state.CompareAndSwap(int32(idle), int32(stepping)) {
		return nil
	}
	return a.runStep()
}

// RunSteps runs n steps synchronously in manual mode
func (a *Automaton) RunSteps(n int) error {
	a.Wait()
	a.mu.Lock()
	if a.g0 == nil || a.g1 == nil {
		a.createGrids()
		a.seedSingle()
	}
	a.mu.Unlock()
	for range n {
		if err := a.Step(); err != nil {
			return errors.Wrapf(err, "[RunSteps] failed to run %d steps", n)
		}
	}
	return nil
}

// Wait blocks until an asynchronous step in flight has finished
func (a *Automaton) Wait() { a.inflight.Wait() }

// runStep executes one step; the caller has moved the state to stepping.
func (a *Automaton) runStep() error {
	defer a.state.Store(int32(idle))

	a.mu.Lock()
	a.throttle.Consume()
	src := a.source()
	dst := a.g1
	if src == a.g1 {
		dst = a.g0
	}
	var (
		mode  = a.mode
		r     = *a.rules
		cells = a.sizeX * a.sizeY * a.sizeZ
	)
	a.mu.Unlock()

	t0 := time.Now()
	var err error
	if mode == compute.GPU {
		err = a.gpuStep(src, dst, &r)
	} else {
		err = compute.Compute(mode, a.pool, src, dst, &r)
	}
	elapsed := time.Since(t0)
	if err != nil {
		a.log.Printf("step failed in mode %s: %v", mode, err)
		return errors.Wrapf(err, "[runStep] failed to compute in mode: %+v", mode)
	}

	buf, population := model.Pack(dst, a.buffers.Get(cells))

	a.mu.Lock()
	a.alive = population > 0
	a.lastSrc = src
	old := a.frame.Cells
	a.frame = model.Frame{
		SX: a.sizeX, SY: a.sizeY, SZ: a.sizeZ,
		States:     r.States,
		Generation: a.frame.Generation + 1,
		Cells:      buf,
	}
	a.stats.Update(a.frame.Generation, population, cells, elapsed)
	frame := a.frame
	a.mu.Unlock()

	model.BufferToPool(old, a.buffers)
	if a.publisher != nil {
		a.publisher.Publish(frame)
	}
	return nil
}

// gpuStep hands the packed source to the GPU stepper and reads the result into dst
func (a *Automaton) gpuStep(src, dst model.Grid, r *rules.Rules) error {
	if a.gpu == nil {
		return ErrNoGPU
	}
	sx, sy, sz := src.Size()
	buf, _ := model.Pack(src, a.buffers.Get(sx*sy*sz))
	defer model.BufferToPool(buf, a.buffers)
	f := model.Frame{SX: sx, SY: sy, SZ: sz, States: r.States, Cells: buf}
	if err := a.gpu.StepGPU(f, r); err != nil {
		return errors.Wrap(err, "[gpuStep] GPU stepper failed")
	}
	model.Unpack(dst, buf)
	return nil
}

// Frame returns the most recently published frame
func (a *Automaton) Frame() model.Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frame
}

// Snapshot returns a copy of the most recent frame that stays valid
func (a *Automaton) Snapshot() model.Frame {
	f := a.Frame()
	f.Cells = append([]byte(nil), f.Cells...)
	return f
}

// IsAlive reports whether the last destination grid (or the seed) has alive cells
func (a *Automaton) IsAlive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alive
}

// IsComputing reports whether a step is in flight
func (a *Automaton) IsComputing() bool { return stepState(a.state.Load()) == stepping }

// Stats returns a copy of the step statistics
func (a *Automaton) Stats() utils.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.stats
}

// Source returns the grid the next step reads from, nil before creation.
// It must not be mutated while a step is in flight.
func (a *Automaton) Source() model.Grid {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.g0 == nil {
		return nil
	}
	return a.source()
}

// Rules returns a copy of the active rules
func (a *Automaton) Rules() rules.Rules {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.rules
}

// Throttle exposes the period and accumulated time
func (a *Automaton) Throttle() (period, accumulated time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.throttle.Period(), a.throttle.Accumulated()
}

// Size returns the configured dimensions
func (a *Automaton) Size() (sx, sy, sz int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sizeX, a.sizeY, a.sizeZ
}

// lock waits for the step in flight and locks the configuration
func (a *Automaton) lock() {
	a.Wait()
	a.mu.Lock()
}

// Reset drops both grids; they are recreated cleared and seeded on the next Tick.
func (a *Automaton) Reset() {
	a.lock()
	defer a.mu.Unlock()
	a.reset()
}

func (a *Automaton) reset() {
	a.g0, a.g1, a.lastSrc = nil, nil, nil
	a.alive = false
	a.throttle.Reset()
}

// SetSize changes the dimensions and resets on change
func (a *Automaton) SetSize(sx, sy, sz int) {
	a.lock()
	defer a.mu.Unlock()
	a.setSize(sx, sy, sz)
}

func (a *Automaton) setSize(sx, sy, sz int) {
	if sx == a.sizeX && sy == a.sizeY && sz == a.sizeZ {
		return
	}
	a.sizeX, a.sizeY, a.sizeZ = sx, sy, sz
	a.reset()
}

// MakeCubic sets the y and z sizes to the x size
func (a *Automaton) MakeCubic() {
	a.lock()
	defer a.mu.Unlock()
	a.setSize(a.sizeX, a.sizeX, a.sizeX)
}

// SetGridType switches the encoding and resets on change
func (a *Automaton) SetGridType(t model.GridType) {
	a.lock()
	defer a.mu.Unlock()
	if t != a.gridType {
		a.gridType = t
		a.reset()
	}
}

// SetComputeMode switches the transition strategy
func (a *Automaton) SetComputeMode(m compute.Mode) {
	a.lock()
	defer a.mu.Unlock()
	a.mode = m
}

// SetStates changes the number of states; values outside 2..256 are ignored
func (a *Automaton) SetStates(states int) {
	a.lock()
	defer a.mu.Unlock()
	a.setStates(states)
}

func (a *Automaton) setStates(states int) {
	if states == a.rules.States || states < utils.MinStates || states > utils.MaxStates {
		return
	}
	a.rules.States = states
	a.reset()
}

// SetNeighborhood switches the neighborhood. Grids caching neighbor counts
// are recreated.
func (a *Automaton) SetNeighborhood(t model.NeighborhoodType) {
	a.lock()
	defer a.mu.Unlock()
	a.setNeighborhood(t)
}

func (a *Automaton) setNeighborhood(t model.NeighborhoodType) {
	a.neighborhood = t
	a.rules.Neighborhood = t.Neighborhood()
	if a.gridType.CachesCounts() && a.g0 != nil {
		a.reset()
	}
}

// SetSurvives replaces the survival trigger list
func (a *Automaton) SetSurvives(s string) {
	a.lock()
	defer a.mu.Unlock()
	a.setSurvives(s)
}

func (a *Automaton) setSurvives(s string) {
	if s != a.survives {
		a.survives = s
		a.rules.Survival = rules.ParseFlags(s)
	}
}

// SetBirths replaces the birth trigger list
func (a *Automaton) SetBirths(s string) {
	a.lock()
	defer a.mu.Unlock()
	a.setBirths(s)
}

func (a *Automaton) setBirths(s string) {
	if s != a.births {
		a.births = s
		a.rules.Birth = rules.ParseFlags(s)
	}
}

// SetUpdatePeriod changes the step period
func (a *Automaton) SetUpdatePeriod(period time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.throttle.SetPeriod(period)
}

// SetAsync toggles stepping on a background goroutine
func (a *Automaton) SetAsync(async bool) {
	a.lock()
	defer a.mu.Unlock()
	a.async = async
}

// FixedRate sets the period to one step every 1/stepsPerSecond seconds and
// primes the clock half way.
func (a *Automaton) FixedRate(stepsPerSecond int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	period := time.Second / time.Duration(max(stepsPerSecond, 1))
	a.throttle.SetPeriod(period)
	a.throttle.SetAccumulated(period / 2)
}

// MaxRate steps on every tick
func (a *Automaton) MaxRate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.throttle.SetPeriod(0)
	a.throttle.SetAccumulated(0)
}
