package compute

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	tileRows   = 16
	unitsSplit = 4 // chunks per worker for unit ranges
)

// Pool is the worker budget handed to parallel strategies
type Pool struct {
	workers int
}

// NewPool creates a pool of workers goroutines; workers <= 0 means one per CPU
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

// Workers returns the maximum number of concurrent tasks
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// Tiles runs fn over disjoint tiles covering the (y, z) plane: one z layer
// by up to tileRows rows each.
func (p *Pool) Tiles(sy, sz int, fn func(y0, y1, z0, z1 int)) error {
	var eg errgroup.Group
	eg.SetLimit(p.Workers())
	for z := 0; z < sz; z++ {
		for y0 := 0; y0 < sy; y0 += tileRows {
			var (
				z0 = z
				y1 = min(y0+tileRows, sy)
			)
			eg.Go(func() error {
				fn(y0, y1, z0, z0+1)
				return nil
			})
		}
	}
	return eg.Wait()
}

// Split cuts [0, n) into chunks and runs fn on each; chunk is the index of
// the chunk, in [0, Chunks(n)).
func (p *Pool) Split(n int, fn func(chunk, i0, i1 int)) error {
	var (
		eg       errgroup.Group
		chunks   = p.Chunks(n)
		perChunk = (n + chunks - 1) / max(chunks, 1) // Ceiling division
	)
	eg.SetLimit(p.Workers())
	for i := range chunks {
		var (
			start = i * perChunk
			end   = min(start+perChunk, n)
		)
		if start >= n {
			break
		}
		eg.Go(func() error {
			fn(i, start, end)
			return nil
		})
	}
	return eg.Wait()
}

// Chunks returns how many chunks Split uses for n units
func (p *Pool) Chunks(n int) int {
	return max(min(n, p.Workers()*unitsSplit), 1)
}
