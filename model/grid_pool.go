package model

import "sync"

// BufferToPool returns a cell buffer to the pool for reuse
func BufferToPool(buf []byte, pool *BufferPool) {
	if pool == nil || buf == nil {
		return
	}

	pool.Put(buf)
}

// BufferPool recycles the flat per-cell byte buffers handed to renderers
type BufferPool struct {
	pool sync.Pool
}

func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([]byte)
			},
		},
	}
}

// Get retrieves a buffer of exactly n bytes. Its contents are undefined.
func (p *BufferPool) Get(n int) []byte {
	bp := p.pool.Get().(*[]byte)
	if cap(*bp) < n {
		*bp = make([]byte, n)
	}
	return (*bp)[:n]
}

// Put returns a buffer to the pool
func (p *BufferPool) Put(buf []byte) {
	p.pool.Put(&buf)
}

// Pack writes one byte per cell into buf, x fastest, then y, then z:
// 0 for dead cells, the age for alive ones. It returns the buffer and the
// number of alive cells.
func Pack(g Grid, buf []byte) ([]byte, int) {
	sx, sy, sz := g.Size()
	n := sx * sy * sz
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	clear(buf)
	population := 0
	g.ForAllFilled(func(x, y, z int) {
		buf[x+sx*(y+sy*z)] = byte(g.State(x, y, z))
		population++
	})
	return buf, population
}

// Unpack replaces the contents of g with the cells encoded in buf (see Pack).
func Unpack(g Grid, buf []byte) {
	sx, sy, sz := g.Size()
	g.Clear()
	index := 0
	for z := 0; z < sz; z++ {
		for y := 0; y < sy; y++ {
			for x := 0; x < sx; x++ {
				if v := buf[index]; v != 0 {
					g.Set(x, y, z, true)
					g.SetState(x, y, z, int(v))
				}
				index++
			}
		}
	}
}
