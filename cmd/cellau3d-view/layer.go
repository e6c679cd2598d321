package main

import (
	"image/color"

	"github.com/sheikhrachel/go-cellau3d/model"
)

var (
	deadColor = color.RGBA{A: 0xff}
	oldColor  = color.RGBA{R: 0x20, G: 0x40, B: 0xa0, A: 0xff}
	newColor  = color.RGBA{R: 0xf0, G: 0xf0, B: 0x60, A: 0xff}
)

// layerView keeps the RGBA pixels of one x/z layer of the published frames
type layerView struct {
	layer  int
	sx, sz int
	shown  uint64
	stale  bool
	pixels []byte
}

// move shifts the layer by delta, clamped to [0, sy), and marks the pixels
// stale when the layer changed.
func (v *layerView) move(delta, sy int) {
	layer := min(max(v.layer+delta, 0), sy-1)
	if layer != v.layer {
		v.layer = layer
		v.stale = true
	}
}

// refresh redraws the pixels from f when a new generation arrived, the frame
// size changed or the layer moved. It reports whether the pixels changed.
func (v *layerView) refresh(f model.Frame) bool {
	if f.Cells == nil {
		return false
	}
	if f.SX != v.sx || f.SZ != v.sz || v.pixels == nil {
		v.sx, v.sz = f.SX, f.SZ
		v.pixels = make([]byte, f.SX*f.SZ*4)
		v.stale = true
	}
	if !v.stale && f.Generation == v.shown {
		return false
	}
	fillLayer(v.pixels, f, v.layer)
	v.shown, v.stale = f.Generation, false
	return true
}

// fillLayer converts layer y of the frame to RGBA, newborn cells brightest
func fillLayer(buf []byte, f model.Frame, y int) {
	if y < 0 || y >= f.SY {
		clear(buf)
		return
	}
	top := max(f.States-1, 1)
	for z := range f.SZ {
		for x := range f.SX {
			col := deadColor
			if age := int(f.At(x, y, z)); age > 0 {
				col = blend(oldColor, newColor, age, top)
			}
			base := (x + z*f.SX) * 4
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
		}
	}
}

func blend(a, b color.RGBA, n, d int) color.RGBA {
	mix := func(p, q uint8) uint8 { return uint8((int(p)*(d-n) + int(q)*n) / d) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}
