//go:build ebiten

package main

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/sheikhrachel/go-cellau3d/automaton"
)

// actionKeys map keys to debug actions
var actionKeys = map[ebiten.Key]string{
	ebiten.Key1: "steps-1/s",
	ebiten.Key2: "steps-2/s",
	ebiten.Key5: "steps-5/s",
	ebiten.Key0: "steps-10/s",
	ebiten.KeyM: "steps-max",
	ebiten.KeyN: "step",
	ebiten.KeyR: "reset",
	ebiten.KeyC: "make-cubic",
	ebiten.KeyX: "clear",
	ebiten.KeyS: "seed-single",
	ebiten.KeyG: "seed-noise",
	ebiten.KeyB: "seed-block",
	ebiten.KeyO: "seed-bounding-box",
}

// viewer draws one x/z layer of the automaton and maps keys to debug actions
type viewer struct {
	ca    *automaton.Automaton
	scale int
	view  layerView
	img   *ebiten.Image
	last  time.Time
}

func newViewer(ca *automaton.Automaton, scale int) *viewer {
	_, sy, _ := ca.Size()
	return &viewer{ca: ca, scale: scale, view: layerView{layer: sy / 2}, last: time.Now()}
}

// Update handles input and advances the automaton clock
func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for key, action := range actionKeys {
		if inpututil.IsKeyJustPressed(key) {
			if err := v.ca.Invoke(action); err != nil {
				return err
			}
		}
	}
	_, sy, _ := v.ca.Size()
	delta := 0
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		delta++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		delta--
	}
	v.view.move(delta, sy)

	now := time.Now()
	v.ca.Tick(now.Sub(v.last))
	v.last = now
	return nil
}

// Draw uploads the current layer when it changed
func (v *viewer) Draw(screen *ebiten.Image) {
	f := v.ca.Frame()
	if v.view.refresh(f) {
		if v.img == nil || v.img.Bounds().Dx() != f.SX || v.img.Bounds().Dy() != f.SZ {
			v.img = ebiten.NewImage(f.SX, f.SZ)
		}
		v.img.WritePixels(v.view.pixels)
	}
	if v.img != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(v.scale), float64(v.scale))
		screen.DrawImage(v.img, op)
	}

	stats := v.ca.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("gen %d  pop %d  y=%d  %.2f ns/cell  tps %.0f",
		f.Generation, stats.Population, v.view.layer, stats.NanosPerCell, ebiten.ActualTPS()))
}

// Layout returns the logical screen size
func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	sx, _, sz := v.ca.Size()
	return sx * v.scale, sz * v.scale
}
