package model

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	gridPosEmpty = "  "

	macosClearCmd = "clear"
)

// shades from oldest to youngest
var gridPosShades = []string{"░░", "▒▒", "▓▓", "██"}

// Frame is the published result of one step: one byte per cell, x fastest,
// then y, then z. 0 is dead, 1..states-1 is the age of an alive cell.
type Frame struct {
	SX, SY, SZ int
	States     int
	Generation uint64
	Cells      []byte
}

// At returns the byte for (x, y, z)
func (f Frame) At(x, y, z int) byte { return f.Cells[x+f.SX*(y+f.SY*z)] }

// TerminalRenderer draws one x/z layer of a frame
type TerminalRenderer struct {
	Out io.Writer
}

func (r *TerminalRenderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// Display renders layer y of the frame, x to the right and z downwards
func (r *TerminalRenderer) Display(f Frame, y int) {
	if f.Cells == nil || y < 0 || y >= f.SY {
		return
	}
	var sb strings.Builder
	for z := range f.SZ {
		for x := range f.SX {
			sb.WriteString(shade(f.At(x, y, z), f.States))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(r.out(), sb.String())
}

func shade(age byte, states int) string {
	if age == 0 {
		return gridPosEmpty
	}
	top := max(states-1, 1)
	i := (int(age)*len(gridPosShades) - 1) / top
	return gridPosShades[min(max(i, 0), len(gridPosShades)-1)]
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	var cmd *exec.Cmd
	cmd = exec.Command(macosClearCmd)
	cmd.Stdout = r.out()
	if err := cmd.Run(); err != nil {
		fmt.Println("Error clearing terminal:", err)
	}
}
