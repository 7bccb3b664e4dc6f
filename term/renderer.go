// Package term draws a rope in a terminal with tcell.
package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
)

const (
	ropeRune   = '•'
	anchorRune = '@'
	// terminal cells are roughly twice as tall as they are wide
	cellAspect = 2
)

// Renderer maps world units to cells. Scale is rows per world unit; the
// view is centred on Center.
type Renderer struct {
	Scale  float64
	Center cp.Vector

	RopeStyle   tcell.Style
	AnchorStyle tcell.Style
	StatusStyle tcell.Style
}

func NewRenderer(scale float64) *Renderer {
	return &Renderer{
		Scale:       scale,
		RopeStyle:   tcell.StyleDefault.Foreground(tcell.ColorWhite),
		AnchorStyle: tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		StatusStyle: tcell.StyleDefault.Foreground(tcell.ColorGray),
	}
}

// WorldToCell returns the cell for p on a w by h screen. Y grows up in the
// world and down on screen.
func (r *Renderer) WorldToCell(p cp.Vector, w, h int) (int, int) {
	col, row := r.toScreen(p, w, h)
	return int(math.Floor(col)), int(math.Floor(row))
}

func (r *Renderer) toScreen(p cp.Vector, w, h int) (float64, float64) {
	col := float64(w)/2 + (p.X-r.Center.X)*r.Scale*cellAspect
	row := float64(h)/2 - (p.Y-r.Center.Y)*r.Scale
	return col, row
}

// CellToWorld is the inverse of WorldToCell, taking the cell's corner.
func (r *Renderer) CellToWorld(col, row, w, h int) cp.Vector {
	if r.Scale == 0 {
		return r.Center
	}
	return cp.Vector{
		X: r.Center.X + (float64(col)-float64(w)/2)/(r.Scale*cellAspect),
		Y: r.Center.Y - (float64(row)-float64(h)/2)/r.Scale,
	}
}

// Draw clears the screen and draws the chain with its anchor on top. status,
// when non-empty, goes on the first row.
func (r *Renderer) Draw(screen tcell.Screen, positions []cp.Vector, status string) {
	screen.Clear()
	w, h := screen.Size()

	for i := 0; i+1 < len(positions); i++ {
		x0, y0 := r.toScreen(positions[i], w, h)
		x1, y1 := r.toScreen(positions[i+1], w, h)
		x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, float64(w), float64(h))
		if !ok {
			continue
		}
		r.line(screen, floor(x0), floor(y0), floor(x1), floor(y1), w, h)
	}
	if len(positions) > 0 {
		x, y := r.toScreen(positions[0], w, h)
		if finite(x, y) && inside(floor(x), floor(y), w, h) {
			screen.SetContent(floor(x), floor(y), anchorRune, nil, r.AnchorStyle)
		}
	}

	for i, ch := range []rune(status) {
		if i >= w {
			break
		}
		screen.SetContent(i, 0, ch, nil, r.StatusStyle)
	}
	screen.Show()
}

// clipSegment clips the segment to the box [0,w]x[0,h] with Liang-Barsky.
// ok is false when no part of it is visible or an endpoint is not finite.
func clipSegment(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	if !finite(x0, y0) || !finite(x1, y1) {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0, w - x0, y0, h - y0}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// line plots every cell between the endpoints, stepping along the longer
// axis. The endpoints must already be clipped to the screen.
func (r *Renderer) line(screen tcell.Screen, x0, y0, x1, y1, w, h int) {
	dx, dy := x1-x0, y1-y0
	n := max(abs(dx), abs(dy))
	for i := 0; i <= n; i++ {
		x, y := x0, y0
		if n > 0 {
			x = x0 + int(math.Round(float64(dx*i)/float64(n)))
			y = y0 + int(math.Round(float64(dy*i)/float64(n)))
		}
		if inside(x, y, w, h) {
			screen.SetContent(x, y, ropeRune, nil, r.RopeStyle)
		}
	}
}

func status(tick int, anchor cp.Vector, paused bool) string {
	s := fmt.Sprintf("tick %d  anchor (%.2f, %.2f)  r reset  space pause  q quit", tick, anchor.X, anchor.Y)
	if paused {
		s = "[paused] " + s
	}
	return s
}

func inside(x, y, w, h int) bool {
	return x >= 0 && y >= 0 && x < w && y < h
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func floor(v float64) int {
	return int(math.Floor(v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
