// Package trace records rope runs into a pebble store so two runs can be
// compared bit for bit.
package trace

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/anchor"
	"github.com/milk9111/ropesim/rope"
)

var ErrCorruptFrame = errors.New("trace: corrupt frame")

// Frame is the chain after one physics step.
type Frame struct {
	Tick   int
	Time   float64
	Points []cp.Vector
}

// frame layout: time bits, point count, then x/y bits per point, all
// big-endian.
func encodeFrame(f Frame) []byte {
	buf := make([]byte, 12+16*len(f.Points))
	binary.BigEndian.PutUint64(buf[0:], math.Float64bits(f.Time))
	binary.BigEndian.PutUint32(buf[8:], uint32(len(f.Points)))
	off := 12
	for _, p := range f.Points {
		binary.BigEndian.PutUint64(buf[off:], math.Float64bits(p.X))
		binary.BigEndian.PutUint64(buf[off+8:], math.Float64bits(p.Y))
		off += 16
	}
	return buf
}

func decodeFrame(tick int, data []byte) (Frame, error) {
	if len(data) < 12 {
		return Frame{}, fmt.Errorf("trace: tick %d: short header: %w", tick, ErrCorruptFrame)
	}
	n := int(binary.BigEndian.Uint32(data[8:]))
	if len(data) != 12+16*n {
		return Frame{}, fmt.Errorf("trace: tick %d: %d points in %d bytes: %w", tick, n, len(data), ErrCorruptFrame)
	}
	f := Frame{
		Tick:   tick,
		Time:   math.Float64frombits(binary.BigEndian.Uint64(data[0:])),
		Points: make([]cp.Vector, n),
	}
	off := 12
	for i := range f.Points {
		f.Points[i] = cp.Vector{
			X: math.Float64frombits(binary.BigEndian.Uint64(data[off:])),
			Y: math.Float64frombits(binary.BigEndian.Uint64(data[off+8:])),
		}
		off += 16
	}
	return f, nil
}

// Record steps sim ticks times with a fixed dt and returns one frame per
// step. The anchor for each step comes from source evaluated at the tick and
// time before the step; a nil source holds the simulator's current anchor.
func Record(sim *rope.Simulator, source anchor.Source, ticks int, dt float64) ([]Frame, error) {
	if !sim.Initialized() {
		return nil, rope.ErrNotInitialized
	}
	frames := make([]Frame, 0, ticks)
	var t float64
	for tick := 0; tick < ticks; tick++ {
		a := sim.Anchor()
		if source != nil {
			pos, err := source.Anchor(tick, t)
			if err != nil {
				return frames, fmt.Errorf("trace: anchor at tick %d: %w", tick, err)
			}
			a = pos
		}
		if err := sim.Step(dt, a); err != nil {
			return frames, err
		}
		t += dt
		frames = append(frames, Frame{Tick: tick + 1, Time: t, Points: sim.Positions()})
	}
	return frames, nil
}

// Compare walks both runs in order and returns the tick of the first frame
// whose time or any coordinate differs by more than tol. A zero tol demands
// identical bits. Runs of different length diverge at the first unmatched
// frame.
func Compare(a, b []Frame, tol float64) (tick int, diverged bool) {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if !sameFrame(a[i], b[i], tol) {
			return a[i].Tick, true
		}
	}
	switch {
	case len(a) > n:
		return a[n].Tick, true
	case len(b) > n:
		return b[n].Tick, true
	}
	return 0, false
}

func sameFrame(a, b Frame, tol float64) bool {
	if a.Tick != b.Tick || len(a.Points) != len(b.Points) || !within(a.Time, b.Time, tol) {
		return false
	}
	for i := range a.Points {
		if !within(a.Points[i].X, b.Points[i].X, tol) || !within(a.Points[i].Y, b.Points[i].Y, tol) {
			return false
		}
	}
	return true
}

func within(a, b, tol float64) bool {
	if tol <= 0 {
		return math.Float64bits(a) == math.Float64bits(b)
	}
	return math.Abs(a-b) <= tol
}
