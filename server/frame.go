package server

import "github.com/jakecoffman/cp"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame is the wire form of one physics step.
type Frame struct {
	Tick      int     `json:"tick"`
	Time      float64 `json:"time"`
	Points    []Point `json:"points"`
	LineWidth float64 `json:"line_width"`
}

func newFrame(tick int, t float64, positions []cp.Vector, lineWidth float64) Frame {
	f := Frame{Tick: tick, Time: t, LineWidth: lineWidth, Points: make([]Point, len(positions))}
	for i, p := range positions {
		f.Points[i] = Point{X: p.X, Y: p.Y}
	}
	return f
}

// AnchorRequest moves the anchor. It is accepted by POST /anchor and as a
// websocket text message.
type AnchorRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}
