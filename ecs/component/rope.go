package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/rope"
)

// RopeBody owns a rope simulator and the bookkeeping needed to step it on a
// fixed clock and blend frames for rendering.
type RopeBody struct {
	Sim    *rope.Simulator
	Clock  *rope.Clock
	Anchor cp.Vector

	Tick int
	Time float64

	// Prev and Curr are the positions before and after the latest step.
	Prev  []cp.Vector
	Curr  []cp.Vector
	Alpha float64
}

var RopeBodyComponent = NewComponent[RopeBody]()
