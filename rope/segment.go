package rope

import "github.com/jakecoffman/cp"

// Segment is a single point mass of the chain. Velocity is never stored;
// it is the difference between the current and previous positions.
type Segment struct {
	PosNow cp.Vector
	PosOld cp.Vector
}

func newSegment(pos cp.Vector) Segment {
	return Segment{PosNow: pos, PosOld: pos}
}

// Velocity returns the displacement covered during the last step.
func (s Segment) Velocity() cp.Vector {
	return s.PosNow.Sub(s.PosOld)
}
