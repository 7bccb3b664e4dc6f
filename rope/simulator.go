package rope

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Simulator integrates a chain of segments with verlet steps and relaxes the
// distance constraints between neighbours. Segment 0 is pinned to the anchor
// supplied on every Step.
//
// A Simulator is not safe for concurrent use.
type Simulator struct {
	cfg      Config
	segments []Segment
	anchor   cp.Vector
}

// NewSimulator returns a simulator whose chain hangs straight down from
// anchor.
func NewSimulator(anchor cp.Vector, cfg Config) (*Simulator, error) {
	s := &Simulator{}
	if err := s.Initialize(anchor, cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize builds the chain. Each segment sits RestLength below the
// previous one with zero velocity.
func (s *Simulator) Initialize(anchor cp.Vector, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg.withDefaults()
	s.segments = make([]Segment, s.cfg.SegmentCount)
	s.seed(anchor)
	return nil
}

// Reset re-seeds the chain at anchor, keeping the current config.
func (s *Simulator) Reset(anchor cp.Vector) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}
	s.seed(anchor)
	return nil
}

func (s *Simulator) seed(anchor cp.Vector) {
	pos := anchor
	for i := range s.segments {
		s.segments[i] = newSegment(pos)
		pos.Y -= s.cfg.RestLength
	}
	s.anchor = anchor
}

// Initialized reports whether the chain has been built.
func (s *Simulator) Initialized() bool {
	return s != nil && len(s.segments) > 0
}

// Step advances the rope by dt seconds with segment 0 held at anchor.
func (s *Simulator) Step(dt float64, anchor cp.Vector) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}

	s.anchor = anchor
	s.integrate(dt)
	for i := 0; i < s.cfg.Iterations; i++ {
		s.applyConstraints()
	}
	return nil
}

func (s *Simulator) integrate(dt float64) {
	gravity := s.cfg.Gravity.Mult(dt)
	for i := 1; i < len(s.segments); i++ {
		seg := &s.segments[i]
		velocity := seg.Velocity()
		seg.PosOld = seg.PosNow
		seg.PosNow = seg.PosNow.Add(velocity).Add(gravity)
	}
}

// applyConstraints runs one relaxation pass. Pairs are walked from the anchor
// outwards and every correction is visible to the next pair.
func (s *Simulator) applyConstraints() {
	s.segments[0].PosNow = s.anchor

	rest := s.cfg.RestLength
	for i := 0; i < len(s.segments)-1; i++ {
		first := &s.segments[i]
		second := &s.segments[i+1]

		delta := first.PosNow.Sub(second.PosNow)
		dist := delta.Length()
		errLen := math.Abs(dist - rest)

		// dir points along the move that shrinks the error. Coincident
		// segments have no direction and are left alone.
		var dir cp.Vector
		if dist > rest {
			dir = delta.Mult(1 / dist)
		} else if dist < rest && dist > 0 {
			dir = delta.Mult(-1 / dist)
		}

		change := dir.Mult(errLen)
		if i == 0 {
			second.PosNow = second.PosNow.Add(change)
			continue
		}
		half := change.Mult(0.5)
		first.PosNow = first.PosNow.Sub(half)
		second.PosNow = second.PosNow.Add(half)
	}
}

// Positions returns a copy of the current segment positions in chain order.
// It returns nil before Initialize.
func (s *Simulator) Positions() []cp.Vector {
	if !s.Initialized() {
		return nil
	}
	return s.AppendPositions(make([]cp.Vector, 0, len(s.segments)))
}

// AppendPositions appends the current positions to dst and returns it.
func (s *Simulator) AppendPositions(dst []cp.Vector) []cp.Vector {
	if s == nil {
		return dst
	}
	for _, seg := range s.segments {
		dst = append(dst, seg.PosNow)
	}
	return dst
}

// Segments returns a copy of the chain.
func (s *Simulator) Segments() []Segment {
	if !s.Initialized() {
		return nil
	}
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

func (s *Simulator) Len() int {
	if s == nil {
		return 0
	}
	return len(s.segments)
}

func (s *Simulator) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.cfg
}

// Anchor returns the anchor used by the last Step or seed.
func (s *Simulator) Anchor() cp.Vector {
	if s == nil {
		return cp.Vector{}
	}
	return s.anchor
}
