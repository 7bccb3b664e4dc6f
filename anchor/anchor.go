// Package anchor provides anchor positions for drivers that have no pointer:
// a fixed point, or a tengo script evaluated every tick.
package anchor

import (
	"errors"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/prefabs"
)

var ErrNoOutput = errors.New("anchor: script did not define numeric x and y")

// Source yields the anchor for a physics tick. t is the simulated time in
// seconds at that tick.
type Source interface {
	Anchor(tick int, t float64) (cp.Vector, error)
}

// Fixed always returns the same point.
type Fixed cp.Vector

func (f Fixed) Anchor(int, float64) (cp.Vector, error) {
	return cp.Vector(f), nil
}

// FromSpec returns the prefab's script source, or a Fixed source at the
// prefab's anchor when no script is named. A non-empty override replaces the
// prefab's script name.
func FromSpec(spec *prefabs.RopeSpec, override string) (Source, error) {
	if spec == nil {
		spec = &prefabs.RopeSpec{}
	}
	name := spec.Anchor.Script
	if override != "" {
		name = override
	}
	if name == "" {
		return Fixed(spec.Anchor.Vector()), nil
	}
	return LoadScript(name)
}
