package common

import "github.com/jakecoffman/cp"

// LerpVector blends a toward b by t.
func LerpVector(a, b cp.Vector, t float64) cp.Vector {
	return cp.Vector{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
