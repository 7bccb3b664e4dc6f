package rope

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

const (
	DefaultSegmentCount = 35
	DefaultRestLength   = 0.25
	DefaultIterations   = 50
	DefaultLineWidth    = 0.1
)

// DefaultGravity pulls the rope down in a y-up world.
var DefaultGravity = cp.Vector{X: 0, Y: -1.5}

// Config is fixed once a simulator has been initialized with it.
type Config struct {
	SegmentCount int
	RestLength   float64
	Gravity      cp.Vector
	// Iterations is the number of relaxation passes per Step. Zero selects
	// DefaultIterations.
	Iterations int
	// LineWidth is only carried for renderers; the solver ignores it.
	LineWidth float64
}

func DefaultConfig() Config {
	return Config{
		SegmentCount: DefaultSegmentCount,
		RestLength:   DefaultRestLength,
		Gravity:      DefaultGravity,
		Iterations:   DefaultIterations,
		LineWidth:    DefaultLineWidth,
	}
}

// Validate reports why cfg cannot build a chain, wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	if c.SegmentCount < 2 {
		return fmt.Errorf("%w: segment count %d, need at least 2", ErrInvalidConfig, c.SegmentCount)
	}
	// written this way so NaN is rejected too
	if !(c.RestLength > 0) {
		return fmt.Errorf("%w: rest length %v must be positive", ErrInvalidConfig, c.RestLength)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations %d must not be negative", ErrInvalidConfig, c.Iterations)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	return c
}
