package rope

// Clock turns variable frame times into a whole number of fixed physics
// steps. The leftover fraction is returned as alpha so renderers can blend
// the previous and current positions.
type Clock struct {
	Step     float64
	MaxSteps int

	acc float64
}

// NewClock returns a clock ticking every step seconds. maxSteps caps how many
// steps a single Advance may return; zero means no cap.
func NewClock(step float64, maxSteps int) *Clock {
	return &Clock{Step: step, MaxSteps: maxSteps}
}

// Advance adds elapsed seconds and reports how many steps are due.
func (c *Clock) Advance(elapsed float64) (steps int, alpha float64) {
	if c == nil || c.Step <= 0 {
		return 0, 0
	}
	if elapsed > 0 {
		c.acc += elapsed
	}
	for c.acc >= c.Step {
		if c.MaxSteps > 0 && steps >= c.MaxSteps {
			// drop the backlog instead of spiralling
			c.acc = 0
			break
		}
		c.acc -= c.Step
		steps++
	}
	return steps, c.acc / c.Step
}

func (c *Clock) Reset() {
	if c == nil {
		return
	}
	c.acc = 0
}
