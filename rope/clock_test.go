package rope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockAdvance(t *testing.T) {
	cases := []struct {
		name     string
		step     float64
		maxSteps int
		elapsed  []float64
		steps    int
		alpha    float64
	}{
		{"below_step", 0.02, 0, []float64{0.01}, 0, 0.5},
		{"two_and_a_half", 0.02, 0, []float64{0.05}, 2, 0.5},
		{"accumulates", 0.02, 0, []float64{0.015, 0.015}, 1, 0.5},
		{"negative_ignored", 0.02, 0, []float64{-1}, 0, 0},
		{"capped_drops_backlog", 0.02, 3, []float64{1}, 3, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clock := NewClock(c.step, c.maxSteps)
			var steps int
			var alpha float64
			for _, e := range c.elapsed {
				steps, alpha = clock.Advance(e)
			}
			assert.Equal(t, c.steps, steps)
			assert.InDelta(t, c.alpha, alpha, 1e-9)
		})
	}
}

func TestClockReset(t *testing.T) {
	clock := NewClock(0.02, 0)
	clock.Advance(0.019)
	clock.Reset()

	steps, alpha := clock.Advance(0.01)
	assert.Zero(t, steps)
	assert.InDelta(t, 0.5, alpha, 1e-9)

	var nilClock *Clock
	steps, alpha = nilClock.Advance(1)
	assert.Zero(t, steps)
	assert.Zero(t, alpha)
	nilClock.Reset()
}
