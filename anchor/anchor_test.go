package anchor

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedSource(t *testing.T) {
	src := Fixed{X: 1, Y: -2}
	for tick := 0; tick < 3; tick++ {
		got, err := src.Anchor(tick, float64(tick)*0.02)
		require.NoError(t, err)
		assert.Equal(t, cp.Vector{X: 1, Y: -2}, got)
	}
}

func TestCompileScript(t *testing.T) {
	cases := []struct {
		name string
		src  string
		ok   bool
	}{
		{"linear", "x := t * 2\ny := tick", true},
		{"missing_y", "x := 1", false},
		{"syntax", "x := (", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := CompileScript(c.name, []byte(c.src))
			if !c.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, err := s.Anchor(3, 1.5)
			require.NoError(t, err)
			assert.Equal(t, cp.Vector{X: 3, Y: 3}, got)
		})
	}
}

func TestScriptRejectsNonNumericOutput(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"string_x", "x := \"a\"\ny := 1"},
		{"map_y", "x := 1.5\ny := {}"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := CompileScript(c.name, []byte(c.src))
			require.NoError(t, err)
			_, err = s.Anchor(0, 0)
			require.ErrorIs(t, err, ErrNoOutput)
		})
	}
}

func TestOrbitScript(t *testing.T) {
	s, err := LoadScript("orbit")
	require.NoError(t, err)
	assert.Equal(t, "orbit", s.Name())

	for _, tm := range []float64{0, 0.5, 2.25} {
		got, err := s.Anchor(0, tm)
		require.NoError(t, err)
		assert.InDelta(t, 1.5, math.Hypot(got.X-0, got.Y-3), 1e-9)
	}
}

func TestFromSpec(t *testing.T) {
	spec := &prefabs.RopeSpec{Anchor: prefabs.AnchorSpec{X: 4, Y: 5}}

	src, err := FromSpec(spec, "")
	require.NoError(t, err)
	assert.Equal(t, Fixed{X: 4, Y: 5}, src)

	src, err = FromSpec(spec, "sway")
	require.NoError(t, err)
	_, ok := src.(*Script)
	assert.True(t, ok)

	_, err = FromSpec(spec, "does-not-exist")
	require.Error(t, err)

	src, err = FromSpec(nil, "")
	require.NoError(t, err)
	assert.Equal(t, Fixed{}, src)
}
