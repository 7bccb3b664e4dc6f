package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/rope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func ptr[T any](v T) *T { return &v }

func useDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
	return dir
}

func TestLoadEmbeddedRopeSpec(t *testing.T) {
	useDir(t)

	spec, err := LoadRopeSpec("")
	require.NoError(t, err)
	assert.Equal(t, "rope", spec.Name)

	cfg, err := spec.Config()
	require.NoError(t, err)
	assert.Equal(t, rope.DefaultConfig(), cfg)
	assert.Equal(t, cp.Vector{X: 0, Y: 3}, spec.Anchor.Vector())
}

func TestLoadChainSpecWithScript(t *testing.T) {
	useDir(t)

	spec, err := LoadRopeSpec("prefabs/chain.yaml")
	require.NoError(t, err)
	assert.Equal(t, "orbit", spec.Anchor.Script)
	assert.Equal(t, color.RGBA{R: 0xda, G: 0xa5, B: 0x20, A: 0xff}, spec.RGBA())

	cfg, err := spec.Config()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.SegmentCount)
	assert.Equal(t, rope.DefaultIterations, cfg.Iterations)
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := useDir(t)
	data := []byte("name: short\nsegment_count: 5\nrest_length: 1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rope.yaml"), data, 0o644))

	spec, err := LoadRopeSpec("rope.yaml")
	require.NoError(t, err)
	cfg, err := spec.Config()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.SegmentCount)
	assert.Equal(t, 1.0, cfg.RestLength)
	assert.Equal(t, rope.DefaultGravity, cfg.Gravity)
}

func TestRopeSpecConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		spec RopeSpec
	}{
		{"one_segment", RopeSpec{Name: "a", SegmentCount: ptr(1)}},
		{"zero_segments", RopeSpec{Name: "a", SegmentCount: ptr(0)}},
		{"negative_rest", RopeSpec{Name: "b", RestLength: ptr(-1.0)}},
		{"zero_rest", RopeSpec{Name: "b", RestLength: ptr(0.0)}},
		{"negative_iterations", RopeSpec{Name: "c", Iterations: -3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.spec.Config()
			require.ErrorIs(t, err, rope.ErrInvalidConfig)
		})
	}
}

func TestExplicitZeroLengthsAreRejected(t *testing.T) {
	dir := useDir(t)
	cases := []struct {
		name string
		yaml string
	}{
		{"segment_count", "name: z\nsegment_count: 0\n"},
		{"rest_length", "name: z\nrest_length: 0\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(filepath.Join(dir, "zero.yaml"), []byte(c.yaml), 0o644))
			spec, err := LoadRopeSpec("zero.yaml")
			require.NoError(t, err)
			_, err = spec.Config()
			require.ErrorIs(t, err, rope.ErrInvalidConfig)
		})
	}
}

func TestMissingSpec(t *testing.T) {
	useDir(t)
	_, err := LoadRopeSpec("nope.yaml")
	require.Error(t, err)
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{`"#ff0000"`, color.NRGBA{R: 0xff, A: 0xff}, true},
		{`"#00ff0080"`, color.NRGBA{G: 0xff, A: 0x80}, true},
		{`red`, color.RGBA{R: 0xff, A: 0xff}, true},
		{`"#abc"`, nil, false},
		{`"#zzzzzz"`, nil, false},
		{`[1, 2]`, nil, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if !c.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got.Color)
		})
	}
}

func TestLoadScript(t *testing.T) {
	useDir(t)

	for _, name := range []string{"orbit", "orbit.tengo", "scripts/orbit.tengo", "prefabs/scripts/orbit"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "radius")
	}
}

func TestExplicitZeroGravity(t *testing.T) {
	var spec RopeSpec
	require.NoError(t, yaml.Unmarshal([]byte("name: float\ngravity: {x: 0, y: 0}\n"), &spec))

	cfg, err := spec.Config()
	require.NoError(t, err)
	assert.Equal(t, cp.Vector{}, cfg.Gravity)
}
