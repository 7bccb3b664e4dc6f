package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/rope"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const DefaultRopeSpec = "rope.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// RopeSpec is the yaml form of a rope prefab.
type RopeSpec struct {
	Name         string      `yaml:"name"`
	SegmentCount *int        `yaml:"segment_count"`
	RestLength   *float64    `yaml:"rest_length"`
	Gravity      *VectorSpec `yaml:"gravity"`
	Iterations   int         `yaml:"iterations"`
	LineWidth    float64     `yaml:"line_width"`
	Color        *YAMLColor  `yaml:"color"`
	AntiAlias    bool        `yaml:"anti_alias"`
	Anchor       AnchorSpec  `yaml:"anchor"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) Vector() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// AnchorSpec places the anchor when no pointer drives it. Script names a
// tengo file under scripts/.
type AnchorSpec struct {
	Script string  `yaml:"script"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

func (a AnchorSpec) Vector() cp.Vector {
	return cp.Vector{X: a.X, Y: a.Y}
}

func LoadRopeSpec(name string) (*RopeSpec, error) {
	if name == "" {
		name = DefaultRopeSpec
	}
	spec, err := LoadSpec[RopeSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts the prefab into a validated simulator config. Fields left
// out of the yaml take the rope package defaults. An explicit zero
// segment_count or rest_length is kept and fails validation.
func (s *RopeSpec) Config() (rope.Config, error) {
	cfg := rope.DefaultConfig()
	if s == nil {
		return cfg, nil
	}
	if s.SegmentCount != nil {
		cfg.SegmentCount = *s.SegmentCount
	}
	if s.RestLength != nil {
		cfg.RestLength = *s.RestLength
	}
	// a present gravity block wins even when it is zero
	if s.Gravity != nil {
		cfg.Gravity = s.Gravity.Vector()
	}
	if s.Iterations != 0 {
		cfg.Iterations = s.Iterations
	}
	if s.LineWidth != 0 {
		cfg.LineWidth = s.LineWidth
	}
	if err := cfg.Validate(); err != nil {
		return rope.Config{}, fmt.Errorf("prefabs: rope %q: %w", s.Name, err)
	}
	return cfg, nil
}

// RGBA returns the rope color, white when unset.
func (s *RopeSpec) RGBA() color.RGBA {
	if s == nil || s.Color == nil || s.Color.Color == nil {
		return colornames.White
	}
	r, g, b, a := s.Color.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(strings.TrimSpace(value.Value))]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
