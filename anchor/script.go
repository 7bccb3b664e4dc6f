package anchor

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/prefabs"
)

// Script evaluates a tengo program once per tick. The program sees the
// globals `tick` and `t` and must assign `x` and `y`.
type Script struct {
	name     string
	compiled *tengo.Compiled
}

func LoadScript(name string) (*Script, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("anchor: load script %s: %w", name, err)
	}
	return CompileScript(name, src)
}

func CompileScript(name string, src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	_ = script.Add("tick", 0)
	_ = script.Add("t", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("anchor: compile %s: %w", name, err)
	}
	// globals are only defined after a run
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("anchor: run %s: %w", name, err)
	}
	if !compiled.IsDefined("x") || !compiled.IsDefined("y") {
		return nil, fmt.Errorf("anchor: %s: %w", name, ErrNoOutput)
	}
	return &Script{name: name, compiled: compiled}, nil
}

func (s *Script) Name() string {
	return s.name
}

func (s *Script) Anchor(tick int, t float64) (cp.Vector, error) {
	if err := s.compiled.Set("tick", tick); err != nil {
		return cp.Vector{}, err
	}
	if err := s.compiled.Set("t", t); err != nil {
		return cp.Vector{}, err
	}
	if err := s.compiled.Run(); err != nil {
		return cp.Vector{}, fmt.Errorf("anchor: run %s tick %d: %w", s.name, tick, err)
	}
	x, err := s.number("x", tick)
	if err != nil {
		return cp.Vector{}, err
	}
	y, err := s.number("y", tick)
	if err != nil {
		return cp.Vector{}, err
	}
	return cp.Vector{X: x, Y: y}, nil
}

func (s *Script) number(name string, tick int) (float64, error) {
	v := s.compiled.Get(name)
	switch n := v.Value().(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("anchor: %s tick %d: %s is %s: %w", s.name, tick, name, v.ValueType(), ErrNoOutput)
}
