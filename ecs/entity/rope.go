package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ropesim/anchor"
	"github.com/milk9111/ropesim/ecs"
	"github.com/milk9111/ropesim/ecs/component"
	"github.com/milk9111/ropesim/prefabs"
	"github.com/milk9111/ropesim/rope"
)

// RopeOptions tune how a rope prefab is turned into an entity.
type RopeOptions struct {
	// Source drives the anchor; nil makes the rope follow the cursor.
	Source anchor.Source
	// TickRate is the number of physics steps per second.
	TickRate int
	// MaxSteps caps steps per frame; zero means no cap.
	MaxSteps    int
	AnchorSpeed float64
	Layer       int
}

// BuildRope creates a rope entity hanging from the prefab's anchor, or from
// the source's first position when one is given.
func BuildRope(w *ecs.World, spec *prefabs.RopeSpec, opts RopeOptions) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("entity: nil world")
	}
	cfg, err := spec.Config()
	if err != nil {
		return 0, err
	}
	if opts.TickRate <= 0 {
		return 0, fmt.Errorf("entity: tick rate %d must be positive", opts.TickRate)
	}

	start := spec.Anchor.Vector()
	if opts.Source != nil {
		if pos, err := opts.Source.Anchor(0, 0); err == nil {
			start = pos
		}
	}

	sim, err := rope.NewSimulator(start, cfg)
	if err != nil {
		return 0, err
	}

	e := w.CreateEntity()
	curr := sim.Positions()
	body := component.RopeBody{
		Sim:    sim,
		Clock:  rope.NewClock(1/float64(opts.TickRate), opts.MaxSteps),
		Anchor: start,
		Curr:   curr,
		Prev:   append([]cp.Vector(nil), curr...),
	}

	add := func(err error) error {
		if err != nil {
			w.DestroyEntity(e)
		}
		return err
	}
	if err := add(ecs.Add(w, e, component.RopeTagComponent, component.RopeTag{})); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.RopeBodyComponent, body)); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.TransformComponent, component.Transform{X: start.X, Y: start.Y})); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.AnchorComponent, component.Anchor{
		Source:      opts.Source,
		FollowInput: opts.Source == nil,
		Speed:       opts.AnchorSpeed,
		TargetX:     start.X,
		TargetY:     start.Y,
	})); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.InputComponent, component.Input{})); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.LineRenderComponent, component.LineRender{
		Points:    append([]cp.Vector(nil), curr...),
		Width:     cfg.LineWidth,
		Color:     spec.RGBA(),
		AntiAlias: spec.AntiAlias,
	})); err != nil {
		return 0, err
	}
	if err := add(ecs.Add(w, e, component.RenderLayerComponent, component.RenderLayer{Index: opts.Layer})); err != nil {
		return 0, err
	}
	return e, nil
}
