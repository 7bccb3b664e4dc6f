package system

import (
	"github.com/milk9111/ropesim/ecs"
	"github.com/milk9111/ropesim/ecs/component"
)

// RopeSystem steps every rope on its fixed clock. Frame time is accumulated
// by the body's Clock; the leftover fraction is kept as Alpha for blending.
type RopeSystem struct{}

func NewRopeSystem() *RopeSystem { return &RopeSystem{} }

func (s *RopeSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	for _, e := range w.Query(component.RopeBodyComponent.Kind()) {
		body, ok := ecs.Get(w, e, component.RopeBodyComponent)
		if !ok || body.Sim == nil || body.Clock == nil {
			continue
		}

		if ecs.Has(w, e, component.ResetRequestComponent) {
			s.reset(w, e, &body)
			ecs.Remove(w, e, component.ResetRequestComponent)
		}

		a, hasAnchor := ecs.Get(w, e, component.AnchorComponent)

		steps, alpha := body.Clock.Advance(dt)
		for i := 0; i < steps; i++ {
			if hasAnchor && a.Source != nil {
				pos, err := a.Source.Anchor(body.Tick, body.Time)
				if err != nil {
					w.Events().PushRope(ecs.RopeEvent{Entity: e, Kind: ecs.RopeEventAnchorError, Tick: body.Tick, Err: err})
				} else {
					body.Anchor = pos
				}
			}

			if err := body.Sim.Step(body.Clock.Step, body.Anchor); err != nil {
				w.Events().PushRope(ecs.RopeEvent{Entity: e, Kind: ecs.RopeEventStepError, Tick: body.Tick, Err: err})
				break
			}
			body.Prev, body.Curr = body.Curr, body.Prev
			body.Curr = body.Sim.AppendPositions(body.Curr[:0])
			body.Tick++
			body.Time += body.Clock.Step
		}
		if len(body.Prev) != len(body.Curr) {
			body.Prev = append(body.Prev[:0], body.Curr...)
		}
		body.Alpha = alpha

		if err := ecs.Add(w, e, component.RopeBodyComponent, body); err != nil {
			panic("rope system: update rope body: " + err.Error())
		}
	}
}

func (s *RopeSystem) reset(w *ecs.World, e ecs.Entity, body *component.RopeBody) {
	if err := body.Sim.Reset(body.Anchor); err != nil {
		w.Events().PushRope(ecs.RopeEvent{Entity: e, Kind: ecs.RopeEventStepError, Tick: body.Tick, Err: err})
		return
	}
	body.Clock.Reset()
	body.Curr = body.Sim.AppendPositions(body.Curr[:0])
	body.Prev = append(body.Prev[:0], body.Curr...)
	w.Events().PushRope(ecs.RopeEvent{Entity: e, Kind: ecs.RopeEventReset, Tick: body.Tick})
}
