package system

import (
	"math"

	"github.com/milk9111/ropesim/ecs"
	"github.com/milk9111/ropesim/ecs/component"
)

// AnchorSystem moves pointer-driven rope anchors toward the cursor. Scripted
// anchors are evaluated per physics step by the RopeSystem instead.
type AnchorSystem struct {
	camEntity ecs.Entity
}

func NewAnchorSystem() *AnchorSystem { return &AnchorSystem{} }

func (s *AnchorSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	if !w.IsAlive(s.camEntity) {
		if camEntity, ok := w.First(component.CameraComponent.Kind()); ok {
			s.camEntity = camEntity
		}
	}
	cam, hasCam := ecs.Get(w, s.camEntity, component.CameraComponent)
	center, _ := ecs.Get(w, s.camEntity, component.TransformComponent)

	entities := w.Query(component.AnchorComponent.Kind(), component.RopeBodyComponent.Kind())
	for _, e := range entities {
		a, ok := ecs.Get(w, e, component.AnchorComponent)
		if !ok || a.Source != nil {
			continue
		}
		body, ok := ecs.Get(w, e, component.RopeBodyComponent)
		if !ok {
			continue
		}

		if a.FollowInput && hasCam {
			if in, ok := ecs.Get(w, e, component.InputComponent); ok && in.HasCursor {
				target := cam.ScreenToWorld(center, in.CursorX, in.CursorY)
				a.TargetX = target.X
				a.TargetY = target.Y
				if err := ecs.Add(w, e, component.AnchorComponent, a); err != nil {
					panic("anchor system: update anchor: " + err.Error())
				}
			}
		}

		dx := a.TargetX - body.Anchor.X
		dy := a.TargetY - body.Anchor.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			continue
		}

		step := a.Speed * dt
		if a.Speed <= 0 || dist <= step {
			body.Anchor.X = a.TargetX
			body.Anchor.Y = a.TargetY
		} else {
			body.Anchor.X += dx / dist * step
			body.Anchor.Y += dy / dist * step
		}
		if err := ecs.Add(w, e, component.RopeBodyComponent, body); err != nil {
			panic("anchor system: update rope body: " + err.Error())
		}
	}
}
