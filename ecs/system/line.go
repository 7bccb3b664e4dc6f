package system

import (
	"github.com/milk9111/ropesim/common"
	"github.com/milk9111/ropesim/ecs"
	"github.com/milk9111/ropesim/ecs/component"
)

// LineSystem copies rope positions into the rope's LineRender, blended
// between the last two physics steps.
type LineSystem struct{}

func NewLineSystem() *LineSystem { return &LineSystem{} }

func (s *LineSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.LineRenderComponent, func(e ecs.Entity, line *component.LineRender) {
		body, ok := ecs.Get(w, e, component.RopeBodyComponent)
		if !ok {
			return
		}
		alpha := common.Clamp(body.Alpha, 0, 1)
		line.Points = line.Points[:0]
		for i, cur := range body.Curr {
			if i < len(body.Prev) {
				cur = common.LerpVector(body.Prev[i], cur, alpha)
			}
			line.Points = append(line.Points, cur)
		}
		if body.Sim != nil && line.Width == 0 {
			line.Width = body.Sim.Config().LineWidth
		}
	})
}
