package render

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/ropesim/ecs"
	"github.com/milk9111/ropesim/ecs/component"
	"golang.org/x/image/colornames"
)

// minStroke keeps thin ropes visible when zoomed out.
const minStroke = 1.0

type RenderSystem struct {
	camEntity ecs.Entity
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if !w.IsAlive(r.camEntity) {
		if camEntity, ok := w.First(component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}

	cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent)
	if !ok {
		return
	}
	center, _ := ecs.Get(w, r.camEntity, component.TransformComponent)

	entities := w.Query(component.LineRenderComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li := 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent); ok {
			li = layer.Index
		}
		lj := 0
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		line, ok := ecs.Get(w, e, component.LineRenderComponent)
		if !ok || len(line.Points) < 2 {
			continue
		}

		var clr color.Color = colornames.White
		if line.Color != nil {
			clr = line.Color
		}
		width := float32(line.Width * cam.PixelsPerUnit)
		if width < minStroke {
			width = minStroke
		}

		x0, y0 := cam.WorldToScreen(center, line.Points[0])
		for _, p := range line.Points[1:] {
			x1, y1 := cam.WorldToScreen(center, p)
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, clr, line.AntiAlias)
			x0, y0 = x1, y1
		}
	}
}
