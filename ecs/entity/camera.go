package entity

import (
	"github.com/milk9111/ropesim/ecs"
	"github.com/milk9111/ropesim/ecs/component"
)

// BuildCamera creates the camera entity centered on (x, y).
func BuildCamera(w *ecs.World, cam component.Camera, x, y float64) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.CameraTagComponent, component.CameraTag{}); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.CameraComponent, cam); err != nil {
		return 0, err
	}
	if err := ecs.Add(w, e, component.TransformComponent, component.Transform{X: x, Y: y}); err != nil {
		return 0, err
	}
	return e, nil
}
