package component

import "github.com/jakecoffman/cp"

// Camera maps world units (y up) to screen pixels (y down). The camera
// entity's Transform is the world point shown at the screen center.
type Camera struct {
	PixelsPerUnit float64
	ScreenWidth   float64
	ScreenHeight  float64
}

var CameraComponent = NewComponent[Camera]()

func (c Camera) scale() float64 {
	if c.PixelsPerUnit <= 0 {
		return 1
	}
	return c.PixelsPerUnit
}

func (c Camera) WorldToScreen(center Transform, p cp.Vector) (float64, float64) {
	s := c.scale()
	return (p.X-center.X)*s + c.ScreenWidth/2, c.ScreenHeight/2 - (p.Y-center.Y)*s
}

func (c Camera) ScreenToWorld(center Transform, x, y float64) cp.Vector {
	s := c.scale()
	return cp.Vector{
		X: center.X + (x-c.ScreenWidth/2)/s,
		Y: center.Y - (y-c.ScreenHeight/2)/s,
	}
}
