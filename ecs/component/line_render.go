package component

import (
	"image/color"

	"github.com/jakecoffman/cp"
)

// LineRender defines a world-space polyline to render.
type LineRender struct {
	Points    []cp.Vector
	Width     float64 // world units
	Color     color.Color
	AntiAlias bool
}

var LineRenderComponent = NewComponent[LineRender]()
