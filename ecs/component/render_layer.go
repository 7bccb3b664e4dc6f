package component

// RenderLayer orders drawing. Lower indices draw first; ties keep entity
// order.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
