package component

// Input stores per-frame input state for an entity. Cursor coordinates are in
// screen pixels.
type Input struct {
	CursorX   float64
	CursorY   float64
	HasCursor bool
}

var InputComponent = NewComponent[Input]()
