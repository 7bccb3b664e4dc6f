package component

// ReloadRequest is a marker component used to signal the game loop to rebuild
// the rope from its prefab. Systems may create a short-lived entity with this
// component to request a reload.
type ReloadRequest struct {
	Prefab string
}

var ReloadRequestComponent = NewComponent[ReloadRequest]()

// ResetRequest asks the RopeSystem to re-seed the rope hanging from its
// current anchor. It is removed once handled.
type ResetRequest struct{}

var ResetRequestComponent = NewComponent[ResetRequest]()
