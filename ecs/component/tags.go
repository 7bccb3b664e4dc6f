package component

type RopeTag struct{}

var RopeTagComponent = NewComponent[RopeTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
