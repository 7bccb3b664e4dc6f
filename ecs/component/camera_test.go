package component

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestCameraRoundTrip(t *testing.T) {
	cam := Camera{PixelsPerUnit: 80, ScreenWidth: 1280, ScreenHeight: 720}
	center := Transform{X: 1, Y: 2}

	x, y := cam.WorldToScreen(center, cp.Vector{X: 1, Y: 2})
	assert.Equal(t, 640.0, x)
	assert.Equal(t, 360.0, y)

	// one unit up in the world is 80 pixels up the screen
	x, y = cam.WorldToScreen(center, cp.Vector{X: 2, Y: 3})
	assert.Equal(t, 720.0, x)
	assert.Equal(t, 280.0, y)

	assert.Equal(t, cp.Vector{X: 2, Y: 3}, cam.ScreenToWorld(center, 720, 280))
}

func TestCameraZeroScale(t *testing.T) {
	cam := Camera{ScreenWidth: 10, ScreenHeight: 10}
	x, y := cam.WorldToScreen(Transform{}, cp.Vector{X: 1, Y: 1})
	assert.Equal(t, 6.0, x)
	assert.Equal(t, 4.0, y)
}
