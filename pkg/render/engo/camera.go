// pkg/render/engo/camera.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-magball/pkg/physics"
)

// fitMargin is the fraction of the window the table fills after Fit.
const fitMargin = 0.95

// CameraSystem maps table coordinates to window pixels. The table is
// centred on the window and scaled by zoom.
type CameraSystem struct {
	center physics.Vector2D
	width  float64
	height float64

	zoom    float64
	fitZoom float64
	minZoom float64
	maxZoom float64
}

// NewCameraSystem creates a camera for a window of the given size.
func NewCameraSystem(width, height float64) *CameraSystem {
	return &CameraSystem{
		center:  physics.Vector2D{X: width / 2, Y: height / 2},
		width:   width,
		height:  height,
		zoom:    1,
		fitZoom: 1,
		minZoom: 0.25,
		maxZoom: 4,
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update applies mouse-wheel zoom and the reset key.
func (cs *CameraSystem) Update(dt float32) {
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1 + float64(scrollY)*0.1))
	}
	if engo.Input.Button(ButtonResetZoom).JustPressed() {
		cs.SetZoom(cs.fitZoom)
	}
}

// Fit centres bounds on the window and picks the zoom that shows all of it.
func (cs *CameraSystem) Fit(bounds physics.Rect) {
	cs.center = bounds.Center
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	zoom := math.Min(cs.width/bounds.Width, cs.height/bounds.Height) * fitMargin
	cs.fitZoom = cs.clampZoom(zoom)
	cs.zoom = cs.fitZoom
}

// SetZoom sets the zoom, clamped to the camera limits.
func (cs *CameraSystem) SetZoom(zoom float64) {
	cs.zoom = cs.clampZoom(zoom)
}

// Zoom returns the current zoom.
func (cs *CameraSystem) Zoom() float64 { return cs.zoom }

// Center returns the table point shown at the middle of the window.
func (cs *CameraSystem) Center() physics.Vector2D { return cs.center }

func (cs *CameraSystem) clampZoom(zoom float64) float64 {
	return math.Min(cs.maxZoom, math.Max(cs.minZoom, zoom))
}

// WorldToScreen converts table coordinates to window pixels.
func (cs *CameraSystem) WorldToScreen(p physics.Vector2D) engo.Point {
	return engo.Point{
		X: float32((p.X-cs.center.X)*cs.zoom + cs.width/2),
		Y: float32((p.Y-cs.center.Y)*cs.zoom + cs.height/2),
	}
}

// ScreenToWorld converts window pixels to table coordinates.
func (cs *CameraSystem) ScreenToWorld(p engo.Point) physics.Vector2D {
	return physics.Vector2D{
		X: (float64(p.X)-cs.width/2)/cs.zoom + cs.center.X,
		Y: (float64(p.Y)-cs.height/2)/cs.zoom + cs.center.Y,
	}
}
