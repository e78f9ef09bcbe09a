// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-magball/pkg/physics"
	"github.com/opd-ai/go-magball/pkg/render"
)

// Draw order, back to front.
const (
	zPocket   = 1
	zObstacle = 2
	zBall     = 3
	zAim      = 4
)

const (
	edgeThickness = 3
	aimThickness  = 2
)

// shape is a drawable entity owned by the renderer.
type shape struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer implements render.Renderer on top of the engo render system.
// Entities are created on first use and reused every frame; edges not drawn
// in a frame are hidden.
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	camera       *CameraSystem
	assets       *AssetManager

	edges     []*shape
	edgesUsed int
	ball      *shape
	pocket    *shape
	aim       *shape
}

// NewEngoRenderer creates a new Engo-based renderer
func NewEngoRenderer(renderSystem *common.RenderSystem, camera *CameraSystem, assets *AssetManager) *EngoRenderer {
	return &EngoRenderer{
		renderSystem: renderSystem,
		camera:       camera,
		assets:       assets,
	}
}

func (r *EngoRenderer) newShape(drawable common.Drawable, c color.Color, z float32) *shape {
	s := &shape{BasicEntity: ecs.NewBasic()}
	s.RenderComponent = common.RenderComponent{Drawable: drawable, Color: c}
	s.RenderComponent.SetZIndex(z)
	r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// Clear implements render.Renderer
func (r *EngoRenderer) Clear() {
	r.edgesUsed = 0
}

// Present implements render.Renderer
func (r *EngoRenderer) Present() {
	// The render system draws every frame; only stale edges need hiding.
	for _, s := range r.edges[r.edgesUsed:] {
		s.Hidden = true
	}
}

// RenderObstacle implements render.Renderer
func (r *EngoRenderer) RenderObstacle(obstacle render.ObstacleView) {
	c := r.assets.Palette().Obstacle
	if obstacle.Boundary {
		c = r.assets.Palette().Boundary
	}

	n := len(obstacle.Vertices)
	for i := range obstacle.Vertices {
		if n == 2 && i == 0 {
			continue
		}
		from := r.camera.WorldToScreen(obstacle.Vertices[(i+n-1)%n])
		to := r.camera.WorldToScreen(obstacle.Vertices[i])

		s := r.nextEdge()
		s.SpaceComponent = edgeSpace(from, to, edgeThickness)
		s.Color = c
		s.Hidden = false
	}
}

func (r *EngoRenderer) nextEdge() *shape {
	if r.edgesUsed == len(r.edges) {
		r.edges = append(r.edges, r.newShape(common.Rectangle{}, color.White, zObstacle))
	}
	s := r.edges[r.edgesUsed]
	r.edgesUsed++
	return s
}

// RenderPocket implements render.Renderer
func (r *EngoRenderer) RenderPocket(pocket render.PocketView) {
	if r.pocket == nil {
		r.pocket = r.newShape(common.Circle{}, r.assets.Palette().Pocket, zPocket)
	}
	center := r.camera.WorldToScreen(pocket.Center)
	r.pocket.SpaceComponent = discSpace(center, float32(pocket.Radius*r.camera.Zoom()))
}

// RenderBall implements render.Renderer
func (r *EngoRenderer) RenderBall(ball render.BallView) {
	if r.ball == nil {
		r.ball = r.newShape(r.assets.BallSprite(), color.White, zBall)
	}
	radius := float32(ball.Radius * r.camera.Zoom())
	center := r.camera.WorldToScreen(ball.Pos)
	r.ball.SpaceComponent = discSpace(center, radius)
	scale := 2 * radius / spriteSize
	r.ball.Scale = engo.Point{X: scale, Y: scale}
}

// RenderAim draws the shot preview from the ball along vel, or hides it.
func (r *EngoRenderer) RenderAim(from physics.Vector2D, vel physics.Vector2D, visible bool) {
	if r.aim == nil {
		r.aim = r.newShape(common.Rectangle{}, r.assets.Palette().Aim, zAim)
	}
	r.aim.Hidden = !visible || vel.IsZero()
	if r.aim.Hidden {
		return
	}
	// One second of travel at the shot speed, scaled down to stay on screen.
	to := from.Add(vel.Scale(0.25))
	r.aim.SpaceComponent = edgeSpace(r.camera.WorldToScreen(from), r.camera.WorldToScreen(to), aimThickness)
}

// edgeSpace returns the space of a thin rectangle lying along from → to.
// engo rotates a rectangle about its top-left corner, so the corner is moved
// half the thickness off the line.
func edgeSpace(from, to engo.Point, thickness float32) common.SpaceComponent {
	dx, dy := float64(to.X-from.X), float64(to.Y-from.Y)
	length := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)

	sin, cos := math.Sincos(angle)
	half := float64(thickness) / 2
	return common.SpaceComponent{
		Position: engo.Point{
			X: from.X + float32(sin*half),
			Y: from.Y - float32(cos*half),
		},
		Width:    float32(length),
		Height:   thickness,
		Rotation: float32(angle * 180 / math.Pi),
	}
}

// discSpace returns the bounding square of a disc.
func discSpace(center engo.Point, radius float32) common.SpaceComponent {
	return common.SpaceComponent{
		Position: engo.Point{X: center.X - radius, Y: center.Y - radius},
		Width:    2 * radius,
		Height:   2 * radius,
	}
}
