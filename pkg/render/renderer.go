// pkg/render/renderer.go
package render

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/opd-ai/go-magball/pkg/engine"
	"github.com/opd-ai/go-magball/pkg/logging"
	"github.com/opd-ai/go-magball/pkg/physics"
)

// Renderer draws one frame of a table.
type Renderer interface {
	Clear()
	Present()
	RenderBall(ball BallView)
	RenderObstacle(obstacle ObstacleView)
	RenderPocket(pocket PocketView)
}

// Renderable is anything that knows which Renderer call draws it.
type Renderable interface {
	Render(r Renderer)
}

// BallView adapts a ball for drawing.
type BallView struct {
	Pos    physics.Vector2D
	Vel    physics.Vector2D
	Radius float64
}

// Render implements Renderable.
func (v BallView) Render(r Renderer) { r.RenderBall(v) }

// ObstacleView adapts an obstacle for drawing.
type ObstacleView struct {
	Vertices []physics.Vector2D
	Boundary bool
}

// Render implements Renderable.
func (v ObstacleView) Render(r Renderer) { r.RenderObstacle(v) }

// PocketView adapts the pocket for drawing.
type PocketView struct {
	Center physics.Vector2D
	Radius float64
}

// Render implements Renderable.
func (v PocketView) Render(r Renderer) { r.RenderPocket(v) }

// Scene lists the renderables of a game in drawing order: obstacles, then
// the pocket, then the ball.
func Scene(g *engine.Game) []Renderable {
	state := g.GetGameState()

	items := make([]Renderable, 0, len(g.Obstacles)+2)
	for i, o := range g.Obstacles {
		items = append(items, ObstacleView{Vertices: o.Vertices(), Boundary: i == 0})
	}
	items = append(items,
		PocketView{Center: state.Pocket.Center, Radius: state.Pocket.Radius},
		BallView{Pos: state.BallPos, Vel: state.BallVel, Radius: state.BallRadius},
	)
	return items
}

// Draw renders a full frame.
func Draw(r Renderer, items []Renderable) {
	r.Clear()
	for _, item := range items {
		item.Render(r)
	}
	r.Present()
}

// StatusLine formats the HUD text for a game state, including a gauge of
// the field strength centred on zero.
func StatusLine(state *engine.GameState, width int) string {
	const half = 5
	pos := int(math.Round(state.FieldRatio * half))

	var gauge strings.Builder
	gauge.WriteByte('[')
	for i := -half; i <= half; i++ {
		switch {
		case i == 0:
			gauge.WriteByte('|')
		case (pos > 0 && i > 0 && i <= pos) || (pos < 0 && i < 0 && i >= pos):
			gauge.WriteByte('=')
		default:
			gauge.WriteByte(' ')
		}
	}
	gauge.WriteByte(']')

	line := fmt.Sprintf("%-7s shots %d  field %+.2f %s  t %.1fs",
		state.Status, state.Shots, state.Field, gauge.String(), state.ElapsedTime)
	if width > 0 && len(line) > width {
		line = line[:width]
	}
	return line
}

// NullRenderer logs every call instead of drawing.
type NullRenderer struct {
	logger *logging.Logger
	ctx    context.Context
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{logger: logger, ctx: context.Background()}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(d.ctx, "Clear called")
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.logger.Debug(d.ctx, "Present called")
}

// RenderBall implements Renderer.
func (d *NullRenderer) RenderBall(ball BallView) {
	d.logger.Debug(d.ctx, "RenderBall called",
		"x", ball.Pos.X,
		"y", ball.Pos.Y,
		"speed", ball.Vel.Length(),
	)
}

// RenderObstacle implements Renderer.
func (d *NullRenderer) RenderObstacle(obstacle ObstacleView) {
	d.logger.Debug(d.ctx, "RenderObstacle called",
		"vertices", len(obstacle.Vertices),
		"boundary", obstacle.Boundary,
	)
}

// RenderPocket implements Renderer.
func (d *NullRenderer) RenderPocket(pocket PocketView) {
	d.logger.Debug(d.ctx, "RenderPocket called",
		"x", pocket.Center.X,
		"y", pocket.Center.Y,
		"radius", pocket.Radius,
	)
}
