// pkg/render/terminal.go
package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-magball/pkg/physics"
)

// cellAspect is how many times taller a terminal cell is than it is wide.
const cellAspect = 2

// statusReservedRows is the number of rows kept for the status line.
const statusReservedRows = 1

// Glyphs drawn by the TerminalRenderer.
const (
	GlyphBoundary   = '#'
	GlyphObstacle   = '%'
	GlyphPocket     = '.'
	GlyphPocketCore = '@'
	GlyphBall       = 'o'
	GlyphBallCenter = 'O'
	GlyphAim        = '+'
)

// TerminalRenderer draws the table onto a tcell screen. One cell spans
// scale world units horizontally and cellAspect*scale vertically. The last
// row is reserved for the status line.
type TerminalRenderer struct {
	screen tcell.Screen
	scale  float64
	origin physics.Vector2D
	status string

	boundaryStyle tcell.Style
	obstacleStyle tcell.Style
	pocketStyle   tcell.Style
	ballStyle     tcell.Style
	aimStyle      tcell.Style
	statusStyle   tcell.Style
}

// NewTerminalRenderer creates a renderer on an initialized screen.
func NewTerminalRenderer(screen tcell.Screen, scale float64) *TerminalRenderer {
	if scale <= 0 {
		scale = 1
	}
	return &TerminalRenderer{
		screen:        screen,
		scale:         scale,
		boundaryStyle: tcell.StyleDefault.Foreground(tcell.ColorGreen),
		obstacleStyle: tcell.StyleDefault.Foreground(tcell.ColorOlive),
		pocketStyle:   tcell.StyleDefault.Foreground(tcell.ColorGray),
		ballStyle:     tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
		aimStyle:      tcell.StyleDefault.Foreground(tcell.ColorYellow),
		statusStyle:   tcell.StyleDefault.Reverse(true),
	}
}

// Scale returns the world units per cell column.
func (r *TerminalRenderer) Scale() float64 { return r.scale }

// SetOrigin sets the world point drawn at cell (0, 0).
func (r *TerminalRenderer) SetOrigin(origin physics.Vector2D) {
	r.origin = origin
}

// SetStatus sets the text drawn on the last row by Present.
func (r *TerminalRenderer) SetStatus(status string) {
	r.status = status
}

// Fit picks the scale and origin that show all of bounds on the screen.
func (r *TerminalRenderer) Fit(bounds physics.Rect) {
	w, h := r.screen.Size()
	cols := float64(w - 1)
	rows := float64(h - 1 - statusReservedRows)
	if cols < 1 || rows < 1 {
		return
	}
	r.scale = math.Max(bounds.Width/cols, bounds.Height/(rows*cellAspect))
	if r.scale <= 0 {
		r.scale = 1
	}
	r.origin = bounds.Min()
}

// WorldToCell converts a world position to a screen cell.
func (r *TerminalRenderer) WorldToCell(p physics.Vector2D) (int, int) {
	x := math.Round((p.X - r.origin.X) / r.scale)
	y := math.Round((p.Y - r.origin.Y) / (r.scale * cellAspect))
	return int(x), int(y)
}

// cellCenter converts a screen cell back to the world position at its center.
func (r *TerminalRenderer) cellCenter(x, y int) physics.Vector2D {
	return physics.Vector2D{
		X: r.origin.X + float64(x)*r.scale,
		Y: r.origin.Y + float64(y)*r.scale*cellAspect,
	}
}

func (r *TerminalRenderer) set(x, y int, ch rune, style tcell.Style) {
	w, h := r.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h-statusReservedRows {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

// Clear implements Renderer.
func (r *TerminalRenderer) Clear() {
	r.screen.Clear()
}

// Present implements Renderer.
func (r *TerminalRenderer) Present() {
	w, h := r.screen.Size()
	row := h - 1
	col := 0
	for _, ch := range r.status {
		if col >= w {
			break
		}
		r.screen.SetContent(col, row, ch, nil, r.statusStyle)
		col++
	}
	r.screen.Show()
}

// RenderObstacle implements Renderer.
func (r *TerminalRenderer) RenderObstacle(obstacle ObstacleView) {
	ch, style := GlyphObstacle, r.obstacleStyle
	if obstacle.Boundary {
		ch, style = GlyphBoundary, r.boundaryStyle
	}

	n := len(obstacle.Vertices)
	for i := range obstacle.Vertices {
		from := obstacle.Vertices[(i+n-1)%n]
		to := obstacle.Vertices[i]
		if n == 2 && i == 0 {
			continue
		}
		r.line(from, to, ch, style)
	}
}

// RenderPocket implements Renderer.
func (r *TerminalRenderer) RenderPocket(pocket PocketView) {
	r.disc(pocket.Center, pocket.Radius, GlyphPocket, r.pocketStyle)
	x, y := r.WorldToCell(pocket.Center)
	r.set(x, y, GlyphPocketCore, r.pocketStyle)
}

// RenderBall implements Renderer.
func (r *TerminalRenderer) RenderBall(ball BallView) {
	r.disc(ball.Pos, ball.Radius, GlyphBall, r.ballStyle)
	x, y := r.WorldToCell(ball.Pos)
	r.set(x, y, GlyphBallCenter, r.ballStyle)
}

// RenderAim marks the path along dir from the ball center every two cells,
// up to length world units.
func (r *TerminalRenderer) RenderAim(from, dir physics.Vector2D, length float64) {
	dir = dir.Normalize()
	if dir.IsZero() || length <= 0 {
		return
	}
	spacing := 2 * r.scale
	for d := spacing; d <= length; d += spacing {
		x, y := r.WorldToCell(from.Add(dir.Scale(d)))
		r.set(x, y, GlyphAim, r.aimStyle)
	}
}

// line draws a segment cell by cell, stepping along the longer axis.
func (r *TerminalRenderer) line(from, to physics.Vector2D, ch rune, style tcell.Style) {
	x0, y0 := r.WorldToCell(from)
	x1, y1 := r.WorldToCell(to)
	dx, dy := x1-x0, y1-y0

	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		r.set(x0, y0, ch, style)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(float64(dx)*t))
		y := y0 + int(math.Round(float64(dy)*t))
		r.set(x, y, ch, style)
	}
}

// disc fills every cell whose center lies within radius of center.
func (r *TerminalRenderer) disc(center physics.Vector2D, radius float64, ch rune, style tcell.Style) {
	minX, minY := r.WorldToCell(physics.Vector2D{X: center.X - radius, Y: center.Y - radius})
	maxX, maxY := r.WorldToCell(physics.Vector2D{X: center.X + radius, Y: center.Y + radius})
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if r.cellCenter(x, y).Distance(center) <= radius {
				r.set(x, y, ch, style)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
