// Package level reads and writes magball table layouts.
//
// A level file holds one directive per line; blank lines and lines starting
// with '#' are skipped:
//
//	ball X Y
//	pocket X Y [R]
//	edge X1 Y1 X2 Y2 ...
//	obstacle X1 Y1 X2 Y2 ...
//
// Repeated edge lines extend the table boundary. Each obstacle line is one
// interior polygon.
package level

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-magball/pkg/physics"
)

// Validation errors.
var (
	ErrNoBall          = errors.New("level has no ball position")
	ErrNoPocket        = errors.New("level has no pocket position")
	ErrNoBoundary      = errors.New("level boundary needs at least 3 vertices")
	ErrBallOutside     = errors.New("ball start is outside the boundary")
	ErrPocketOutside   = errors.New("pocket is outside the boundary")
	ErrBadPocketRadius = errors.New("pocket radius must be positive")
)

// Level is a parsed table layout.
type Level struct {
	Number int

	Ball      physics.Vector2D
	Pocket    physics.Vector2D
	HasBall   bool
	HasPocket bool
	// PocketRadius is zero when the file leaves it to the configured default.
	PocketRadius float64

	Boundary  []physics.Vector2D
	Obstacles [][]physics.Vector2D
}

// Validate checks that the level can be played.
func (l *Level) Validate() error {
	if !l.HasBall {
		return ErrNoBall
	}
	if !l.HasPocket {
		return ErrNoPocket
	}
	if l.PocketRadius < 0 {
		return ErrBadPocketRadius
	}
	if len(l.Boundary) < 3 {
		return ErrNoBoundary
	}

	obstacles, err := l.Polygons()
	if err != nil {
		return err
	}
	if !obstacles[0].Contains(l.Ball) {
		return ErrBallOutside
	}
	if !obstacles[0].Contains(l.Pocket) {
		return ErrPocketOutside
	}
	return nil
}

// Polygons builds one physics obstacle per polygon, boundary first, then
// interior obstacles in file order.
func (l *Level) Polygons(opts ...physics.ObstacleOption) ([]*physics.Obstacle, error) {
	if len(l.Boundary) < 3 {
		return nil, ErrNoBoundary
	}

	boundary, err := physics.NewObstacle(l.Boundary, opts...)
	if err != nil {
		return nil, fmt.Errorf("boundary: %w", err)
	}

	out := make([]*physics.Obstacle, 0, len(l.Obstacles)+1)
	out = append(out, boundary)
	for i, vertices := range l.Obstacles {
		o, err := physics.NewObstacle(vertices, opts...)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i+1, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// PocketCircle returns the pocket as a circle, using defaultRadius when
// the level does not set one.
func (l *Level) PocketCircle(defaultRadius float64) physics.Circle {
	r := l.PocketRadius
	if r == 0 {
		r = defaultRadius
	}
	return physics.Circle{Center: l.Pocket, Radius: r}
}
