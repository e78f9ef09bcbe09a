// pkg/physics/ball.go
package physics

import "errors"

// ErrNonPositiveRadius is returned when a ball is created with radius <= 0.
var ErrNonPositiveRadius = errors.New("ball radius must be positive")

// Ball is the charged ball rolling on the table.
//
// PrevPos and PrevVel hold the state from before the most recent Update.
// Collision resolution rewrites Pos and Vel but leaves the snapshot alone,
// so the chord PrevPos→Pos always describes the last integration step.
type Ball struct {
	Radius  float64
	Pos     Vector2D
	Vel     Vector2D
	PrevPos Vector2D
	PrevVel Vector2D
}

// NewBall creates a ball at rest at pos.
func NewBall(radius float64, pos Vector2D) (*Ball, error) {
	if !(radius > 0) {
		return nil, ErrNonPositiveRadius
	}
	return &Ball{
		Radius:  radius,
		Pos:     pos,
		PrevPos: pos,
	}, nil
}

// Update advances the ball by dt under a uniform field perpendicular to the
// table and a constant rolling friction. Obstacles are ignored here.
//
// The position takes an explicit Euler step with the old velocity. The
// velocity is then turned by the magnetic force, rescaled to its old speed
// and finally slowed by friction*dt, stopping at exactly zero.
func (b *Ball) Update(field, friction, dt float64) {
	b.PrevPos = b.Pos
	b.PrevVel = b.Vel

	if dt == 0 {
		return
	}

	b.Pos = b.Pos.Add(b.Vel.Scale(dt))

	speed := b.Vel.Length()
	if speed == 0 {
		return
	}

	turned := b.Vel.Add(b.Vel.CrossZ(field).Scale(dt))
	turned = turned.Normalize().Scale(speed)

	next := speed - friction*dt
	if next <= 0 {
		b.Vel = Vector2D{}
		return
	}
	b.Vel = turned.Scale(next / speed)
}

// VelocityMagnitude returns the current speed.
func (b *Ball) VelocityMagnitude() float64 {
	return b.Vel.Length()
}

// AtRest reports whether the speed is below threshold.
func (b *Ball) AtRest(threshold float64) bool {
	return b.VelocityMagnitude() < threshold
}

// Stop zeroes the velocity.
func (b *Ball) Stop() {
	b.Vel = Vector2D{}
}

// Place teleports the ball to pos at rest and resets the snapshot.
func (b *Ball) Place(pos Vector2D) {
	b.Pos, b.PrevPos = pos, pos
	b.Vel, b.PrevVel = Vector2D{}, Vector2D{}
}

// Circle returns the ball's footprint.
func (b *Ball) Circle() Circle {
	return Circle{Center: b.Pos, Radius: b.Radius}
}
