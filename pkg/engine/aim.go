// pkg/engine/aim.go
package engine

import (
	"math"

	"github.com/opd-ai/go-magball/pkg/physics"
)

// Aiming limits shared by the frontends.
const (
	MaxShotSpeed     = 600.0
	DefaultShotSpeed = 200.0
	AimAngleStep     = math.Pi / 90
	AimSpeedStep     = 20.0
	// DragScale converts a mouse drag length in world units into speed.
	DragScale = 3.0
)

// Aim is a shot direction and speed adjusted step by step from the keyboard.
type Aim struct {
	Angle float64
	Speed float64
}

// NewAim returns an aim pointing along +x at the default speed.
func NewAim() Aim {
	return Aim{Speed: DefaultShotSpeed}
}

// Rotate turns the aim by steps increments of AimAngleStep.
func (a *Aim) Rotate(steps int) {
	a.Angle = math.Remainder(a.Angle+float64(steps)*AimAngleStep, 2*math.Pi)
}

// Adjust changes the speed by steps increments of AimSpeedStep, keeping it
// within (0, MaxShotSpeed].
func (a *Aim) Adjust(steps int) {
	a.Speed = math.Min(MaxShotSpeed, math.Max(AimSpeedStep, a.Speed+float64(steps)*AimSpeedStep))
}

// Velocity returns the shot velocity for the current aim.
func (a Aim) Velocity() physics.Vector2D {
	return physics.FromAngle(a.Angle, a.Speed)
}

// DragShot converts a slingshot drag into a shot velocity: the ball leaves
// opposite to the drag, with speed proportional to its length and capped at
// MaxShotSpeed.
func DragShot(from, to physics.Vector2D) physics.Vector2D {
	pull := from.Sub(to)
	speed := pull.Length() * DragScale
	if speed == 0 {
		return physics.Vector2D{}
	}
	if speed > MaxShotSpeed {
		speed = MaxShotSpeed
	}
	return pull.Normalize().Scale(speed)
}
