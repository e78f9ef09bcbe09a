// pkg/physics/arc.go
package physics

import "math"

// straightTolerance is how close |cos β| must be to 1 for the last step to
// be treated as a straight line.
const straightTolerance = 1e-12

// backtrackSlack is the relative rounding allowance when checking that a
// contact lies within the last step.
const backtrackSlack = 1e-9

// arcContact backtracks the ball along the circular arc it followed during
// the last step until it just touches the line through q with unit normal n
// (pointing to the ball side). It returns the contact point on the line and
// the velocity the ball had there.
//
// The arc passes through PrevPos and Pos and turns by β, the angle between
// the chord and the current velocity, which is how far the field rotated the
// velocity during the step. Its radius follows from the chord length L:
// L = 2R·sin(β/2).
//
// ok is false when the path was straight, the ball never left the line's
// penetration band along the arc, or the touch point lies before PrevPos,
// that is further back than the β the arc turned during the step. Callers
// then fall back to linearContact.
func arcContact(b *Ball, q, n Vector2D) (point, vel Vector2D, ok bool) {
	chord := b.Pos.Sub(b.PrevPos)
	chordLen := chord.Length()
	speed := b.Vel.Length()
	if chordLen == 0 || speed == 0 {
		return Vector2D{}, Vector2D{}, false
	}

	u := b.Vel.Scale(1 / speed)
	c := chord.Scale(1 / chordLen)
	cosBeta := clamp(c.Dot(u), -1, 1)
	if math.Abs(cosBeta) >= 1-straightTolerance {
		return Vector2D{}, Vector2D{}, false
	}

	beta := math.Acos(cosBeta)
	radius := chordLen / (2 * math.Sin(beta/2))

	// sense is +1 for counterclockwise motion.
	sense := 1.0
	if c.Cross(u) < 0 {
		sense = -1
	}

	// The arc tangent at Pos is halfway between chord and velocity.
	tangent := c.Rotate(sense * beta / 2)
	toCenter := Vector2D{X: -tangent.Y, Y: tangent.X}.Scale(sense)
	center := b.Pos.Add(toCenter.Scale(radius))
	w0 := toCenter.Neg()

	k := (b.Radius - center.Sub(q).Dot(n)) / radius
	if k < -1 || k > 1 {
		return Vector2D{}, Vector2D{}, false
	}

	theta0 := math.Atan2(n.Cross(w0), n.Dot(w0))
	a := math.Acos(k)
	alpha := math.Min(wrapAngle(sense*(theta0-a)), wrapAngle(sense*(theta0+a)))
	if alpha > beta*(1+backtrackSlack) {
		return Vector2D{}, Vector2D{}, false
	}

	centerAt := center.Add(w0.Rotate(-sense * alpha).Scale(radius))
	point = centerAt.Sub(n.Scale(b.Radius))
	vel = u.Rotate(-sense * alpha).Scale(speed)
	return point, vel, true
}

// linearContact backtracks the ball along its current velocity until it
// just touches the line through q with unit normal n. ok is false when the
// ball is not moving toward the line, or when the touch point is further
// back than the distance covered in the last step. A grazing hit after
// rounding a corner is the usual case.
func linearContact(b *Ball, q, n Vector2D) (Vector2D, bool) {
	u := b.Vel.Normalize()
	un := u.Dot(n)
	if un >= 0 {
		return Vector2D{}, false
	}
	depth := b.Pos.Sub(q).Dot(n)
	back := (depth - b.Radius) / un
	if back > b.Pos.Distance(b.PrevPos)*(1+backtrackSlack) {
		return Vector2D{}, false
	}
	center := b.Pos.Sub(u.Scale(back))
	return center.Sub(n.Scale(b.Radius)), true
}

// wrapAngle maps a to [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
