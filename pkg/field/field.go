// Package field holds the strength of the uniform magnetic field applied
// perpendicular to the table. The physics reads Value once per step; the
// mutators are driven by the player.
package field

import (
	"errors"
	"math"
)

// ErrInvalidLimits is returned when the controller limits are inconsistent.
var ErrInvalidLimits = errors.New("field limits must satisfy 0 <= min < max and step > 0")

// Controller is a signed field strength in [-max, max], changed in fixed
// steps and snapped to zero when its magnitude drops below min.
type Controller struct {
	value float64
	max   float64
	step  float64
	min   float64
}

// NewController creates a controller at zero field.
func NewController(max, step, min float64) (*Controller, error) {
	if !(max > 0) || !(step > 0) || min < 0 || min >= max {
		return nil, ErrInvalidLimits
	}
	return &Controller{max: max, step: step, min: min}, nil
}

// Value returns the current field strength.
func (c *Controller) Value() float64 { return c.value }

// Max returns the largest allowed magnitude.
func (c *Controller) Max() float64 { return c.max }

// Fraction returns Value/Max in [-1, 1].
func (c *Controller) Fraction() float64 { return c.value / c.max }

// ChangeValue moves the field one step in the direction of sign(direction)
// and returns the new value. A zero direction changes nothing.
func (c *Controller) ChangeValue(direction int) float64 {
	switch {
	case direction > 0:
		c.Set(c.value + c.step)
	case direction < 0:
		c.Set(c.value - c.step)
	}
	return c.value
}

// ZeroValue switches the field off.
func (c *Controller) ZeroValue() {
	c.value = 0
}

// Set clamps v to [-max, max] and applies the snap-to-zero threshold.
func (c *Controller) Set(v float64) {
	v = math.Max(-c.max, math.Min(c.max, v))
	if math.Abs(v) < c.min {
		v = 0
	}
	c.value = v
}
