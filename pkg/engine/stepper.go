// pkg/engine/stepper.go
package engine

// maxCatchUp bounds the steps run for one frame so a stalled frontend does
// not freeze while the simulation catches up.
const maxCatchUp = 8

// Stepper converts variable frame times into whole fixed physics steps.
type Stepper struct {
	step        float64
	accumulator float64
}

// NewStepper creates a Stepper for a fixed step of step seconds.
func NewStepper(step float64) *Stepper {
	return &Stepper{step: step}
}

// Advance adds elapsed seconds and returns how many steps are due. Time
// beyond maxCatchUp steps is dropped.
func (s *Stepper) Advance(elapsed float64) int {
	if s.step <= 0 || elapsed <= 0 {
		return 0
	}
	s.accumulator += elapsed
	n := int(s.accumulator / s.step)
	if n > maxCatchUp {
		s.accumulator = 0
		return maxCatchUp
	}
	s.accumulator -= float64(n) * s.step
	return n
}

// Run advances g by elapsed seconds of wall time in fixed steps.
func (s *Stepper) Run(g *Game, elapsed float64) {
	for i := s.Advance(elapsed); i > 0; i-- {
		g.Update(s.step)
	}
}
