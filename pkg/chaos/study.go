// Package chaos runs frictionless multi-ball trials on a table and records
// Poincaré sections of the boundary collisions.
//
// Every boundary hit of ball i adds one Sample: the perimeter coordinate of
// the contact point measured from the first boundary vertex, and the cosine
// of the angle between the outgoing velocity and the edge tangent.
package chaos

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-magball/pkg/config"
	"github.com/opd-ai/go-magball/pkg/event"
	"github.com/opd-ai/go-magball/pkg/logging"
	"github.com/opd-ai/go-magball/pkg/physics"
)

var (
	ErrInvalidBallCount = errors.New("ball count must be at least 1")
	ErrNoBalls          = errors.New("no ball could be seeded")
	ErrNoBoundary       = errors.New("study needs a boundary obstacle")
	ErrZeroAim          = errors.New("aim velocity is zero")
)

// seedAttempts bounds rejection sampling at seedAttempts×ballCount draws.
const seedAttempts = 10

// Sample is one point of a Poincaré section.
type Sample struct {
	Length float64 `msgpack:"l"`
	Angle  float64 `msgpack:"a"`
}

// Study drives a set of independent balls through the same read-only
// obstacles. The boundary is obstacles[0].
type Study struct {
	obstacles []*physics.Obstacle
	radius    float64
	ballCount int
	dCoord    float64
	dAngle    float64
	rng       *rand.Rand

	balls   []*physics.Ball
	samples [][]Sample

	bus    *event.Bus
	logger *logging.Logger
	ctx    context.Context
}

// Option configures a Study.
type Option func(*Study)

// WithEventBus publishes a SampleEvent for every recorded sample.
func WithEventBus(bus *event.Bus) Option {
	return func(s *Study) { s.bus = bus }
}

// WithLogger sets the study logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Study) { s.logger = logger }
}

// NewStudy prepares a study over obstacles using the chaos and physics
// sections of cfg. A nil rng is seeded from cfg.Chaos.Seed.
func NewStudy(obstacles []*physics.Obstacle, cfg *config.Config, rng *rand.Rand, opts ...Option) (*Study, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if len(obstacles) == 0 || obstacles[0] == nil {
		return nil, ErrNoBoundary
	}
	if cfg.Chaos.BallCount < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidBallCount, cfg.Chaos.BallCount)
	}
	if !(cfg.Physics.BallRadius > 0) {
		return nil, physics.ErrNonPositiveRadius
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(cfg.Chaos.Seed, cfg.Chaos.Seed))
	}

	s := &Study{
		obstacles: obstacles,
		radius:    cfg.Physics.BallRadius,
		ballCount: cfg.Chaos.BallCount,
		dCoord:    math.Abs(cfg.Chaos.DCoord),
		dAngle:    math.Abs(cfg.Chaos.DAngle),
		rng:       rng,
		logger:    logging.Discard(),
		ctx:       logging.WithSessionID(context.Background(), ""),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Seed discards the current balls and places up to ballCount new ones
// around start. The first candidate is start itself with velocity aim;
// later ones are jittered by up to dCoord on each axis and turned by up to
// dAngle. Candidates that overlap an obstacle, lie outside the boundary or
// inside an interior obstacle, or repeat an accepted position are
// rejected. Seed returns the number of balls placed.
func (s *Study) Seed(start, aim physics.Vector2D) (int, error) {
	if aim.IsZero() {
		return 0, ErrZeroAim
	}

	s.balls = s.balls[:0]
	s.samples = s.samples[:0]

	attempts := seedAttempts * s.ballCount
	for i := 0; i < attempts && len(s.balls) < s.ballCount; i++ {
		pos, vel := start, aim
		if i > 0 {
			pos = pos.Add(physics.Vec(s.jitter(s.dCoord), s.jitter(s.dCoord)))
			vel = vel.Rotate(s.jitter(s.dAngle))
		}
		if !s.placeable(pos) {
			continue
		}
		s.balls = append(s.balls, &physics.Ball{Radius: s.radius, Pos: pos, PrevPos: pos, Vel: vel, PrevVel: vel})
		s.samples = append(s.samples, nil)
	}

	s.logger.Info(s.ctx, "chaos study seeded",
		"requested", s.ballCount,
		"placed", len(s.balls),
		"attempts", attempts)
	if len(s.balls) == 0 {
		return 0, ErrNoBalls
	}
	if len(s.balls) < s.ballCount {
		s.logger.Warn(s.ctx, "chaos study seeded fewer balls than requested",
			"requested", s.ballCount, "placed", len(s.balls))
	}
	return len(s.balls), nil
}

// jitter draws uniformly from [-bound, bound].
func (s *Study) jitter(bound float64) float64 {
	if bound == 0 {
		return 0
	}
	return (2*s.rng.Float64() - 1) * bound
}

func (s *Study) placeable(pos physics.Vector2D) bool {
	if !s.obstacles[0].Contains(pos) {
		return false
	}
	for i, o := range s.obstacles {
		if i > 0 && o.Contains(pos) {
			return false
		}
		if o.Overlaps(pos, s.radius) {
			return false
		}
	}
	for _, b := range s.balls {
		if b.Pos == pos {
			return false
		}
	}
	return true
}

// Step advances every ball by dt with no friction and collides it against
// all obstacles in order, recording boundary hits.
func (s *Study) Step(field, dt float64) {
	for i := range s.balls {
		s.stepBall(i, field, dt)
	}
}

func (s *Study) stepBall(i int, field, dt float64) {
	b := s.balls[i]
	b.Update(field, 0, dt)

	for j, o := range s.obstacles {
		res := o.Collide(b)
		if j != 0 || !res.Hit || b.Vel.IsZero() {
			continue
		}
		sample := Sample{
			Length: o.PerimeterCoordinate(res.EdgeIndex, res.Point),
			Angle:  b.Vel.Normalize().Dot(o.Tangent(res.EdgeIndex)),
		}
		s.samples[i] = append(s.samples[i], sample)
		s.bus.Publish(event.NewSampleEvent(s, i, sample.Length, sample.Angle))
	}
}

// Run performs steps Steps, spreading the balls over GOMAXPROCS workers.
// Balls share only the read-only obstacles, so each worker owns its balls
// outright. Run stops early with ctx.Err() when ctx is cancelled; every
// ball has then completed the same number of whole steps as the others
// in its worker. SampleEvent handlers may be called concurrently.
func (s *Study) Run(ctx context.Context, field, dt float64, steps int) error {
	if len(s.balls) == 0 {
		return ErrNoBalls
	}

	workers := min(runtime.GOMAXPROCS(0), len(s.balls))
	chunk := (len(s.balls) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(s.balls); lo += chunk {
		hi := min(lo+chunk, len(s.balls))
		g.Go(func() error {
			for step := 0; step < steps; step++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for i := lo; i < hi; i++ {
					s.stepBall(i, field, dt)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn(s.ctx, "chaos study interrupted", "error", err.Error())
		return err
	}
	s.logger.Info(s.ctx, "chaos study finished", "balls", len(s.balls), "steps", steps)
	return nil
}

// Balls returns the live balls, index-aligned with the sample sets.
func (s *Study) Balls() []*physics.Ball {
	return s.balls
}

// Samples returns the section recorded for ball i.
func (s *Study) Samples(i int) []Sample {
	return s.samples[i]
}

// Lengths returns the perimeter coordinates recorded for ball i.
func (s *Study) Lengths(i int) []float64 {
	out := make([]float64, len(s.samples[i]))
	for k, sm := range s.samples[i] {
		out[k] = sm.Length
	}
	return out
}

// Angles returns the angle cosines recorded for ball i.
func (s *Study) Angles(i int) []float64 {
	out := make([]float64, len(s.samples[i]))
	for k, sm := range s.samples[i] {
		out[k] = sm.Angle
	}
	return out
}

// Perimeter returns the boundary length, the upper bound of Sample.Length.
func (s *Study) Perimeter() float64 {
	return s.obstacles[0].Perimeter()
}
