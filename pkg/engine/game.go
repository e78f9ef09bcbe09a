// pkg/engine/game.go
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/opd-ai/go-magball/pkg/config"
	"github.com/opd-ai/go-magball/pkg/event"
	"github.com/opd-ai/go-magball/pkg/field"
	"github.com/opd-ai/go-magball/pkg/level"
	"github.com/opd-ai/go-magball/pkg/logging"
	"github.com/opd-ai/go-magball/pkg/physics"
)

// GameStatus is the phase of a session.
type GameStatus int

const (
	// GameStatusAiming means the ball is at rest and accepts a shot.
	GameStatusAiming GameStatus = iota
	// GameStatusRolling means the ball is moving.
	GameStatusRolling
	// GameStatusWon means the ball reached the pocket.
	GameStatusWon
)

func (s GameStatus) String() string {
	switch s {
	case GameStatusAiming:
		return "aiming"
	case GameStatusRolling:
		return "rolling"
	case GameStatusWon:
		return "won"
	default:
		return "unknown"
	}
}

// Errors returned by Shoot.
var (
	ErrBallMoving = errors.New("ball is still moving")
	ErrGameOver   = errors.New("ball is already in the pocket")
	ErrZeroShot   = errors.New("shot velocity is zero")
)

// Game owns one level being played: the ball, the pocket, the ordered
// obstacle list (boundary first) and the field controller.
//
// Events are published while EntityLock is held; handlers must not call
// back into the Game.
type Game struct {
	Config    *config.Config
	Level     *level.Level
	Ball      *physics.Ball
	Pocket    physics.Circle
	Obstacles []*physics.Obstacle
	EventBus  *event.Bus

	Status      GameStatus
	Shots       int
	ElapsedTime float64 // seconds of simulated time since the last reset

	EntityLock sync.RWMutex

	field  *field.Controller
	logger *logging.Logger
	ctx    context.Context
}

// GameState is a copy of the values a renderer or HUD needs.
type GameState struct {
	BallPos     physics.Vector2D
	BallVel     physics.Vector2D
	BallRadius  float64
	Pocket      physics.Circle
	Field       float64
	FieldRatio  float64
	Status      GameStatus
	Shots       int
	ElapsedTime float64
}

// NewGame builds a session for lvl. A nil cfg uses DefaultConfig, a nil bus
// drops events and a nil logger discards output.
func NewGame(lvl *level.Level, cfg *config.Config, bus *event.Bus, logger *logging.Logger) (*Game, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if err := lvl.Validate(); err != nil {
		return nil, logging.WrapError(err, "invalid level %d", lvl.Number)
	}

	obstacles, err := lvl.Polygons(physics.WithRestitution(cfg.Physics.RestPerpendicular, cfg.Physics.RestParallel))
	if err != nil {
		return nil, logging.WrapError(err, "failed to build obstacles")
	}

	ball, err := physics.NewBall(cfg.Physics.BallRadius, lvl.Ball)
	if err != nil {
		return nil, logging.WrapError(err, "failed to create ball")
	}

	ctrl, err := field.NewController(cfg.Field.Max, cfg.Field.Step, cfg.Field.Min)
	if err != nil {
		return nil, logging.WrapError(err, "failed to create field controller")
	}

	g := &Game{
		Config:    cfg,
		Level:     lvl,
		Ball:      ball,
		Pocket:    lvl.PocketCircle(cfg.Pocket.Radius),
		Obstacles: obstacles,
		EventBus:  bus,
		field:     ctrl,
		logger:    logger,
		ctx:       logging.WithSessionID(context.Background(), ""),
	}

	g.logger.Info(g.ctx, "level loaded",
		"level", lvl.Number,
		"obstacles", len(obstacles),
		"perimeter", obstacles[0].Perimeter())
	g.EventBus.Publish(&event.BaseEvent{EventType: event.LevelLoaded, Source: g})
	return g, nil
}

// Context returns the session context carrying the session ID.
func (g *Game) Context() context.Context {
	return g.ctx
}

// Field returns the magnetic field controller.
func (g *Game) Field() *field.Controller {
	return g.field
}

// Shoot gives the resting ball velocity vel.
func (g *Game) Shoot(vel physics.Vector2D) error {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	switch {
	case g.Status == GameStatusWon:
		return ErrGameOver
	case !g.Ball.AtRest(g.Config.Physics.RestThreshold):
		return ErrBallMoving
	case vel.IsZero():
		return ErrZeroShot
	}

	g.Ball.Vel = vel
	g.Shots++
	g.Status = GameStatusRolling

	g.logger.Debug(g.ctx, "ball shot", "shot", g.Shots, "vx", vel.X, "vy", vel.Y)
	g.EventBus.Publish(event.NewShotEvent(g, vel, g.Shots))
	return nil
}

// Update advances the session by dt seconds: integrate the ball, collide it
// against every obstacle in order, stop it once it is slow enough, then
// test the pocket.
func (g *Game) Update(dt float64) {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	if g.Status == GameStatusWon {
		return
	}
	g.ElapsedTime += dt

	friction := g.Config.Physics.Friction
	g.Ball.Update(g.field.Value(), friction, dt)
	g.collideObstacles()

	if g.Status == GameStatusRolling && friction > 0 && g.Ball.AtRest(g.Config.Physics.RestThreshold) {
		g.Ball.Stop()
		g.Status = GameStatusAiming
		g.EventBus.Publish(&event.BaseEvent{EventType: event.BallStopped, Source: g})
	}

	if InPocket(g.Ball.Pos, g.Pocket) {
		g.Ball.Stop()
		g.Status = GameStatusWon
		g.logger.Info(g.ctx, "ball pocketed", "shots", g.Shots, "elapsed", g.ElapsedTime)
		g.EventBus.Publish(event.NewPocketEvent(g, g.Shots, g.ElapsedTime))
	}
}

func (g *Game) collideObstacles() {
	for i, o := range g.Obstacles {
		res := o.Collide(g.Ball)
		if !res.Hit {
			continue
		}
		g.EventBus.Publish(event.NewCollisionEvent(g, i, res, g.Ball.VelocityMagnitude()))
	}
}

// ChangeField steps the field by one quantum in the sign of direction and
// returns the new value.
func (g *Game) ChangeField(direction int) float64 {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	before := g.field.Value()
	after := g.field.ChangeValue(direction)
	if after != before {
		g.EventBus.Publish(event.NewFieldEvent(g, after))
	}
	return after
}

// ZeroField switches the field off.
func (g *Game) ZeroField() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	if g.field.Value() == 0 {
		return
	}
	g.field.ZeroValue()
	g.EventBus.Publish(event.NewFieldEvent(g, 0))
}

// Reset puts the ball back on its start position and clears the score.
// The field is switched off.
func (g *Game) Reset() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	g.Ball.Place(g.Level.Ball)
	g.field.ZeroValue()
	g.Status = GameStatusAiming
	g.Shots = 0
	g.ElapsedTime = 0

	g.logger.Info(g.ctx, "game reset", "level", g.Level.Number)
	g.EventBus.Publish(&event.BaseEvent{EventType: event.GameReset, Source: g})
}

// AtRest reports whether the ball accepts a shot.
func (g *Game) AtRest() bool {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	return g.Status != GameStatusWon && g.Ball.AtRest(g.Config.Physics.RestThreshold)
}

// Won reports whether the ball has reached the pocket.
func (g *Game) Won() bool {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	return g.Status == GameStatusWon
}

// GetGameState returns a snapshot of the session.
func (g *Game) GetGameState() *GameState {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	return &GameState{
		BallPos:     g.Ball.Pos,
		BallVel:     g.Ball.Vel,
		BallRadius:  g.Ball.Radius,
		Pocket:      g.Pocket,
		Field:       g.field.Value(),
		FieldRatio:  g.field.Fraction(),
		Status:      g.Status,
		Shots:       g.Shots,
		ElapsedTime: g.ElapsedTime,
	}
}

// InPocket reports whether pos lies within the pocket, rim included.
func InPocket(pos physics.Vector2D, pocket physics.Circle) bool {
	return pocket.Contains(pos)
}
