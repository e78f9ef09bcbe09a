// pkg/render/engo/scene.go
package engo

import (
	"fmt"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-magball/pkg/config"
	"github.com/opd-ai/go-magball/pkg/engine"
	"github.com/opd-ai/go-magball/pkg/event"
	"github.com/opd-ai/go-magball/pkg/logging"
	"github.com/opd-ai/go-magball/pkg/render"
)

// GameScene plays one level in an engo window.
type GameScene struct {
	game   *engine.Game
	cfg    *config.Config
	logger *logging.Logger

	world    *ecs.World
	assets   *AssetManager
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
	table    *TableSystem
}

// NewGameScene creates a new game scene
func NewGameScene(game *engine.Game, cfg *config.Config, logger *logging.Logger) *GameScene {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	scene := &GameScene{
		game:   game,
		cfg:    cfg,
		logger: logger,
		world:  &ecs.World{},
		assets: NewAssetManager(DefaultPalette()),
		camera: NewCameraSystem(float64(cfg.Window.Width), float64(cfg.Window.Height)),
	}
	scene.camera.Fit(game.Obstacles[0].Bounds())
	scene.input = NewInputSystem(game.Context(), game, scene.camera, logger)
	scene.hud = NewHUDSystem(game.Level.Number, game.GetGameState)
	scene.subscribeToEvents()
	return scene
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {
	if err := scene.assets.Preload(); err != nil {
		scene.logger.Error(scene.game.Context(), "preload failed", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		panic(fmt.Sprintf("engo updater is %T, want *ecs.World", u))
	}
	scene.world = world

	common.SetBackground(scene.assets.Palette().Background)
	if err := scene.assets.LoadAssets(); err != nil {
		panic("Failed to load assets: " + err.Error())
	}

	renderSystem := &common.RenderSystem{}
	scene.world.AddSystem(renderSystem)

	scene.renderer = NewEngoRenderer(renderSystem, scene.camera, scene.assets)
	scene.table = NewTableSystem(scene.game, scene.renderer, scene.input, scene.cfg.Physics.TimeStep)
	scene.hud.Attach(renderSystem, scene.assets.Font())

	SetupInputBindings()
	scene.world.AddSystem(scene.camera)
	scene.world.AddSystem(scene.input)
	scene.world.AddSystem(scene.table)
	scene.world.AddSystem(scene.hud)

	scene.logger.Info(scene.game.Context(), "scene started", "level", scene.game.Level.Number)
}

// subscribeToEvents routes game events to the HUD. Handlers run while the
// game holds its lock, so they only touch HUD state.
func (scene *GameScene) subscribeToEvents() {
	bus := scene.game.EventBus
	if bus == nil {
		return
	}
	bus.Subscribe(event.BallPocketed, func(e event.Event) {
		if pe, ok := e.(*event.PocketEvent); ok {
			scene.hud.SetMessage(fmt.Sprintf("Pocketed in %d shots, R to replay", pe.Shots))
		}
	})
	bus.Subscribe(event.GameReset, func(event.Event) {
		scene.hud.SetMessage("")
	})
	bus.Subscribe(event.FieldChanged, func(e event.Event) {
		if fe, ok := e.(*event.FieldEvent); ok {
			scene.hud.SetMessage(fmt.Sprintf("Field %+.2f", fe.Value))
		}
	})
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	scene.logger.Info(scene.game.Context(), "scene exited", "shots", scene.game.GetGameState().Shots)
}

// TableSystem advances the game in fixed steps and redraws the table.
type TableSystem struct {
	game     *engine.Game
	renderer *EngoRenderer
	input    *InputSystem
	stepper  *engine.Stepper
}

// NewTableSystem creates the system that drives game at the given step.
func NewTableSystem(game *engine.Game, renderer *EngoRenderer, input *InputSystem, step float64) *TableSystem {
	return &TableSystem{
		game:     game,
		renderer: renderer,
		input:    input,
		stepper:  engine.NewStepper(step),
	}
}

// Remove satisfies the ecs.System interface
func (ts *TableSystem) Remove(basic ecs.BasicEntity) {}

// Update steps the physics and draws the frame.
func (ts *TableSystem) Update(dt float32) {
	ts.stepper.Run(ts.game, float64(dt))

	render.Draw(ts.renderer, render.Scene(ts.game))
	vel, dragging := ts.input.Preview()
	ts.renderer.RenderAim(ts.game.GetGameState().BallPos, vel, dragging)
}

// Run opens a window and plays game until it is closed.
func Run(game *engine.Game, cfg *config.Config, logger *logging.Logger) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	opts := engo.RunOptions{
		Title:    fmt.Sprintf("magball - level %d", game.Level.Number),
		Width:    cfg.Window.Width,
		Height:   cfg.Window.Height,
		FPSLimit: cfg.Window.FPS,
	}
	engo.Run(opts, NewGameScene(game, cfg, logger))
}
