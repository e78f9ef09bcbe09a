// pkg/render/engo/input.go
package engo

import (
	"context"
	"errors"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-magball/pkg/engine"
	"github.com/opd-ai/go-magball/pkg/logging"
	"github.com/opd-ai/go-magball/pkg/physics"
)

// Button names registered by SetupInputBindings.
const (
	ButtonFieldUp   = "fieldUp"
	ButtonFieldDown = "fieldDown"
	ButtonFieldZero = "fieldZero"
	ButtonReset     = "reset"
	ButtonResetZoom = "resetZoom"
	ButtonQuit      = "quit"
)

// Controls is the part of a game session driven by player input.
// *engine.Game satisfies it.
type Controls interface {
	Shoot(vel physics.Vector2D) error
	ChangeField(direction int) float64
	ZeroField()
	Reset()
	AtRest() bool
}

// InputSystem turns mouse drags into shots and keys into field changes.
type InputSystem struct {
	controls Controls
	camera   *CameraSystem
	logger   *logging.Logger
	ctx      context.Context

	dragging  bool
	dragStart physics.Vector2D
	dragEnd   physics.Vector2D
}

// NewInputSystem creates a new input system
func NewInputSystem(ctx context.Context, controls Controls, camera *CameraSystem, logger *logging.Logger) *InputSystem {
	if logger == nil {
		logger = logging.Discard()
	}
	return &InputSystem{
		controls: controls,
		camera:   camera,
		logger:   logger,
		ctx:      ctx,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update reads this frame's mouse and key state.
func (is *InputSystem) Update(dt float32) {
	mouse := engo.Input.Mouse
	pos := is.camera.ScreenToWorld(engo.Point{X: mouse.X, Y: mouse.Y})
	if mouse.Button == engo.MouseButtonLeft {
		switch mouse.Action {
		case engo.Press:
			is.press(pos)
		case engo.Release:
			is.release(pos)
		}
	}
	is.move(pos)

	switch {
	case engo.Input.Button(ButtonFieldUp).JustPressed():
		is.controls.ChangeField(1)
	case engo.Input.Button(ButtonFieldDown).JustPressed():
		is.controls.ChangeField(-1)
	case engo.Input.Button(ButtonFieldZero).JustPressed():
		is.controls.ZeroField()
	}

	if engo.Input.Button(ButtonReset).JustPressed() {
		is.dragging = false
		is.controls.Reset()
	}
	if engo.Input.Button(ButtonQuit).JustPressed() {
		engo.Exit()
	}
}

// press starts a drag when the ball is ready for a shot.
func (is *InputSystem) press(pos physics.Vector2D) {
	if !is.controls.AtRest() {
		return
	}
	is.dragging = true
	is.dragStart, is.dragEnd = pos, pos
}

func (is *InputSystem) move(pos physics.Vector2D) {
	if is.dragging {
		is.dragEnd = pos
	}
}

// release ends a drag and shoots.
func (is *InputSystem) release(pos physics.Vector2D) {
	if !is.dragging {
		return
	}
	is.dragging = false
	is.dragEnd = pos

	err := is.controls.Shoot(engine.DragShot(is.dragStart, pos))
	if err != nil && !errors.Is(err, engine.ErrZeroShot) {
		is.logger.Warn(is.ctx, "shot rejected", "error", err)
	}
}

// Preview returns the velocity the current drag would shoot with.
func (is *InputSystem) Preview() (physics.Vector2D, bool) {
	if !is.dragging {
		return physics.Vector2D{}, false
	}
	return engine.DragShot(is.dragStart, is.dragEnd), true
}

// SetupInputBindings sets up the key bindings for the game
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonFieldUp, engo.KeyArrowUp, engo.KeyArrowRight)
	engo.Input.RegisterButton(ButtonFieldDown, engo.KeyArrowDown, engo.KeyArrowLeft)
	engo.Input.RegisterButton(ButtonFieldZero, engo.KeyZero)
	engo.Input.RegisterButton(ButtonReset, engo.KeyR)
	engo.Input.RegisterButton(ButtonResetZoom, engo.KeyZ)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyEscape, engo.KeyQ)
}
