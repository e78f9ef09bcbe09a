// cmd/magball/terminal.go
package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-magball/pkg/config"
	"github.com/opd-ai/go-magball/pkg/engine"
	"github.com/opd-ai/go-magball/pkg/logging"
	"github.com/opd-ai/go-magball/pkg/render"
)

// aimTurn is how many AimAngleStep increments one arrow press turns.
const aimTurn = 3

// terminalApp plays levels on a tcell screen.
type terminalApp struct {
	screen   tcell.Screen
	renderer *render.TerminalRenderer
	cfg      *config.Config
	loader   levelLoader
	logger   *logging.Logger

	game    *engine.Game
	aim     engine.Aim
	stepper *engine.Stepper
}

func runTerminal(game *engine.Game, cfg *config.Config, loader levelLoader, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	newTerminalApp(screen, game, cfg, loader, logger).run()
	return nil
}

func newTerminalApp(screen tcell.Screen, game *engine.Game, cfg *config.Config, loader levelLoader, logger *logging.Logger) *terminalApp {
	a := &terminalApp{
		screen:   screen,
		renderer: render.NewTerminalRenderer(screen, 1),
		cfg:      cfg,
		loader:   loader,
		logger:   logger,
		aim:      engine.NewAim(),
		stepper:  engine.NewStepper(cfg.Physics.TimeStep),
	}
	a.setGame(game)
	return a
}

func (a *terminalApp) setGame(game *engine.Game) {
	a.game = game
	a.renderer.Fit(game.Obstacles[0].Bounds())
}

func (a *terminalApp) run() {
	fps := a.cfg.Window.FPS
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	last := time.Now()
	a.draw()
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				a.screen.Sync()
				a.renderer.Fit(a.game.Obstacles[0].Bounds())
			}

		case now := <-ticker.C:
			a.stepper.Run(a.game, now.Sub(last).Seconds())
			last = now
			a.draw()
		}
	}
}

// handleKey applies one key press and reports whether to keep running.
func (a *terminalApp) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		a.aim.Rotate(-aimTurn)
	case tcell.KeyRight:
		a.aim.Rotate(aimTurn)
	case tcell.KeyUp:
		a.aim.Adjust(1)
	case tcell.KeyDown:
		a.aim.Adjust(-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			a.shoot()
		case ']':
			a.game.ChangeField(1)
		case '[':
			a.game.ChangeField(-1)
		case '0':
			a.game.ZeroField()
		case 'r':
			a.game.Reset()
		case 'n':
			a.nextLevel()
		}
	}
	return true
}

func (a *terminalApp) shoot() {
	if err := a.game.Shoot(a.aim.Velocity()); err != nil {
		a.logger.Debug(a.game.Context(), "shot rejected", "error", err)
	}
}

// nextLevel moves on once the current level is won.
func (a *terminalApp) nextLevel() {
	n := a.game.Level.Number
	if !a.game.Won() || !a.loader.hasNext(n) {
		return
	}

	lvl, err := a.loader.load(n + 1)
	if err != nil {
		a.logger.Error(a.game.Context(), "failed to load level", err, "level", n+1)
		return
	}
	game, err := engine.NewGame(lvl, a.cfg, a.game.EventBus, a.logger)
	if err != nil {
		a.logger.Error(a.game.Context(), "failed to start level", err, "level", n+1)
		return
	}
	a.setGame(game)
}

func (a *terminalApp) draw() {
	state := a.game.GetGameState()
	w, _ := a.screen.Size()

	prefix := fmt.Sprintf("L%d ", a.game.Level.Number)
	status := prefix + render.StatusLine(state, w-len(prefix))
	if state.Status == engine.GameStatusWon && a.loader.hasNext(a.game.Level.Number) {
		status += "  n: next"
	}
	a.renderer.SetStatus(status)

	a.renderer.Clear()
	for _, item := range render.Scene(a.game) {
		item.Render(a.renderer)
	}
	if state.Status == engine.GameStatusAiming {
		a.renderer.RenderAim(state.BallPos, a.aim.Velocity(), a.aim.Speed/4)
	}
	a.renderer.Present()
}
