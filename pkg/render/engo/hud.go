// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"sync"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-magball/pkg/engine"
	"github.com/opd-ai/go-magball/pkg/render"
)

const (
	hudLines      = 3
	hudMargin     = 10
	hudLineHeight = 20
	zHUD          = 10
)

// HUDSystem draws the level number, the status line and the last message
// in the top-left corner of the window.
type HUDSystem struct {
	state func() *engine.GameState
	level int

	mu      sync.Mutex
	message string

	text  [hudLines]*shape
	shown [hudLines]string
	font  *common.Font
}

// NewHUDSystem creates a HUD for level that reads the game through state.
func NewHUDSystem(level int, state func() *engine.GameState) *HUDSystem {
	return &HUDSystem{level: level, state: state}
}

// Attach creates the text entities. It needs a loaded font.
func (hud *HUDSystem) Attach(rs *common.RenderSystem, font *common.Font) {
	hud.font = font
	for i := range hud.text {
		s := &shape{BasicEntity: ecs.NewBasic()}
		s.RenderComponent = common.RenderComponent{Drawable: common.Text{Font: font, Text: " "}}
		s.RenderComponent.SetShader(common.HUDShader)
		s.RenderComponent.SetZIndex(zHUD)
		s.SpaceComponent = common.SpaceComponent{
			Position: engo.Point{X: hudMargin, Y: float32(hudMargin + i*hudLineHeight)},
		}
		rs.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
		hud.text[i] = s
	}
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes text that changed since the last frame.
func (hud *HUDSystem) Update(dt float32) {
	if hud.font == nil {
		return
	}
	for i, line := range hud.Lines() {
		if line == hud.shown[i] {
			continue
		}
		hud.shown[i] = line
		// An empty Text has no size, so blank lines draw a space.
		if line == "" {
			line = " "
		}
		hud.text[i].Drawable = common.Text{Font: hud.font, Text: line}
	}
}

// Lines returns the HUD text, top to bottom.
func (hud *HUDSystem) Lines() [hudLines]string {
	hud.mu.Lock()
	message := hud.message
	hud.mu.Unlock()

	return [hudLines]string{
		fmt.Sprintf("Level %d", hud.level),
		render.StatusLine(hud.state(), 0),
		message,
	}
}

// SetMessage sets the third HUD line. It is safe to call from event
// handlers.
func (hud *HUDSystem) SetMessage(message string) {
	hud.mu.Lock()
	hud.message = message
	hud.mu.Unlock()
}
