// pkg/render/renderer_test.go
package render

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/opd-ai/go-magball/pkg/engine"
	"github.com/opd-ai/go-magball/pkg/level"
	"github.com/opd-ai/go-magball/pkg/logging"
	"github.com/opd-ai/go-magball/pkg/physics"
)

func squareGame(t *testing.T) *engine.Game {
	t.Helper()
	lvl := &level.Level{
		Number:    1,
		Ball:      physics.Vec(50, 50),
		HasBall:   true,
		Pocket:    physics.Vec(80, 80),
		HasPocket: true,
		Boundary:  []physics.Vector2D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}},
		Obstacles: [][]physics.Vector2D{{{X: 20, Y: 20}, {X: 30, Y: 20}, {X: 30, Y: 30}}},
	}
	game, err := engine.NewGame(lvl, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	return game
}

// callRecorder records the order of Renderer calls.
type callRecorder struct {
	calls []string
}

func (c *callRecorder) Clear()   { c.calls = append(c.calls, "clear") }
func (c *callRecorder) Present() { c.calls = append(c.calls, "present") }
func (c *callRecorder) RenderBall(BallView) {
	c.calls = append(c.calls, "ball")
}
func (c *callRecorder) RenderObstacle(o ObstacleView) {
	if o.Boundary {
		c.calls = append(c.calls, "boundary")
		return
	}
	c.calls = append(c.calls, "obstacle")
}
func (c *callRecorder) RenderPocket(PocketView) {
	c.calls = append(c.calls, "pocket")
}

func TestDraw_CallsRendererInSceneOrder(t *testing.T) {
	rec := &callRecorder{}
	Draw(rec, Scene(squareGame(t)))

	want := []string{"clear", "boundary", "obstacle", "pocket", "ball", "present"}
	if strings.Join(rec.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}

func TestScene_CopiesGameState(t *testing.T) {
	items := Scene(squareGame(t))
	if len(items) != 4 {
		t.Fatalf("got %d renderables, want 4", len(items))
	}

	ball, ok := items[3].(BallView)
	if !ok {
		t.Fatalf("last item is %T, want BallView", items[3])
	}
	if ball.Pos != physics.Vec(50, 50) || ball.Radius != 10 {
		t.Errorf("ball view = %+v", ball)
	}

	pocket, ok := items[2].(PocketView)
	if !ok {
		t.Fatalf("item 2 is %T, want PocketView", items[2])
	}
	if pocket.Center != physics.Vec(80, 80) || pocket.Radius != 15 {
		t.Errorf("pocket view = %+v", pocket)
	}

	boundary := items[0].(ObstacleView)
	if !boundary.Boundary || len(boundary.Vertices) != 4 {
		t.Errorf("boundary view = %+v", boundary)
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name  string
		state engine.GameState
		width int
		want  string
	}{
		{
			name:  "positive field",
			state: engine.GameState{Status: engine.GameStatusAiming, Shots: 2, Field: 1.5, FieldRatio: 0.5, ElapsedTime: 3},
			want:  "aiming  shots 2  field +1.50 [     |===  ]  t 3.0s",
		},
		{
			name:  "full negative field",
			state: engine.GameState{Status: engine.GameStatusRolling, Shots: 1, Field: -3, FieldRatio: -1},
			want:  "rolling shots 1  field -3.00 [=====|     ]  t 0.0s",
		},
		{
			name:  "truncated",
			state: engine.GameState{Status: engine.GameStatusWon, Shots: 4},
			width: 12,
			want:  "won     shot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusLine(&tt.state, tt.width); got != tt.want {
				t.Errorf("StatusLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNullRenderer_LogsEveryCall(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewNullRenderer(logging.NewLoggerWithWriter(&buf, slog.LevelDebug))

	Draw(renderer, Scene(squareGame(t)))

	output := buf.String()
	for _, msg := range []string{
		"Clear called", "RenderObstacle called", "RenderPocket called",
		"RenderBall called", "Present called",
	} {
		if !strings.Contains(output, msg) {
			t.Errorf("log output missing %q", msg)
		}
	}
	if !strings.Contains(output, `"boundary":true`) {
		t.Error("boundary obstacle not flagged in log output")
	}
}

func TestNullRenderer_SilentAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewNullRenderer(logging.NewLoggerWithWriter(&buf, slog.LevelInfo))

	renderer.Clear()
	renderer.RenderBall(BallView{Pos: physics.Vec(1, 2)})

	if buf.Len() != 0 {
		t.Errorf("expected no output at info level, got %s", buf.String())
	}
}

func TestNullRenderer_ImplementsRendererInterface(t *testing.T) {
	var _ Renderer = NewNullRenderer(logging.Discard())
	var _ Renderer = (*TerminalRenderer)(nil)
}
