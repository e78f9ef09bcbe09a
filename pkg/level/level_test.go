package level

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/opd-ai/go-magball/pkg/physics"
)

const square = `# unit test table
ball 50 50

pocket 80 80 12
edge 0 0 100 0
edge 100 100 0 100
obstacle 40 10 60 10 60 20
obstacle 10 40 10 60
`

func TestParse_Directives(t *testing.T) {
	lvl, err := Parse(strings.NewReader(square))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !lvl.HasBall || lvl.Ball != physics.Vec(50, 50) {
		t.Errorf("Ball = %v (has=%v)", lvl.Ball, lvl.HasBall)
	}
	if !lvl.HasPocket || lvl.Pocket != physics.Vec(80, 80) || lvl.PocketRadius != 12 {
		t.Errorf("Pocket = %v r=%v", lvl.Pocket, lvl.PocketRadius)
	}

	wantBoundary := []physics.Vector2D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}
	if !reflect.DeepEqual(lvl.Boundary, wantBoundary) {
		t.Errorf("Boundary = %v, want %v", lvl.Boundary, wantBoundary)
	}
	if len(lvl.Obstacles) != 2 || len(lvl.Obstacles[0]) != 3 || len(lvl.Obstacles[1]) != 2 {
		t.Errorf("Obstacles = %v", lvl.Obstacles)
	}
	if err := lvl.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		wantErr error
	}{
		{"unknown directive", "ball 1 1\nwall 0 0 1 1\n", 2, ErrUnknownDirective},
		{"ball arity", "ball 1\n", 1, ErrArgumentCount},
		{"pocket arity", "pocket 1 2 3 4\n", 1, ErrArgumentCount},
		{"odd edge", "# c\nedge 0 0 1\n", 2, ErrArgumentCount},
		{"empty obstacle", "obstacle\n", 1, ErrArgumentCount},
		{"bad number", "ball one 2\n", 1, ErrBadNumber},
		{"nan", "ball NaN 2\n", 1, ErrBadNumber},
		{"zero pocket radius", "pocket 1 1 0\n", 1, ErrBadPocketRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if pe.Line != tt.line {
				t.Errorf("Line = %d, want %d", pe.Line, tt.line)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"no ball", "pocket 5 5\nedge 0 0 10 0 10 10 0 10\n", ErrNoBall},
		{"no pocket", "ball 5 5\nedge 0 0 10 0 10 10 0 10\n", ErrNoPocket},
		{"no boundary", "ball 5 5\npocket 6 6\n", ErrNoBoundary},
		{"segment boundary", "ball 5 5\npocket 6 6\nedge 0 0 10 0\n", ErrNoBoundary},
		{"ball outside", "ball 50 5\npocket 6 6\nedge 0 0 10 0 10 10 0 10\n", ErrBallOutside},
		{"pocket outside", "ball 5 5\npocket -6 6\nedge 0 0 10 0 10 10 0 10\n", ErrPocketOutside},
		{"duplicate vertex", "ball 5 5\npocket 6 6\nedge 0 0 10 0 10 0 10 10\n", physics.ErrDuplicateVertex},
		{"obstacle single vertex", "ball 5 5\npocket 6 6\nedge 0 0 10 0 10 10 0 10\nobstacle 1 1\n", physics.ErrTooFewVertices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if err := lvl.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPolygons_BoundaryFirst(t *testing.T) {
	lvl, err := Parse(strings.NewReader(square))
	if err != nil {
		t.Fatal(err)
	}

	obstacles, err := lvl.Polygons(physics.WithRestitution(0.5, 1))
	if err != nil {
		t.Fatalf("Polygons() error = %v", err)
	}
	if len(obstacles) != 3 {
		t.Fatalf("got %d obstacles, want 3", len(obstacles))
	}
	if obstacles[0].Len() != 4 || obstacles[0].Perimeter() != 400 {
		t.Errorf("boundary has %d vertices, perimeter %v", obstacles[0].Len(), obstacles[0].Perimeter())
	}
	if obstacles[2].Len() != 2 {
		t.Errorf("segment obstacle has %d vertices", obstacles[2].Len())
	}
}

func TestPocketCircle(t *testing.T) {
	lvl := &Level{Pocket: physics.Vec(3, 4)}
	if c := lvl.PocketCircle(15); c.Radius != 15 || c.Center != physics.Vec(3, 4) {
		t.Errorf("default PocketCircle() = %+v", c)
	}
	lvl.PocketRadius = 9
	if c := lvl.PocketCircle(15); c.Radius != 9 {
		t.Errorf("explicit PocketCircle() = %+v", c)
	}
}

func TestWriteTo_ParsesBack(t *testing.T) {
	lvl, err := Parse(strings.NewReader(square))
	if err != nil {
		t.Fatal(err)
	}
	lvl.Ball = physics.Vec(50.25, 49.5)

	var buf bytes.Buffer
	n, err := lvl.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo() reported %d bytes, wrote %d", n, buf.Len())
	}
	if !strings.Contains(buf.String(), "ball 50.25 49.5\n") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	again, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse() of written level: %v", err)
	}
	if !reflect.DeepEqual(again, lvl) {
		t.Errorf("written level differs:\n got %+v\nwant %+v", again, lvl)
	}
}

func TestLoadNumberedAndCount(t *testing.T) {
	dir := t.TempDir()
	if Count(dir) != 0 {
		t.Fatalf("Count() of empty dir = %d", Count(dir))
	}

	lvl, err := Parse(strings.NewReader(square))
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{1, 2, 4} {
		if err := lvl.Save(dir, n); err != nil {
			t.Fatalf("Save(%d) error = %v", n, err)
		}
	}

	if got := Count(dir); got != 2 {
		t.Errorf("Count() = %d, want 2 (level 3 missing)", got)
	}

	loaded, err := LoadNumbered(dir, 2)
	if err != nil {
		t.Fatalf("LoadNumbered() error = %v", err)
	}
	if loaded.Number != 2 || loaded.Ball != lvl.Ball {
		t.Errorf("LoadNumbered() = %+v", loaded)
	}

	if _, err := LoadNumbered(dir, 3); err == nil {
		t.Error("LoadNumbered() of a missing level should fail")
	}
}

func TestLoad_InvalidGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level_1.txt")
	if err := os.WriteFile(path, []byte("ball 500 500\npocket 5 5\nedge 0 0 10 0 10 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrBallOutside) {
		t.Errorf("Load() error = %v, want %v", err, ErrBallOutside)
	}
	if err != nil && !strings.Contains(err.Error(), path) {
		t.Errorf("Load() error should name the file: %v", err)
	}
}

func TestBundledLevels(t *testing.T) {
	dir := filepath.Join("..", "..", "levels")
	count := Count(dir)
	if count < 3 {
		t.Fatalf("Count(%s) = %d, want at least 3", dir, count)
	}
	for n := 1; n <= count; n++ {
		if _, err := LoadNumbered(dir, n); err != nil {
			t.Errorf("level %d: %v", n, err)
		}
	}
}
