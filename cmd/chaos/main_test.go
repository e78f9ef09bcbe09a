// cmd/chaos/main_test.go
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opd-ai/go-magball/pkg/chaos"
	"github.com/opd-ai/go-magball/pkg/config"
	"github.com/opd-ai/go-magball/pkg/level"
	"github.com/opd-ai/go-magball/pkg/logging"
	"github.com/opd-ai/go-magball/pkg/physics"
)

func TestLengthHistogram(t *testing.T) {
	tests := []struct {
		name      string
		lengths   []float64
		perimeter float64
		bins      int
		want      []float64
	}{
		{"unsorted with end point", []float64{99.9, 10, 0, 100, 10}, 100, 4, []float64{3, 0, 0, 2}},
		{"clamps out of range", []float64{-1, 250}, 200, 2, []float64{1, 1}},
		{"empty", nil, 100, 3, []float64{0, 0, 0}},
		{"no bins", []float64{1}, 100, 0, nil},
		{"no perimeter", []float64{1}, 0, 3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lengthHistogram(tt.lengths, tt.perimeter, tt.bins)
			if len(got) != len(tt.want) {
				t.Fatalf("lengthHistogram() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("lengthHistogram() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestWriteStats(t *testing.T) {
	var buf bytes.Buffer
	err := writeStats(&buf, []chaos.BallStats{
		{Ball: 0, Count: 3, MeanLength: 12.5, MeanAngle: 0.25, MinAngle: -0.5, MaxAngle: 1},
		{Ball: 1},
	})
	if err != nil {
		t.Fatalf("writeStats() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header and two rows:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "mean cos") {
		t.Errorf("header = %q", lines[0])
	}
	for _, want := range []string{"12.50", "0.250", "-0.500", "1.000"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row %q missing %q", lines[1], want)
		}
	}
}

func writeSquareLevel(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	lvl := &level.Level{
		Ball:      physics.Vec(50, 50),
		HasBall:   true,
		Pocket:    physics.Vec(80, 80),
		HasPocket: true,
		Boundary:  []physics.Vector2D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}},
	}
	if err := lvl.Save(dir, 1); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return dir
}

func TestRun_ReportsAndExports(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LevelDir = writeSquareLevel(t)
	out := filepath.Join(t.TempDir(), "samples.msgpack")

	var buf bytes.Buffer
	opts := options{levelNum: 1, steps: 120, balls: 4, seed: 7, angle: 30, speed: 200, out: out, bins: 20, height: 5}
	if err := run(context.Background(), cfg, opts, &buf, logging.Discard()); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(buf.String(), "boundary hits by perimeter coordinate (0 to 400)") {
		t.Errorf("report has no plot caption:\n%s", buf.String())
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("sample file missing: %v", err)
	}
	defer f.Close()
	file, err := chaos.ReadSamples(f)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if file.Perimeter != 400 {
		t.Errorf("Perimeter = %v, want 400", file.Perimeter)
	}
	if len(file.Samples) != 4 {
		t.Fatalf("got %d sample sets, want 4", len(file.Samples))
	}
	for i, s := range file.Samples {
		if len(s) == 0 {
			t.Errorf("ball %d recorded no boundary hits", i)
		}
	}
}

func TestRun_CancelledStillReports(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LevelDir = writeSquareLevel(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	opts := options{levelNum: 1, steps: 100, balls: 2, angle: 0, speed: 100, bins: 10, height: 4}
	if err := run(ctx, cfg, opts, &buf, logging.Discard()); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "no boundary hits recorded") {
		t.Errorf("report = %q, want the empty notice", buf.String())
	}
}

func TestRun_MissingLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LevelDir = t.TempDir()

	opts := options{levelNum: 3, speed: 100, bins: 10, height: 4}
	if err := run(context.Background(), cfg, opts, &bytes.Buffer{}, logging.Discard()); err == nil {
		t.Error("run() succeeded without a level file")
	}
}
