// pkg/physics/ball_test.go
package physics

import (
	"errors"
	"math"
	"testing"
)

func TestNewBall(t *testing.T) {
	tests := []struct {
		name    string
		radius  float64
		wantErr error
	}{
		{"positive_radius", 10, nil},
		{"zero_radius", 0, ErrNonPositiveRadius},
		{"negative_radius", -1, ErrNonPositiveRadius},
		{"nan_radius", math.NaN(), ErrNonPositiveRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBall(tt.radius, Vec(1, 2))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewBall() error = %v, expected %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if b.Pos != Vec(1, 2) || b.PrevPos != Vec(1, 2) {
				t.Errorf("ball not placed at start, pos=%v prev=%v", b.Pos, b.PrevPos)
			}
			if !b.Vel.IsZero() {
				t.Errorf("new ball should be at rest, vel=%v", b.Vel)
			}
		})
	}
}

func TestBall_Update_Snapshot(t *testing.T) {
	b := &Ball{Radius: 1, Pos: Vec(0, 0), Vel: Vec(2, 0)}
	b.Update(0, 0, 0.5)

	if b.PrevPos != Vec(0, 0) || b.PrevVel != Vec(2, 0) {
		t.Errorf("snapshot = (%v, %v), expected ((0,0), (2,0))", b.PrevPos, b.PrevVel)
	}
	if !b.Pos.ApproxEqual(Vec(1, 0), eps) {
		t.Errorf("Pos = %v, expected (1,0)", b.Pos)
	}
}

func TestBall_Update_ZeroDeltaTime(t *testing.T) {
	b := &Ball{Radius: 1, Pos: Vec(3, 4), Vel: Vec(1, 1), PrevPos: Vec(9, 9)}
	b.Update(0.5, 0.2, 0)

	if b.Pos != Vec(3, 4) || b.Vel != Vec(1, 1) {
		t.Errorf("zero dt changed state: pos=%v vel=%v", b.Pos, b.Vel)
	}
	if b.PrevPos != Vec(3, 4) || b.PrevVel != Vec(1, 1) {
		t.Errorf("zero dt should still snapshot, prev=(%v, %v)", b.PrevPos, b.PrevVel)
	}
}

func TestBall_Update_RestStaysAtRest(t *testing.T) {
	b := &Ball{Radius: 1, Pos: Vec(3, 4)}
	for i := 0; i < 10; i++ {
		b.Update(0.3, 0.5, 1)
	}
	if !b.Vel.IsZero() || b.Pos != Vec(3, 4) {
		t.Errorf("ball at rest moved: pos=%v vel=%v", b.Pos, b.Vel)
	}
}

func TestBall_Update_SpeedInvariantUnderField(t *testing.T) {
	fields := []float64{0.01, -0.05, 0.3, 2}
	for _, field := range fields {
		b := &Ball{Radius: 1, Vel: Vec(3, -4)}
		start := b.VelocityMagnitude()
		for i := 0; i < 1000; i++ {
			b.Update(field, 0, 0.6)
			if got := b.VelocityMagnitude(); math.Abs(got-start) > 1e-9 {
				t.Fatalf("field %v step %d: speed %v, expected %v", field, i, got, start)
			}
		}
	}
}

func TestBall_Update_FieldTurnsClockwiseForPositiveField(t *testing.T) {
	b := &Ball{Radius: 1, Vel: Vec(1, 0)}
	b.Update(0.1, 0, 1)
	if b.Vel.Y >= 0 {
		t.Errorf("positive field should turn (1,0) toward -y, vel=%v", b.Vel)
	}

	b = &Ball{Radius: 1, Vel: Vec(1, 0)}
	b.Update(-0.1, 0, 1)
	if b.Vel.Y <= 0 {
		t.Errorf("negative field should turn (1,0) toward +y, vel=%v", b.Vel)
	}
}

func TestBall_Update_FrictionMonotonic(t *testing.T) {
	b := &Ball{Radius: 1, Vel: Vec(6, 8)}
	last := b.VelocityMagnitude()
	direction := b.Vel.Normalize()

	for i := 0; i < 100; i++ {
		b.Update(0, 0.7, 0.6)
		speed := b.VelocityMagnitude()
		if speed > last {
			t.Fatalf("step %d: speed grew from %v to %v", i, last, speed)
		}
		if !b.Vel.IsZero() && b.Vel.Normalize().Dot(direction) < 1-eps {
			t.Fatalf("step %d: friction changed direction to %v", i, b.Vel)
		}
		last = speed
	}
	if !b.Vel.IsZero() {
		t.Errorf("ball should have stopped exactly, vel=%v", b.Vel)
	}

	b.Update(0, 0.7, 0.6)
	if !b.Vel.IsZero() {
		t.Errorf("stopped ball restarted, vel=%v", b.Vel)
	}
}

func TestBall_Update_FrictionDecrement(t *testing.T) {
	b := &Ball{Radius: 1, Vel: Vec(10, 0)}
	b.Update(0, 2, 0.5)
	if math.Abs(b.VelocityMagnitude()-9) > eps {
		t.Errorf("speed = %v, expected 9", b.VelocityMagnitude())
	}
}

func TestBall_AtRestAndPlace(t *testing.T) {
	b := &Ball{Radius: 1, Vel: Vec(0.005, 0)}
	if !b.AtRest(0.01) {
		t.Error("slow ball should count as at rest")
	}
	b.Vel = Vec(0.02, 0)
	if b.AtRest(0.01) {
		t.Error("moving ball should not count as at rest")
	}

	b.Place(Vec(7, 7))
	if b.Pos != Vec(7, 7) || b.PrevPos != Vec(7, 7) || !b.Vel.IsZero() || !b.PrevVel.IsZero() {
		t.Errorf("Place() left stale state: %+v", b)
	}

	if c := b.Circle(); c.Center != Vec(7, 7) || c.Radius != 1 {
		t.Errorf("Circle() = %+v", c)
	}
}
