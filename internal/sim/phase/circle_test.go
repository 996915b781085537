package phase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aloft-io/aloft/internal/sim/model"
)

func TestCircleReturnsToStart(t *testing.T) {
	env, sink := newTestEnv(t)
	hover(t, env, 10)
	start := env.State.Position

	cmd := cmdWith(model.KindCircularPath, map[string]string{
		"radius": "6",
		"speed":  "1",
	})
	if err := (CircularPath{}).Execute(context.Background(), env, cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if env.State.Position != start {
		t.Errorf("final position = %+v, want %+v", env.State.Position, start)
	}
	if env.State.Speed() != 0 {
		t.Errorf("final speed = %v, want 0", env.State.Speed())
	}
	if got := env.State.Mode; got != model.ModeHover {
		t.Errorf("mode = %v, want %v", got, model.ModeHover)
	}

	// Every point on the path sits on the circle, at constant speed.
	for _, snap := range sink.all() {
		d := math.Hypot(snap.Position.X-start.X, snap.Position.Y-start.Y)
		if math.Abs(d-6) > 1e-9 {
			t.Fatalf("point %.4fft off the 6ft circle", d)
		}
		if math.Abs(snap.SpeedFPS-1) > 1e-9 {
			t.Fatalf("speed %.4f, want 1", snap.SpeedFPS)
		}
	}
}

func TestCircleDirection(t *testing.T) {
	firstY := func(direction string) float64 {
		env, sink := newTestEnv(t)
		hover(t, env, 10)

		cmd := cmdWith(model.KindCircularPath, map[string]string{
			"radius":    "6",
			"speed":     "3",
			"direction": direction,
		})
		if err := (CircularPath{}).Execute(context.Background(), env, cmd); err != nil {
			t.Fatalf("execute: %v", err)
		}
		return sink.all()[0].Position.Y
	}

	if y := firstY("cw"); y >= 0 {
		t.Errorf("clockwise first step y = %v, want negative", y)
	}
	if y := firstY("ccw"); y <= 0 {
		t.Errorf("counter-clockwise first step y = %v, want positive", y)
	}
}

func TestCircleRevolutions(t *testing.T) {
	env, _ := newTestEnv(t)
	hover(t, env, 10)

	cmd := cmdWith(model.KindCircularPath, map[string]string{
		"radius":      "2",
		"speed":       "2",
		"revolutions": "2",
	})
	if err := (CircularPath{}).Execute(context.Background(), env, cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// Two revolutions of a 2ft circle at 2ft/s take 4pi seconds.
	wantTicks := int(math.Ceil(4 * math.Pi * 10))
	if got := env.Emitter.Count(); got != wantTicks {
		t.Errorf("snapshot count = %d, want %d", got, wantTicks)
	}
}

func TestCircleRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{"missing radius", map[string]string{"speed": "1"}},
		{"missing speed", map[string]string{"radius": "6"}},
		{"zero radius", map[string]string{"radius": "0", "speed": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _ := newTestEnv(t)
			hover(t, env, 10)
			err := (CircularPath{}).Execute(context.Background(), env, cmdWith(model.KindCircularPath, tt.params))
			if !errors.Is(err, model.ErrConfigInvalid) {
				t.Errorf("err = %v, want config invalid", err)
			}
		})
	}
}
