package phase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aloft-io/aloft/internal/sim/model"
)

func TestHoldStationKeeping(t *testing.T) {
	env, sink := newTestEnv(t)
	hover(t, env, 10)
	start := env.State.Position

	cmd := cmdWith(model.KindHold, map[string]string{
		"duration":      "5",
		"position_hold": "true",
	})
	if err := (Hold{}).Execute(context.Background(), env, cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// The vehicle settles back exactly on the entry point, motionless.
	if env.State.Position != start {
		t.Errorf("final position = %+v, want %+v", env.State.Position, start)
	}
	if env.State.Speed() != 0 {
		t.Errorf("final speed = %v, want 0", env.State.Speed())
	}
	if got := env.Emitter.Count(); got != 50 {
		t.Errorf("snapshot count = %d, want 50", got)
	}

	// Drift with position hold stays within the tight correction envelope.
	for _, snap := range sink.all() {
		dx := snap.Position.X - start.X
		dy := snap.Position.Y - start.Y
		if math.Hypot(dx, dy) > 0.5 {
			t.Fatalf("drifted %.2fft from station", math.Hypot(dx, dy))
		}
	}
}

func TestHoldDriftLargerWithoutPositionHold(t *testing.T) {
	maxDrift := func(hold string) float64 {
		env, sink := newTestEnv(t)
		hover(t, env, 10)
		start := env.State.Position

		cmd := cmdWith(model.KindHold, map[string]string{
			"duration":      "8",
			"position_hold": hold,
		})
		if err := (Hold{}).Execute(context.Background(), env, cmd); err != nil {
			t.Fatalf("execute: %v", err)
		}

		var max float64
		for _, snap := range sink.all() {
			d := math.Hypot(snap.Position.X-start.X, snap.Position.Y-start.Y)
			if d > max {
				max = d
			}
		}
		return max
	}

	free := maxDrift("false")
	held := maxDrift("true")
	if held >= free {
		t.Errorf("position hold drift %.3f should be below free drift %.3f", held, free)
	}
}

func TestHoldRequiresDuration(t *testing.T) {
	env, _ := newTestEnv(t)
	hover(t, env, 10)

	err := (Hold{}).Execute(context.Background(), env, cmdWith(model.KindHold, nil))
	if !errors.Is(err, model.ErrConfigInvalid) {
		t.Errorf("err = %v, want config invalid", err)
	}
}
