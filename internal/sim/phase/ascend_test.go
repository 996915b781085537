package phase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/internal/sim/safety"
)

func TestAscendReachesTarget(t *testing.T) {
	env, sink := newTestEnv(t)

	cmd := cmdWith(model.KindAscend, map[string]string{
		"target_altitude":    "10",
		"climb_rate":         "2",
		"stabilization_time": "1",
	})
	if err := (Ascend{}).Execute(context.Background(), env, cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got := env.State.Position.Z; got != 10 {
		t.Errorf("altitude = %v, want 10", got)
	}
	if env.State.Velocity.Z != 0 {
		t.Errorf("vertical velocity = %v, want 0", env.State.Velocity.Z)
	}
	if !env.State.Flying {
		t.Error("vehicle should be flying")
	}
	if got := env.State.Mode; got != model.ModeHover {
		t.Errorf("mode = %v, want %v", got, model.ModeHover)
	}

	// 5s climb plus 1s stabilization at 10 Hz.
	if got := env.Emitter.Count(); got != 60 {
		t.Errorf("snapshot count = %d, want 60", got)
	}

	// The climb never overshoots the target.
	for _, snap := range sink.all() {
		if snap.Position.Z > 10+1e-9 {
			t.Fatalf("altitude %v overshot target during climb", snap.Position.Z)
		}
	}
}

func TestAscendClimbIsMonotonic(t *testing.T) {
	env, sink := newTestEnv(t)

	cmd := cmdWith(model.KindAscend, map[string]string{
		"target_altitude": "20",
		"climb_rate":      "4",
	})
	if err := (Ascend{}).Execute(context.Background(), env, cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}

	prev := math.Inf(-1)
	for _, snap := range sink.all() {
		if snap.Position.Z < prev {
			t.Fatalf("altitude went down mid-climb: %v -> %v", prev, snap.Position.Z)
		}
		prev = snap.Position.Z
	}
}

func TestAscendRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{"missing target", map[string]string{"climb_rate": "2"}},
		{"missing rate", map[string]string{"target_altitude": "10"}},
		{"zero rate", map[string]string{"target_altitude": "10", "climb_rate": "0"}},
		{"negative target", map[string]string{"target_altitude": "-5", "climb_rate": "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _ := newTestEnv(t)
			err := (Ascend{}).Execute(context.Background(), env, cmdWith(model.KindAscend, tt.params))
			if !errors.Is(err, model.ErrConfigInvalid) {
				t.Errorf("err = %v, want config invalid", err)
			}
		})
	}
}

func TestAscendAboveTargetHoldsAltitude(t *testing.T) {
	env, sink := newTestEnv(t)
	hover(t, env, 20)

	// A target below the current altitude is a no-op climb; ascend never
	// moves the vehicle down.
	cmd := cmdWith(model.KindAscend, map[string]string{
		"target_altitude":    "10",
		"climb_rate":         "2",
		"stabilization_time": "1",
	})
	if err := (Ascend{}).Execute(context.Background(), env, cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got := env.State.Position.Z; got != 20 {
		t.Errorf("altitude = %v, want 20", got)
	}
	if got := env.State.Mode; got != model.ModeHover {
		t.Errorf("mode = %v, want %v", got, model.ModeHover)
	}
	for _, snap := range sink.all() {
		if snap.Position.Z < 20 {
			t.Fatalf("altitude dropped to %v during a no-op climb", snap.Position.Z)
		}
	}
}

func TestAscendAbortsAboveCeiling(t *testing.T) {
	env, _ := newTestEnv(t)

	// Ceiling is 50ft; a 60ft target must trip the altitude check mid-climb.
	cmd := cmdWith(model.KindAscend, map[string]string{
		"target_altitude": "60",
		"climb_rate":      "5",
	})
	err := (Ascend{}).Execute(context.Background(), env, cmd)

	var violation *safety.Violation
	if !errors.As(err, &violation) {
		t.Fatalf("err = %v, want safety violation", err)
	}
	if violation.Check != safety.CheckAltitudeHold {
		t.Errorf("failed check = %q, want %q", violation.Check, safety.CheckAltitudeHold)
	}

	// The loop stopped at the violation instead of finishing the climb.
	if env.State.Position.Z >= 60 {
		t.Errorf("climb ran to completion despite violation, altitude %v", env.State.Position.Z)
	}
}

func TestAscendCancelledContext(t *testing.T) {
	env, _ := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := cmdWith(model.KindAscend, map[string]string{
		"target_altitude": "10",
		"climb_rate":      "2",
	})
	if err := (Ascend{}).Execute(ctx, env, cmd); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
