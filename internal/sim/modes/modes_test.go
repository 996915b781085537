package modes

import (
	"context"
	"testing"

	"github.com/aloft-io/aloft/internal/sim/model"
)

func TestFullMissionLifecycle(t *testing.T) {
	state := model.NewDroneState(4)
	m := NewMachine(state)
	ctx := context.Background()

	sequence := []struct {
		event string
		want  model.Mode
	}{
		{EventArm, model.ModeArmed},
		{EventTakeoff, model.ModeAscend},
		{EventStabilize, model.ModeStabilizing},
		{EventHover, model.ModeHover},
		{EventBeginCircle, model.ModeCircle},
		{EventHover, model.ModeHover},
		{EventBeginDescent, model.ModeDescending},
		{EventFinalApproach, model.ModeFinalApproach},
		{EventTouchdown, model.ModeLanded},
		{EventComplete, model.ModeMissionComplete},
	}
	for _, step := range sequence {
		if err := m.Fire(ctx, step.event); err != nil {
			t.Fatalf("fire %s: %v", step.event, err)
		}
		if m.Current() != step.want {
			t.Fatalf("after %s: mode = %v, want %v", step.event, m.Current(), step.want)
		}
		if state.Mode != step.want {
			t.Fatalf("state mode %v not mirrored to %v", state.Mode, step.want)
		}
	}
}

func TestIllegalTransitionRejected(t *testing.T) {
	state := model.NewDroneState(4)
	m := NewMachine(state)
	ctx := context.Background()

	// Cannot take off without arming first.
	if err := m.Fire(ctx, EventTakeoff); err == nil {
		t.Error("takeoff from disarmed should fail")
	}
	if m.Current() != model.ModeDisarmed {
		t.Errorf("mode = %v after rejected event, want disarmed", m.Current())
	}
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	state := model.NewDroneState(4)
	m := NewMachine(state)
	ctx := context.Background()

	if err := m.Fire(ctx, EventArm); err != nil {
		t.Fatal(err)
	}
	if err := m.Fire(ctx, EventAbort); err != nil {
		t.Fatal(err)
	}
	if m.Current() != model.ModeAborted {
		t.Fatalf("mode = %v, want aborted", m.Current())
	}

	for _, event := range []string{EventArm, EventTakeoff, EventHover, EventComplete, EventAbort} {
		if err := m.Fire(ctx, event); err == nil {
			t.Errorf("event %s accepted from aborted state", event)
		}
	}
}

func TestAbortFromEveryFlightState(t *testing.T) {
	advance := func(t *testing.T, events ...string) *Machine {
		t.Helper()
		m := NewMachine(model.NewDroneState(4))
		for _, e := range events {
			if err := m.Fire(context.Background(), e); err != nil {
				t.Fatalf("setup fire %s: %v", e, err)
			}
		}
		return m
	}

	tests := []struct {
		name   string
		events []string
	}{
		{"armed", []string{EventArm}},
		{"ascending", []string{EventArm, EventTakeoff}},
		{"hovering", []string{EventArm, EventTakeoff, EventStabilize, EventHover}},
		{"circling", []string{EventArm, EventTakeoff, EventStabilize, EventHover, EventBeginCircle}},
		{"descending", []string{EventArm, EventBeginDescent}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := advance(t, tt.events...)
			if err := m.Fire(context.Background(), EventAbort); err != nil {
				t.Fatalf("abort: %v", err)
			}
			if m.Current() != model.ModeAborted {
				t.Errorf("mode = %v, want aborted", m.Current())
			}
		})
	}
}

func TestTakeoffFromHoverAndLanded(t *testing.T) {
	advance := func(t *testing.T, events ...string) *Machine {
		t.Helper()
		m := NewMachine(model.NewDroneState(4))
		for _, e := range events {
			if err := m.Fire(context.Background(), e); err != nil {
				t.Fatalf("setup fire %s: %v", e, err)
			}
		}
		return m
	}

	tests := []struct {
		name   string
		events []string
	}{
		// A second climb after the first one settled into hover.
		{"climb higher from hover", []string{EventArm, EventTakeoff, EventStabilize, EventHover}},
		// Relaunch after touching down mid-mission.
		{"relaunch from landed", []string{EventArm, EventBeginDescent, EventFinalApproach, EventTouchdown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := advance(t, tt.events...)
			if err := m.Fire(context.Background(), EventTakeoff); err != nil {
				t.Fatalf("takeoff: %v", err)
			}
			if m.Current() != model.ModeAscend {
				t.Errorf("mode = %v, want ascend", m.Current())
			}
		})
	}
}

func TestEnsureHoverIsIdempotent(t *testing.T) {
	m := NewMachine(model.NewDroneState(4))
	ctx := context.Background()

	if err := m.Fire(ctx, EventArm); err != nil {
		t.Fatal(err)
	}
	if err := m.EnsureHover(ctx); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if err := m.EnsureHover(ctx); err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if m.Current() != model.ModeHover {
		t.Errorf("mode = %v, want hover", m.Current())
	}
}
