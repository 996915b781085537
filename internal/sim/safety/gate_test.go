package safety

import (
	"errors"
	"testing"

	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/pkg/log"
)

var params = model.SafetyParameters{
	MaxAltitudeFt:               50,
	EmergencyLandBatteryPercent: 20,
}

func TestBatteryCheck(t *testing.T) {
	gate := NewGate(log.NewNopLogger())
	state := model.NewDroneState(4)

	if err := gate.Check([]string{CheckBatteryLevel}, state, params); err != nil {
		t.Fatalf("full battery failed: %v", err)
	}

	state.BatteryPercent = 19
	err := gate.Check([]string{CheckBatteryLevel}, state, params)
	var violation *Violation
	if !errors.As(err, &violation) {
		t.Fatalf("err = %v, want violation", err)
	}
	if violation.Check != CheckBatteryLevel {
		t.Errorf("check = %q, want %q", violation.Check, CheckBatteryLevel)
	}

	// Exactly at the threshold still passes; the check is strict below.
	state.BatteryPercent = 20
	if err := gate.Check([]string{CheckBatteryLevel}, state, params); err != nil {
		t.Errorf("threshold battery failed: %v", err)
	}
}

func TestAltitudeCheck(t *testing.T) {
	gate := NewGate(log.NewNopLogger())
	state := model.NewDroneState(4)

	state.SetAltitude(50)
	if err := gate.Check([]string{CheckAltitudeHold}, state, params); err != nil {
		t.Fatalf("at ceiling failed: %v", err)
	}

	state.SetAltitude(50.1)
	var violation *Violation
	if err := gate.Check([]string{CheckAltitudeHold}, state, params); !errors.As(err, &violation) {
		t.Fatalf("err = %v, want violation", err)
	}
}

func TestViolationSnapshotsState(t *testing.T) {
	gate := NewGate(log.NewNopLogger())
	state := model.NewDroneState(4)
	state.BatteryPercent = 5

	err := gate.Check([]string{CheckBatteryLevel}, state, params)
	var violation *Violation
	if !errors.As(err, &violation) {
		t.Fatalf("err = %v, want violation", err)
	}

	// The captured state is frozen at the moment of failure.
	state.BatteryPercent = 90
	if violation.State.BatteryPercent != 5 {
		t.Errorf("violation state battery = %d, want 5", violation.State.BatteryPercent)
	}
}

func TestUnknownCheckIsConfigError(t *testing.T) {
	gate := NewGate(log.NewNopLogger())
	state := model.NewDroneState(4)

	err := gate.Check([]string{"wind_shear"}, state, params)
	if !errors.Is(err, model.ErrConfigInvalid) {
		t.Errorf("err = %v, want config invalid", err)
	}
}

func TestFirstFailureWins(t *testing.T) {
	gate := NewGate(log.NewNopLogger())
	state := model.NewDroneState(4)
	state.BatteryPercent = 5
	state.SetAltitude(60)

	err := gate.Check([]string{CheckBatteryLevel, CheckAltitudeHold}, state, params)
	var violation *Violation
	if !errors.As(err, &violation) {
		t.Fatalf("err = %v, want violation", err)
	}
	if violation.Check != CheckBatteryLevel {
		t.Errorf("check = %q, want first configured check", violation.Check)
	}
}

func TestAdvisoryChecksPass(t *testing.T) {
	gate := NewGate(log.NewNopLogger())
	state := model.NewDroneState(4)

	names := []string{CheckPositionStability, CheckPathClear, CheckLandingZoneClear}
	if err := gate.Check(names, state, params); err != nil {
		t.Errorf("advisory checks failed: %v", err)
	}
}

func TestRegisterReplacesCheck(t *testing.T) {
	gate := NewGate(log.NewNopLogger())
	state := model.NewDroneState(4)

	gate.Register(CheckPathClear, func(*model.DroneState, model.SafetyParameters) string {
		return "obstacle ahead"
	})
	var violation *Violation
	if err := gate.Check([]string{CheckPathClear}, state, params); !errors.As(err, &violation) {
		t.Fatalf("replaced check did not fail: %v", err)
	}
}

func TestMonitorCoversRuntimeChecks(t *testing.T) {
	gate := NewGate(log.NewNopLogger())
	state := model.NewDroneState(4)

	if err := gate.Monitor(state, params); err != nil {
		t.Fatalf("healthy state failed monitor: %v", err)
	}

	state.BatteryPercent = 10
	if err := gate.Monitor(state, params); err == nil {
		t.Error("low battery passed monitor")
	}
}
