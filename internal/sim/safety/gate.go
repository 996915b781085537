// Package safety evaluates named pre-flight and in-flight checks against the
// current vehicle state and the mission's safety thresholds.
package safety

import (
	"fmt"

	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/pkg/log"
)

// Named checks. The set is closed for the simulated core; a sensor-backed
// deployment registers replacements for the advisory checks.
const (
	CheckBatteryLevel      = "battery_level"
	CheckAltitudeHold      = "altitude_hold"
	CheckPositionStability = "position_stability"
	CheckPathClear         = "path_clear"
	CheckLandingZoneClear  = "landing_zone_clear"
)

// Violation is the failure of a single named check. It captures the state at
// the moment of evaluation; the mission outcome records it and the run ends.
type Violation struct {
	Check  string
	Reason string
	State  *model.DroneState
}

func (v *Violation) Error() string {
	return fmt.Sprintf("safety violation: %s: %s", v.Check, v.Reason)
}

// CheckFunc evaluates one check. A non-empty return is the failure reason.
type CheckFunc func(state *model.DroneState, params model.SafetyParameters) string

// Gate holds the check registry. Checks are independent; Check evaluates the
// requested names in order and stops at the first failure. There is no retry.
type Gate struct {
	log    log.Logger
	checks map[string]CheckFunc
}

// NewGate returns a Gate with the standard check set registered.
func NewGate(logger log.Logger) *Gate {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	g := &Gate{
		log:    logger.WithName("safety"),
		checks: make(map[string]CheckFunc),
	}

	g.Register(CheckBatteryLevel, checkBatteryLevel)
	g.Register(CheckAltitudeHold, checkAltitudeHold)

	// Advisory checks always pass in the simulated core. They exist so a
	// sensor-backed implementation can slot in without touching missions.
	g.Register(CheckPositionStability, alwaysPass)
	g.Register(CheckPathClear, alwaysPass)
	g.Register(CheckLandingZoneClear, alwaysPass)

	return g
}

// Register adds or replaces a named check.
func (g *Gate) Register(name string, fn CheckFunc) {
	g.checks[name] = fn
}

// Check evaluates the named checks against the current state. It returns nil
// when every check passes, a *Violation on the first failure, and a
// configuration error for a name with no registered check.
func (g *Gate) Check(names []string, state *model.DroneState, params model.SafetyParameters) error {
	for _, name := range names {
		fn, ok := g.checks[name]
		if !ok {
			return &model.ConfigError{
				Field:  "safety_checks",
				Reason: fmt.Sprintf("unknown check %q", name),
			}
		}

		if reason := fn(state, params); reason != "" {
			g.log.Warn("Safety check failed", "check", name, "reason", reason,
				"battery", state.BatteryPercent, "altitude", state.Position.Z)
			return &Violation{Check: name, Reason: reason, State: state.Clone()}
		}
		g.log.Debug("Safety check passed", "check", name)
	}
	return nil
}

// Monitor is the per-tick runtime subset of the gate: battery and altitude.
// Phase executors call it on every iteration so a violation stops the
// current loop immediately, not only at command boundaries.
func (g *Gate) Monitor(state *model.DroneState, params model.SafetyParameters) error {
	return g.Check([]string{CheckBatteryLevel, CheckAltitudeHold}, state, params)
}

func checkBatteryLevel(state *model.DroneState, params model.SafetyParameters) string {
	if state.BatteryPercent < params.EmergencyLandBatteryPercent {
		return fmt.Sprintf("battery %d%% below emergency-land threshold %d%%",
			state.BatteryPercent, params.EmergencyLandBatteryPercent)
	}
	return ""
}

func checkAltitudeHold(state *model.DroneState, params model.SafetyParameters) string {
	if state.Position.Z > params.MaxAltitudeFt {
		return fmt.Sprintf("altitude %.1fft above ceiling %.1fft",
			state.Position.Z, params.MaxAltitudeFt)
	}
	return ""
}

func alwaysPass(*model.DroneState, model.SafetyParameters) string { return "" }
