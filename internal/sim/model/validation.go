package model

import (
	"fmt"
	"strconv"
)

// requiredParams lists the parameters each command kind cannot run without.
// All of them are magnitudes (altitudes, rates, durations, radii), so a value
// that parses but is not strictly positive is rejected here as well; nothing
// arms on a mission an executor would refuse. Optional parameters have
// executor-side defaults and are not listed.
var requiredParams = map[CommandKind][]string{
	KindAscend:         {"target_altitude", "climb_rate"},
	KindHold:           {"duration"},
	KindCircularPath:   {"radius", "speed"},
	KindDescendAndLand: {"descent_rate"},
}

// Validate checks a mission definition for structural problems: missing
// fields, bad thresholds, unknown command kinds and broken id sequencing.
// It fails fast so nothing is discovered mid-mission.
func (m *MissionDefinition) Validate() error {
	if m.Name == "" {
		return &ConfigError{Field: "name", Reason: "mission name is required"}
	}
	if m.Telemetry.UpdateRateHz <= 0 {
		return &ConfigError{
			Field:  "telemetry.update_rate_hz",
			Reason: fmt.Sprintf("must be > 0, got %v", m.Telemetry.UpdateRateHz),
		}
	}
	if m.Safety.MaxAltitudeFt <= 0 {
		return &ConfigError{Field: "safety.max_altitude_ft", Reason: "must be > 0"}
	}
	if m.Safety.EmergencyLandBatteryPercent < 0 || m.Safety.EmergencyLandBatteryPercent > 100 {
		return &ConfigError{
			Field:  "safety.emergency_land_battery_percent",
			Reason: fmt.Sprintf("must be within [0, 100], got %d", m.Safety.EmergencyLandBatteryPercent),
		}
	}

	for i, cmd := range m.Commands {
		if !KnownKind(cmd.Kind) {
			return &UnsupportedCommandKindError{ID: cmd.ID, Kind: cmd.Kind}
		}

		// ID is the only defined order; gaps or non-monotonic ids are a
		// configuration error.
		want := i + 1
		if cmd.ID != want {
			return &ConfigError{
				Field:  fmt.Sprintf("commands[%d].id", i),
				Reason: fmt.Sprintf("ids must be contiguous and ascending from 1; got %d, want %d", cmd.ID, want),
			}
		}

		for _, key := range requiredParams[cmd.Kind] {
			raw, ok := cmd.Params[key]
			if !ok {
				return &ConfigError{
					Field:  fmt.Sprintf("commands[%d].params.%s", i, key),
					Reason: fmt.Sprintf("required for kind %q", cmd.Kind),
				}
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return &ConfigError{
					Field:  fmt.Sprintf("commands[%d].params.%s", i, key),
					Reason: fmt.Sprintf("not a number: %q", raw),
				}
			}
			if v <= 0 {
				return &ConfigError{
					Field:  fmt.Sprintf("commands[%d].params.%s", i, key),
					Reason: fmt.Sprintf("must be > 0, got %q", raw),
				}
			}
		}
	}

	return nil
}
