package model

import (
	"strconv"
	"time"
)

// CommandKind identifies one of the supported flight command types. The set
// is closed: dispatch sites switch exhaustively over it and validation
// rejects anything else before a mission starts.
type CommandKind string

const (
	KindAscend         CommandKind = "ascend"
	KindHold           CommandKind = "hold"
	KindCircularPath   CommandKind = "circular_path"
	KindDescendAndLand CommandKind = "descend_and_land"
)

// KnownKind reports whether k names a supported command type.
func KnownKind(k CommandKind) bool {
	switch k {
	case KindAscend, KindHold, KindCircularPath, KindDescendAndLand:
		return true
	}
	return false
}

// Params is the free-form parameter bag of a CommandSpec. Key semantics
// depend on the command kind; values are kept as strings the way they arrive
// from the mission file, with typed accessors for consumers.
type Params map[string]string

// Float returns the value for key parsed as float64, or def when the key is
// absent or unparseable.
func (p Params) Float(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Int returns the value for key parsed as int, or def.
func (p Params) Int(key string, def int) int {
	if v, ok := p[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Bool returns the value for key parsed as bool, or def.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// String returns the raw value for key, or def.
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// CommandSpec is one element of a mission's ordered command sequence. ID is
// unique within the mission and defines execution order; ids must be
// contiguous and ascending.
type CommandSpec struct {
	// ID is the 1-based sequence number of the command.
	ID int

	// Kind selects the phase executor.
	Kind CommandKind

	// Description is free-form operator text.
	Description string

	// Params carries kind-specific parameters.
	Params Params

	// ExpectedDuration is informational only; a command running longer is
	// not an error.
	ExpectedDuration time.Duration

	// SafetyChecks names the gate checks run before this command executes.
	SafetyChecks []string
}

// SafetyParameters are the per-mission safety thresholds. Immutable once the
// mission is loaded; every phase consults them.
type SafetyParameters struct {
	// MaxAltitudeFt is the ceiling in feet.
	MaxAltitudeFt float64

	// MaxHorizontalSpeedFPS is the horizontal speed limit in feet per second.
	MaxHorizontalSpeedFPS float64

	// EmergencyLandBatteryPercent is the battery floor; below it the
	// battery_level check fails.
	EmergencyLandBatteryPercent int

	// GeofenceRadiusFt bounds the nominal operating area. Advisory in the
	// simulated core.
	GeofenceRadiusFt float64

	// MaxWindSpeedFPS is the maximum tolerable wind speed.
	MaxWindSpeedFPS float64
}

// EnvironmentRequirements describe where a mission may be flown.
type EnvironmentRequirements struct {
	IndoorSafe      bool
	OutdoorCapable  bool
	SpaceRequired   string
}

// TelemetryConfig controls snapshot production for a mission.
type TelemetryConfig struct {
	// UpdateRateHz is the tick rate. Must be > 0.
	UpdateRateHz float64

	// DataPoints is an informational filter naming the reported fields.
	DataPoints []string

	// LoggingEnabled turns on flight log recording.
	LoggingEnabled bool

	// RealTimeDisplay forwards snapshots to the external sink. Snapshots
	// still feed progress and metrics when disabled.
	RealTimeDisplay bool
}

// MissionDefinition is a declarative mission: an ordered command list plus
// the thresholds and telemetry settings it is flown under. Immutable once
// loaded.
type MissionDefinition struct {
	Name              string
	Description       string
	TargetModel       string
	EstimatedDuration time.Duration

	Safety      SafetyParameters
	Environment EnvironmentRequirements
	Telemetry   TelemetryConfig

	Commands []CommandSpec
}
