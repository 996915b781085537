package topic

import (
	"fmt"
)

// Topic suffixes shared between the simulator and anything consuming its
// output over MQTT. Changing these values breaks existing subscribers.
const (
	// SuffixTelemetry carries per-tick state snapshots.
	// Structure: {root}/telemetry/{vehicleID}
	SuffixTelemetry = "telemetry"

	// SuffixOutcome carries the terminal result of a mission run. Published
	// retained so late subscribers still see the last outcome.
	// Structure: {root}/outcome/{vehicleID}
	SuffixOutcome = "outcome"

	// SuffixStatus carries coarse liveness of the simulator itself, including
	// the last-will offline marker.
	// Structure: {root}/status/{vehicleID}
	SuffixStatus = "status"
)

// Builder constructs the MQTT topic strings for one namespace, so topic
// layout decisions live in exactly one place.
type Builder struct {
	// root is the base namespace for all topics (e.g. "aloft/v1").
	root string
}

// NewBuilder returns a Builder rooted at the given namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// Telemetry returns the snapshot topic for a vehicle.
func (b *Builder) Telemetry(vehicleID string) string {
	return b.build(SuffixTelemetry, vehicleID)
}

// TelemetryWildcard subscribes to snapshots from every vehicle.
// Result: {root}/telemetry/+
func (b *Builder) TelemetryWildcard() string {
	return b.build(SuffixTelemetry, Wildcard)
}

// Outcome returns the mission outcome topic for a vehicle.
func (b *Builder) Outcome(vehicleID string) string {
	return b.build(SuffixOutcome, vehicleID)
}

// Status returns the simulator liveness topic for a vehicle.
func (b *Builder) Status(vehicleID string) string {
	return b.build(SuffixStatus, vehicleID)
}

func (b *Builder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}
