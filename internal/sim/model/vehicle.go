package model

// VehicleProfile describes the simulated airframe. The Specs bag is
// loosely typed: it is used for display and context (weight, rated flight
// time, motor count and the like), never for physics.
type VehicleProfile struct {
	// ID is the unique identifier of the vehicle.
	ID string

	// Model is the airframe model name a mission targets.
	Model string

	// Description is a human-readable description.
	Description string

	// Specs is the capability bag from the vehicle file.
	Specs map[string]any
}

// MotorCount returns the motor count from the spec bag, defaulting to a
// quadcopter when absent or malformed.
func (v *VehicleProfile) MotorCount() int {
	if v == nil || v.Specs == nil {
		return 4
	}
	switch n := v.Specs["motor_count"].(type) {
	case int:
		if n > 0 {
			return n
		}
	case float64:
		if n > 0 {
			return int(n)
		}
	}
	return 4
}

// HasPositioning reports whether the airframe carries a satellite
// positioning receiver. Vehicles without one report zero satellites in
// telemetry.
func (v *VehicleProfile) HasPositioning() bool {
	if v == nil || v.Specs == nil {
		return false
	}
	if b, ok := v.Specs["gps"].(bool); ok {
		return b
	}
	return false
}
