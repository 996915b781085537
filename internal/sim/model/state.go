package model

import "math"

// Mode is the vehicle's lifecycle state. Transitions are driven by the mode
// state machine owned by the mission controller; nothing else writes Mode.
type Mode string

const (
	ModeDisarmed        Mode = "disarmed"
	ModeArmed           Mode = "armed"
	ModeAscend          Mode = "ascend"
	ModeStabilizing     Mode = "stabilizing"
	ModeHover           Mode = "hover"
	ModeCircle          Mode = "circle"
	ModeDescending      Mode = "descending"
	ModeFinalApproach   Mode = "final_approach"
	ModeLanded          Mode = "landed"
	ModeMissionComplete Mode = "mission_complete"
	ModeAborted         Mode = "aborted"
)

// Terminal reports whether m ends a mission run.
func (m Mode) Terminal() bool {
	return m == ModeMissionComplete || m == ModeAborted
}

// Vector3 is a position or velocity in the local frame, in feet or feet per
// second. Z is up; the ground is z = 0.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Magnitude returns the vector length.
func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Horizontal returns the length of the XY projection.
func (v Vector3) Horizontal() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Motor temperature envelope, degrees Celsius.
const (
	AmbientTempC  = 20.0
	MaxMotorTempC = 85.0
)

// Battery pack voltage range (3S LiPo), used to derive voltage from percent.
const (
	batteryEmptyVolts = 10.5
	batteryFullVolts  = 12.6
)

// DroneState is the mutable vehicle state for one mission run. It is created
// fresh per run, owned exclusively by the mission controller, mutated in
// place by the phase executors and discarded with the outcome. It is never
// shared across missions or goroutines.
//
// Invariant-bearing fields (battery, altitude, progress, motor temperature)
// are only written through the mutators below.
type DroneState struct {
	Position Vector3
	Velocity Vector3

	// Home is the position at arming time; precision landing centers on it.
	Home Vector3

	BatteryPercent int
	Armed          bool
	Flying         bool
	Mode           Mode

	CurrentCommandID int
	ProgressPercent  int
	ElapsedSeconds   float64

	MotorTempsC    []float64
	SignalPercent  int
	SatelliteCount int

	// drainDebt accumulates fractional battery drain until a whole percent
	// can be deducted, keeping BatteryPercent an integer without losing
	// sub-percent drain.
	drainDebt float64
}

// NewDroneState returns the default state for a vehicle with the given motor
// count: on the ground, disarmed, full battery, motors at ambient.
func NewDroneState(motorCount int) *DroneState {
	if motorCount <= 0 {
		motorCount = 4
	}
	temps := make([]float64, motorCount)
	for i := range temps {
		temps[i] = AmbientTempC
	}
	return &DroneState{
		BatteryPercent: 100,
		Mode:           ModeDisarmed,
		MotorTempsC:    temps,
		SignalPercent:  100,
	}
}

// DrainBattery deducts pct (a possibly fractional percentage) from the
// battery. Battery percent never increases and never drops below zero.
func (s *DroneState) DrainBattery(pct float64) {
	if pct <= 0 {
		return
	}
	s.drainDebt += pct
	for s.drainDebt >= 1.0 && s.BatteryPercent > 0 {
		s.BatteryPercent--
		s.drainDebt -= 1.0
	}
	if s.BatteryPercent < 0 {
		s.BatteryPercent = 0
	}
}

// BatteryVolts derives the pack voltage from the battery percentage.
func (s *DroneState) BatteryVolts() float64 {
	frac := float64(s.BatteryPercent) / 100.0
	return batteryEmptyVolts + frac*(batteryFullVolts-batteryEmptyVolts)
}

// SetAltitude sets Position.Z, clamped so the vehicle never goes underground.
func (s *DroneState) SetAltitude(z float64) {
	if z < 0 {
		z = 0
	}
	s.Position.Z = z
}

// SetProgress advances mission progress. Progress is monotonic: attempts to
// lower it are ignored. Values are clamped to [0, 100].
func (s *DroneState) SetProgress(pct int) {
	if pct > 100 {
		pct = 100
	}
	if pct > s.ProgressPercent {
		s.ProgressPercent = pct
	}
}

// AdvanceClock moves elapsed flight time forward by dt seconds.
func (s *DroneState) AdvanceClock(dt float64) {
	if dt > 0 {
		s.ElapsedSeconds += dt
	}
}

// HeatMotors raises motor temperatures toward the clamp. ratePerSec is
// degrees Celsius per second of continuous maneuvering.
func (s *DroneState) HeatMotors(dt, ratePerSec float64) {
	for i := range s.MotorTempsC {
		s.MotorTempsC[i] += ratePerSec * dt
		if s.MotorTempsC[i] > MaxMotorTempC {
			s.MotorTempsC[i] = MaxMotorTempC
		}
	}
}

// CoolMotors decays motor temperatures toward ambient. Only meaningful after
// the vehicle has stopped flying.
func (s *DroneState) CoolMotors(dt, ratePerSec float64) {
	for i := range s.MotorTempsC {
		s.MotorTempsC[i] -= ratePerSec * dt
		if s.MotorTempsC[i] < AmbientTempC {
			s.MotorTempsC[i] = AmbientTempC
		}
	}
}

// AvgMotorTempC returns the mean motor temperature.
func (s *DroneState) AvgMotorTempC() float64 {
	if len(s.MotorTempsC) == 0 {
		return AmbientTempC
	}
	var sum float64
	for _, t := range s.MotorTempsC {
		sum += t
	}
	return sum / float64(len(s.MotorTempsC))
}

// Speed returns the magnitude of the velocity vector in feet per second.
func (s *DroneState) Speed() float64 {
	return s.Velocity.Magnitude()
}

// StopMotion zeroes every velocity component.
func (s *DroneState) StopMotion() {
	s.Velocity = Vector3{}
}

// Clone returns a deep copy, used for violation snapshots.
func (s *DroneState) Clone() *DroneState {
	c := *s
	c.MotorTempsC = append([]float64(nil), s.MotorTempsC...)
	return &c
}
