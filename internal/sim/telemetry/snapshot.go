package telemetry

import (
	"context"

	"github.com/aloft-io/aloft/internal/sim/model"
)

// Snapshot is one telemetry frame: the reported view of the vehicle state at
// a single tick. Frames are produced in non-decreasing ElapsedSeconds order,
// at most once per tick.
type Snapshot struct {
	Mission string `json:"mission"`
	Vehicle string `json:"vehicle"`

	// Phase labels the command execution span that produced the frame.
	Phase string     `json:"phase"`
	Mode  model.Mode `json:"mode"`

	CommandID       int     `json:"command_id"`
	ProgressPercent int     `json:"progress_percent"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`

	Position model.Vector3 `json:"position"`
	SpeedFPS float64       `json:"speed_fps"`

	BatteryPercent int     `json:"battery_percent"`
	BatteryVolts   float64 `json:"battery_volts"`

	SignalPercent  int     `json:"signal_percent"`
	SatelliteCount int     `json:"satellite_count"`
	AvgMotorTempC  float64 `json:"avg_motor_temp_c"`
}

// Sink consumes snapshots. Implementations are side-effecting (console, MQTT,
// flight log); the engine guarantees call ordering and rate, nothing else.
type Sink interface {
	Accept(ctx context.Context, snap Snapshot) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, snap Snapshot) error

func (f SinkFunc) Accept(ctx context.Context, snap Snapshot) error { return f(ctx, snap) }
