// Package telemetry formats and dispatches per-tick state snapshots. The
// emitter has no timer of its own: rate limiting comes entirely from the
// phase executors' tick loops.
package telemetry

import (
	"context"
	"sync"

	"github.com/aloft-io/aloft/internal/pkg/metrics"
	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/pkg/log"
)

// EmitterParams collects the dependencies of an Emitter.
type EmitterParams struct {
	Config  model.TelemetryConfig
	Mission string
	Vehicle string

	// Noise supplies the non-physical telemetry fields. Required.
	Noise *Noise

	// Display receives snapshots only when Config.RealTimeDisplay is set.
	// May be nil.
	Display Sink

	// Recorder receives snapshots only when Config.LoggingEnabled is set.
	// May be nil.
	Recorder Sink

	Logger log.Logger
}

// Emitter builds a Snapshot from the vehicle state once per tick and routes
// it. Snapshots always feed progress/state tracking (the retained last frame
// and the counters) regardless of the display setting.
type Emitter struct {
	cfg      model.TelemetryConfig
	mission  string
	vehicle  string
	noise    *Noise
	display  Sink
	recorder Sink
	log      log.Logger

	mu       sync.RWMutex
	last     Snapshot
	haveLast bool
	count    int
}

// NewEmitter constructs an Emitter.
func NewEmitter(p EmitterParams) *Emitter {
	logger := p.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Emitter{
		cfg:      p.Config,
		mission:  p.Mission,
		vehicle:  p.Vehicle,
		noise:    p.Noise,
		display:  p.Display,
		recorder: p.Recorder,
		log:      logger.WithName("telemetry"),
	}
}

// Emit formats the current state under the given phase label and dispatches
// it. Called exactly once per tick by the owning executor; never concurrently.
func (e *Emitter) Emit(ctx context.Context, state *model.DroneState, phase string) {
	state.SignalPercent = e.noise.SignalPercent(state.Position.Z)
	state.SatelliteCount = e.noise.SatelliteCount()

	snap := Snapshot{
		Mission:         e.mission,
		Vehicle:         e.vehicle,
		Phase:           phase,
		Mode:            state.Mode,
		CommandID:       state.CurrentCommandID,
		ProgressPercent: state.ProgressPercent,
		ElapsedSeconds:  state.ElapsedSeconds,
		Position:        state.Position,
		SpeedFPS:        state.Speed(),
		BatteryPercent:  state.BatteryPercent,
		BatteryVolts:    state.BatteryVolts(),
		SignalPercent:   state.SignalPercent,
		SatelliteCount:  state.SatelliteCount,
		AvgMotorTempC:   state.AvgMotorTempC(),
	}

	e.mu.Lock()
	e.last = snap
	e.haveLast = true
	e.count++
	e.mu.Unlock()

	metrics.SnapshotsTotal.Inc()

	if e.cfg.RealTimeDisplay && e.display != nil {
		if err := e.display.Accept(ctx, snap); err != nil {
			e.log.Warn("Display sink rejected snapshot", "error", err, "phase", phase)
		}
	}

	if e.cfg.LoggingEnabled && e.recorder != nil {
		if err := e.recorder.Accept(ctx, snap); err != nil {
			e.log.Warn("Recorder rejected snapshot", "error", err, "phase", phase)
		}
	}
}

// Last returns the most recent snapshot, if any. Safe for concurrent readers
// (the status HTTP server polls it).
func (e *Emitter) Last() (Snapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last, e.haveLast
}

// Count returns the number of snapshots produced so far.
func (e *Emitter) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.count
}
