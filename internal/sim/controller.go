// Package sim is the mission execution engine. The Controller takes a
// validated mission definition and a vehicle profile, drives a fresh
// DroneState through the mission's command sequence and returns a terminal
// MissionOutcome. All engine errors surface in the outcome; nothing retries.
package sim

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/aloft-io/aloft/internal/pkg/metrics"
	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/internal/sim/modes"
	"github.com/aloft-io/aloft/internal/sim/phase"
	"github.com/aloft-io/aloft/internal/sim/safety"
	"github.com/aloft-io/aloft/internal/sim/telemetry"
	"github.com/aloft-io/aloft/pkg/log"
)

// ControllerParams configures a Controller. Everything is optional except
// nothing: zero values give a silent, real-time engine with no sinks.
type ControllerParams struct {
	Logger log.Logger

	// Clock paces the tick loops. Nil means wall-clock pacing; tests inject
	// an instant clock.
	Clock phase.Clock

	// Display receives snapshots when the mission enables real-time display.
	Display telemetry.Sink

	// Recorder receives snapshots when the mission enables logging.
	Recorder telemetry.Sink

	// NoiseSeed seeds the sensor noise source. Runs with the same seed,
	// mission and vehicle produce identical trajectories. Zero derives the
	// seed from the mission name, so unseeded runs are still reproducible.
	NoiseSeed int64
}

// Controller executes missions one at a time. It holds no mission state
// between runs; each Execute builds a fresh DroneState, mode machine and
// telemetry emitter. Concurrent Execute calls are serialized.
type Controller struct {
	log      log.Logger
	gate     *safety.Gate
	clock    phase.Clock
	display  telemetry.Sink
	recorder telemetry.Sink
	seed     int64

	mu      sync.Mutex
	emitter *telemetry.Emitter
}

// NewController returns a Controller ready to execute missions.
func NewController(p ControllerParams) *Controller {
	logger := p.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	clock := p.Clock
	if clock == nil {
		clock = phase.RealClock
	}
	return &Controller{
		log:      logger.WithName("controller"),
		gate:     safety.NewGate(logger),
		clock:    clock,
		display:  p.Display,
		recorder: p.Recorder,
		seed:     p.NoiseSeed,
	}
}

// Gate exposes the safety check registry, so callers can swap advisory
// checks for sensor-backed ones before executing.
func (c *Controller) Gate() *safety.Gate { return c.gate }

// LastTelemetry returns the most recent snapshot of the current or last run.
// Safe to call concurrently with Execute; the status server reads it.
func (c *Controller) LastTelemetry() (telemetry.Snapshot, bool) {
	c.mu.Lock()
	em := c.emitter
	c.mu.Unlock()
	if em == nil {
		return telemetry.Snapshot{}, false
	}
	return em.Last()
}

// Execute runs one mission against one vehicle and returns the terminal
// outcome. The context cancels the run; a cancelled mission aborts.
func (c *Controller) Execute(ctx context.Context, mission *model.MissionDefinition, vehicle *model.VehicleProfile) *model.MissionOutcome {
	started := time.Now()
	outcome := c.execute(ctx, mission, vehicle, started)
	outcome.Elapsed = time.Since(started)

	metrics.MissionsTotal.WithLabelValues(string(outcome.Code)).Inc()
	metrics.MissionDuration.Observe(outcome.Elapsed.Seconds())

	c.log.Info("Mission finished", "mission", outcome.Mission, "outcome", outcome.Code,
		"reason", outcome.Reason, "elapsed", outcome.Elapsed.Round(time.Millisecond))
	return outcome
}

func (c *Controller) execute(ctx context.Context, mission *model.MissionDefinition, vehicle *model.VehicleProfile, started time.Time) *model.MissionOutcome {
	outcome := &model.MissionOutcome{Mission: mission.Name}
	if vehicle != nil {
		outcome.Vehicle = vehicle.ID
	}

	// Configuration errors fail before any state is created or mutated.
	if err := mission.Validate(); err != nil {
		outcome.Code = model.OutcomeConfigInvalid
		outcome.Reason = err.Error()
		return outcome
	}
	executors, err := resolveExecutors(mission.Commands)
	if err != nil {
		outcome.Code = model.OutcomeConfigInvalid
		outcome.Reason = err.Error()
		return outcome
	}

	state := model.NewDroneState(vehicle.MotorCount())
	outcome.FinalState = state

	if reason := preflight(mission, vehicle, state); reason != "" {
		c.log.Warn("Preflight failed", "mission", mission.Name, "reason", reason)
		outcome.Code = model.OutcomePreflightFailed
		outcome.Reason = reason
		return outcome
	}

	seed := c.seed
	if seed == 0 {
		h := fnv.New64a()
		h.Write([]byte(mission.Name))
		seed = int64(h.Sum64())
	}
	emitter := telemetry.NewEmitter(telemetry.EmitterParams{
		Config:   mission.Telemetry,
		Mission:  mission.Name,
		Vehicle:  outcome.Vehicle,
		Noise:    telemetry.NewNoise(seed, vehicle.HasPositioning()),
		Display:  c.display,
		Recorder: c.recorder,
		Logger:   c.log,
	})
	c.mu.Lock()
	c.emitter = emitter
	c.mu.Unlock()

	machine := modes.NewMachine(state)

	state.Armed = true
	state.Home = state.Position
	if err := machine.Fire(ctx, modes.EventArm); err != nil {
		outcome.Code = model.OutcomeConfigInvalid
		outcome.Reason = err.Error()
		return outcome
	}

	// Whatever path the run takes out of here, the vehicle disarms.
	defer func() { state.Armed = false }()

	c.log.Info("Mission armed", "mission", mission.Name, "vehicle", outcome.Vehicle,
		"commands", len(mission.Commands), "rate_hz", mission.Telemetry.UpdateRateHz)

	env := &phase.Env{
		State:   state,
		Safety:  c.gate,
		Params:  mission.Safety,
		Modes:   machine,
		Emitter: emitter,
		Clock:   c.clock,
		RateHz:  mission.Telemetry.UpdateRateHz,
		Log:     c.log,
	}

	total := len(mission.Commands)
	for i, cmd := range mission.Commands {
		state.CurrentCommandID = cmd.ID
		state.SetProgress(i * 100 / total)

		c.log.Info("Executing command", "id", cmd.ID, "kind", cmd.Kind,
			"description", cmd.Description, "progress", state.ProgressPercent)

		if err := c.gate.Check(cmd.SafetyChecks, state, mission.Safety); err != nil {
			if errors.Is(err, model.ErrConfigInvalid) {
				outcome.Code = model.OutcomeConfigInvalid
				outcome.Reason = err.Error()
				return outcome
			}
			return c.abort(ctx, machine, outcome, err)
		}
		if err := executors[i].Execute(ctx, env, cmd); err != nil {
			if errors.Is(err, model.ErrConfigInvalid) {
				outcome.Code = model.OutcomeConfigInvalid
				outcome.Reason = err.Error()
				return outcome
			}
			return c.abort(ctx, machine, outcome, err)
		}
	}

	if err := machine.Fire(ctx, modes.EventComplete); err != nil {
		return c.abort(ctx, machine, outcome, err)
	}

	state.SetProgress(100)
	state.Flying = false
	state.Armed = false

	outcome.Code = model.OutcomeSuccess
	return outcome
}

// abort stamps the state as aborted and fills the outcome. Abort is
// terminal; no later command runs.
func (c *Controller) abort(ctx context.Context, machine *modes.Machine, outcome *model.MissionOutcome, cause error) *model.MissionOutcome {
	outcome.Code = model.OutcomeAborted
	outcome.Reason = cause.Error()

	var violation *safety.Violation
	if errors.As(cause, &violation) {
		outcome.FailedCheck = violation.Check
		metrics.SafetyAbortsTotal.WithLabelValues(violation.Check).Inc()
	}

	// The machine refuses events from terminal states, so fire with a
	// background context in case the cause was a cancellation.
	if err := machine.Fire(context.WithoutCancel(ctx), modes.EventAbort); err != nil {
		c.log.Error(err, "Abort transition failed", "mission", outcome.Mission)
	}
	return outcome
}

// resolveExecutors maps every command to its executor up front, so an
// unsupported kind is a configuration error before execution begins rather
// than a mid-mission surprise.
func resolveExecutors(commands []model.CommandSpec) ([]phase.Executor, error) {
	executors := make([]phase.Executor, len(commands))
	for i, cmd := range commands {
		ex, err := phase.ForKind(cmd.Kind)
		if err != nil {
			var unsupported *model.UnsupportedCommandKindError
			if errors.As(err, &unsupported) {
				unsupported.ID = cmd.ID
			}
			return nil, err
		}
		executors[i] = ex
	}
	return executors, nil
}

// preflight runs the pre-arm checks. It returns the failure reason, or an
// empty string when the vehicle may arm. No state is mutated.
func preflight(mission *model.MissionDefinition, vehicle *model.VehicleProfile, state *model.DroneState) string {
	if vehicle == nil || vehicle.ID == "" {
		return "no vehicle profile"
	}
	if len(mission.Commands) == 0 {
		return "mission has no commands"
	}
	if state.BatteryPercent <= 0 {
		return "battery not present or empty"
	}
	if state.BatteryPercent < mission.Safety.EmergencyLandBatteryPercent {
		return "battery below emergency-land threshold before arming"
	}
	return ""
}
