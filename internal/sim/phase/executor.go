// Package phase holds the per-command executors. Each executor owns the
// numeric integration for one command kind and runs it as a fixed-timestep
// loop: update state, emit telemetry, re-check safety, every tick.
package phase

import (
	"context"
	"math"
	"time"

	"github.com/aloft-io/aloft/internal/pkg/metrics"
	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/internal/sim/modes"
	"github.com/aloft-io/aloft/internal/sim/safety"
	"github.com/aloft-io/aloft/internal/sim/telemetry"
	"github.com/aloft-io/aloft/pkg/log"
)

// Clock abstracts tick pacing so tests can run loops without real delays.
type Clock interface {
	// After returns a channel that fires once d has elapsed.
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock paces ticks against wall-clock time.
var RealClock Clock = realClock{}

// Battery drain and motor heating rates, per second of the activity.
// Continuous maneuvering (climb, circle) costs more than station keeping.
const (
	drainClimbPctPerSec   = 0.40
	drainHoverPctPerSec   = 0.15
	drainCirclePctPerSec  = 0.30
	drainDescendPctPerSec = 0.20

	heatClimbCPerSec  = 1.5
	heatHoverCPerSec  = 0.4
	heatCircleCPerSec = 1.0
	coolCPerSec       = 2.0

	// Station keeping drains on a coarser cadence than active maneuvering.
	holdDrainEveryNTicks = 10
)

// Env is everything an executor needs to run one command: the state it
// mutates, the mode machine, the emitter, the gate it re-checks every tick
// and the clock that paces the loop. The controller builds one Env per
// mission run; executors never outlive it.
type Env struct {
	State   *model.DroneState
	Safety  *safety.Gate
	Params  model.SafetyParameters
	Modes   *modes.Machine
	Emitter *telemetry.Emitter
	Clock   Clock
	RateHz  float64
	Log     log.Logger
}

func (e *Env) dt() float64 { return 1.0 / e.RateHz }

// stepsFor converts a duration in seconds to a tick count, at least 1.
func (e *Env) stepsFor(seconds float64) int {
	n := int(math.Ceil(seconds * e.RateHz))
	if n < 1 {
		n = 1
	}
	return n
}

// runTicks drives the fixed-timestep loop. Per tick: wait one interval, let
// fn update the state, advance the flight clock, emit telemetry, then run
// the runtime safety checks. A failed check (or a cancelled context) returns
// immediately; no further ticks run.
func (e *Env) runTicks(ctx context.Context, steps int, label string, fn func(tick int, dt float64) error) error {
	interval := time.Duration(float64(time.Second) / e.RateHz)
	dt := e.dt()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.Clock.After(interval):
		}

		if err := fn(i, dt); err != nil {
			return err
		}

		e.State.AdvanceClock(dt)
		metrics.TicksTotal.Inc()
		e.Emitter.Emit(ctx, e.State, label)

		if err := e.Safety.Monitor(e.State, e.Params); err != nil {
			return err
		}
	}
	return nil
}

// Executor runs one command kind.
type Executor interface {
	Kind() model.CommandKind
	Execute(ctx context.Context, env *Env, cmd model.CommandSpec) error
}

// ForKind returns the executor for a command kind. The switch is exhaustive
// over the closed kind set; anything else is a configuration error (callers
// validate before execution, so hitting the default here means a validation
// bug, not a mid-mission surprise).
func ForKind(kind model.CommandKind) (Executor, error) {
	switch kind {
	case model.KindAscend:
		return Ascend{}, nil
	case model.KindHold:
		return Hold{}, nil
	case model.KindCircularPath:
		return CircularPath{}, nil
	case model.KindDescendAndLand:
		return DescendAndLand{}, nil
	default:
		return nil, &model.UnsupportedCommandKindError{Kind: kind}
	}
}
