package phase

import (
	"context"
	"math"

	"github.com/aloft-io/aloft/internal/sim/model"
)

// Hold keeps station for a fixed duration. Drift is modeled as a slow
// sinusoidal perturbation around the entry position; enabling position_hold
// shrinks the amplitude (active correction) rather than eliminating it.
//
// Params: duration (s), position_hold (bool, default false),
// altitude_tolerance (ft, default 0.5).
type Hold struct{}

// Drift model: one full wander cycle roughly every 8 seconds.
const driftPeriodSec = 8.0

func (Hold) Kind() model.CommandKind { return model.KindHold }

func (Hold) Execute(ctx context.Context, env *Env, cmd model.CommandSpec) error {
	duration := cmd.Params.Float("duration", 0)
	positionHold := cmd.Params.Bool("position_hold", false)
	tolerance := cmd.Params.Float("altitude_tolerance", 0.5)

	if duration <= 0 {
		return &model.ConfigError{Field: "hold params", Reason: "duration must be > 0"}
	}

	if err := env.Modes.EnsureHover(ctx); err != nil {
		return err
	}

	center := env.State.Position

	amp := 0.5
	if positionHold {
		amp = 0.15
	}
	ampZ := math.Min(tolerance*0.4, 0.2)
	omega := 2 * math.Pi / driftPeriodSec

	env.Log.Info("Holding position", "duration_s", duration, "position_hold", positionHold)

	err := env.runTicks(ctx, env.stepsFor(duration), "hold", func(tick int, dt float64) error {
		t := dt * float64(tick+1)

		env.State.Position.X = center.X + amp*math.Sin(omega*t)
		env.State.Position.Y = center.Y + amp*math.Cos(omega*t)*0.6
		env.State.SetAltitude(center.Z + ampZ*math.Sin(omega*t*0.5))

		env.State.Velocity.X = amp * omega * math.Cos(omega*t)
		env.State.Velocity.Y = -amp * omega * math.Sin(omega*t) * 0.6
		env.State.Velocity.Z = 0

		// Station keeping drains on a coarser interval than maneuvering.
		if (tick+1)%holdDrainEveryNTicks == 0 {
			env.State.DrainBattery(drainHoverPctPerSec * dt * holdDrainEveryNTicks)
		}
		env.State.HeatMotors(dt, heatHoverCPerSec)
		return nil
	})
	if err != nil {
		return err
	}

	// Settle back on the entry point before the next command.
	env.State.Position = center
	env.State.StopMotion()
	return nil
}
