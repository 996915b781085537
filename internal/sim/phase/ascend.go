package phase

import (
	"context"

	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/internal/sim/modes"
)

// Ascend climbs linearly to the target altitude, then holds a stabilization
// sub-phase before handing the vehicle over in hover.
//
// Params: target_altitude (ft), climb_rate (ft/s), stabilization_time (s,
// default 2).
type Ascend struct{}

func (Ascend) Kind() model.CommandKind { return model.KindAscend }

func (Ascend) Execute(ctx context.Context, env *Env, cmd model.CommandSpec) error {
	target := cmd.Params.Float("target_altitude", 0)
	rate := cmd.Params.Float("climb_rate", 0)
	stabilize := cmd.Params.Float("stabilization_time", 2)

	if target <= 0 || rate <= 0 {
		return &model.ConfigError{
			Field:  "ascend params",
			Reason: "target_altitude and climb_rate must be > 0",
		}
	}

	env.State.Flying = true
	if err := env.Modes.Fire(ctx, modes.EventTakeoff); err != nil {
		return err
	}

	// A vehicle already at or above the target holds its altitude; ascend
	// never descends.
	start := env.State.Position.Z
	if climb := target - start; climb > 0 {
		steps := env.stepsFor(climb / rate)

		env.Log.Info("Ascending", "target_ft", target, "rate_fps", rate, "steps", steps)

		err := env.runTicks(ctx, steps, "ascend", func(tick int, dt float64) error {
			z := start + rate*dt*float64(tick+1)
			if z > target {
				z = target
			}
			env.State.SetAltitude(z)
			env.State.Velocity.Z = rate

			env.State.DrainBattery(drainClimbPctPerSec * dt)
			env.State.HeatMotors(dt, heatClimbCPerSec)
			return nil
		})
		if err != nil {
			return err
		}

		// The climb sub-phase ends exactly at the target.
		env.State.SetAltitude(target)
	}
	env.State.Velocity.Z = 0

	if err := env.Modes.Fire(ctx, modes.EventStabilize); err != nil {
		return err
	}

	err := env.runTicks(ctx, env.stepsFor(stabilize), "stabilizing", func(tick int, dt float64) error {
		env.State.DrainBattery(drainHoverPctPerSec * dt)
		env.State.HeatMotors(dt, heatHoverCPerSec)
		return nil
	})
	if err != nil {
		return err
	}

	return env.Modes.Fire(ctx, modes.EventHover)
}
