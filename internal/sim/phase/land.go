package phase

import (
	"context"
	"math"

	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/internal/sim/modes"
)

// DescendAndLand brings the vehicle down in two stages: a descent at
// descent_rate to final_approach_height, then a slow final approach at
// touchdown_speed until touchdown. Motors start cooling only after the
// vehicle is on the ground.
//
// Params: descent_rate (ft/s), precision_landing (bool, default false),
// final_approach_height (ft, default 3), touchdown_speed (ft/s, default 0.5).
type DescendAndLand struct{}

const (
	centeringSec = 2.0
	cooldownSec  = 2.0
)

func (DescendAndLand) Kind() model.CommandKind { return model.KindDescendAndLand }

func (DescendAndLand) Execute(ctx context.Context, env *Env, cmd model.CommandSpec) error {
	descentRate := cmd.Params.Float("descent_rate", 0)
	approachHeight := cmd.Params.Float("final_approach_height", 3)
	touchdownSpeed := cmd.Params.Float("touchdown_speed", 0.5)
	precision := cmd.Params.Bool("precision_landing", false)

	if descentRate <= 0 {
		return &model.ConfigError{
			Field:  "descend_and_land params",
			Reason: "descent_rate must be > 0",
		}
	}
	if approachHeight < 0 {
		approachHeight = 0
	}
	if touchdownSpeed <= 0 {
		touchdownSpeed = 0.5
	}

	if err := env.Modes.Fire(ctx, modes.EventBeginDescent); err != nil {
		return err
	}

	// Precision landing drifts the vehicle back over the arming point before
	// the vertical descent starts.
	if precision {
		home := env.State.Home
		err := env.runTicks(ctx, env.stepsFor(centeringSec), "centering", func(tick int, dt float64) error {
			dx := home.X - env.State.Position.X
			dy := home.Y - env.State.Position.Y
			// Exponential approach: close a fixed fraction of the remaining
			// offset each tick.
			env.State.Position.X += dx * 0.5
			env.State.Position.Y += dy * 0.5
			env.State.Velocity.X = dx * 0.5 / dt
			env.State.Velocity.Y = dy * 0.5 / dt
			env.State.DrainBattery(drainHoverPctPerSec * dt)
			env.State.HeatMotors(dt, heatHoverCPerSec)
			return nil
		})
		if err != nil {
			return err
		}
		env.State.Position.X = home.X
		env.State.Position.Y = home.Y
		env.State.Velocity.X = 0
		env.State.Velocity.Y = 0
	}

	start := env.State.Position.Z

	// Stage one: descend to the final approach height.
	if start > approachHeight {
		descendTime := (start - approachHeight) / descentRate
		steps := env.stepsFor(descendTime)
		env.Log.Info("Descending", "from_ft", start, "to_ft", approachHeight, "rate_fps", descentRate)

		err := env.runTicks(ctx, steps, "descend", func(tick int, dt float64) error {
			z := start - descentRate*dt*float64(tick+1)
			if z < approachHeight {
				z = approachHeight
			}
			env.State.SetAltitude(z)
			env.State.Velocity.Z = -descentRate
			env.State.DrainBattery(drainDescendPctPerSec * dt)
			env.State.HeatMotors(dt, heatHoverCPerSec)
			return nil
		})
		if err != nil {
			return err
		}
		env.State.SetAltitude(approachHeight)
	}

	if err := env.Modes.Fire(ctx, modes.EventFinalApproach); err != nil {
		return err
	}

	// Stage two: final approach at touchdown speed until the skids touch.
	approachStart := env.State.Position.Z
	if approachStart > 0 {
		approachTime := approachStart / touchdownSpeed
		steps := env.stepsFor(approachTime)
		env.Log.Info("Final approach", "from_ft", approachStart, "touchdown_fps", touchdownSpeed)

		err := env.runTicks(ctx, steps, "final-approach", func(tick int, dt float64) error {
			z := approachStart - touchdownSpeed*dt*float64(tick+1)
			env.State.SetAltitude(math.Max(z, 0))
			env.State.Velocity.Z = -touchdownSpeed
			env.State.DrainBattery(drainDescendPctPerSec * dt)
			env.State.HeatMotors(dt, heatHoverCPerSec)
			return nil
		})
		if err != nil {
			return err
		}
	}

	env.State.SetAltitude(0)
	env.State.StopMotion()
	env.State.Flying = false

	if err := env.Modes.Fire(ctx, modes.EventTouchdown); err != nil {
		return err
	}

	// On the ground with motors spun down the temperatures start decaying
	// toward ambient.
	return env.runTicks(ctx, env.stepsFor(cooldownSec), "cooldown", func(tick int, dt float64) error {
		env.State.CoolMotors(dt, coolCPerSec)
		return nil
	})
}
