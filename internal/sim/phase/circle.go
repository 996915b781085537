package phase

import (
	"context"
	"math"
	"strings"

	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/internal/sim/modes"
)

// CircularPath flies a circle of the given radius around the entry position.
// The trajectory is parameterized by angle; velocity is the analytic
// derivative of the position, and the final tick snaps the vehicle back onto
// the circle center so the path closes exactly.
//
// Params: radius (ft), speed (ft/s), altitude (ft, default current),
// direction (cw|ccw, default cw), revolutions (default 1), smooth_entry
// (bool, default false).
type CircularPath struct{}

// Settling delay before the first circle tick when smooth_entry is set.
const smoothEntrySec = 1.0

func (CircularPath) Kind() model.CommandKind { return model.KindCircularPath }

func (CircularPath) Execute(ctx context.Context, env *Env, cmd model.CommandSpec) error {
	radius := cmd.Params.Float("radius", 0)
	speed := cmd.Params.Float("speed", 0)
	revolutions := cmd.Params.Float("revolutions", 1)
	direction := strings.ToLower(cmd.Params.String("direction", "cw"))
	smoothEntry := cmd.Params.Bool("smooth_entry", false)

	if radius <= 0 || speed <= 0 {
		return &model.ConfigError{
			Field:  "circular_path params",
			Reason: "radius and speed must be > 0",
		}
	}
	if revolutions <= 0 {
		revolutions = 1
	}

	// Clockwise sweeps the angle negative; counter-clockwise positive.
	sign := -1.0
	if direction == "ccw" {
		sign = 1.0
	}

	if err := env.Modes.EnsureHover(ctx); err != nil {
		return err
	}
	if err := env.Modes.Fire(ctx, modes.EventBeginCircle); err != nil {
		return err
	}

	center := env.State.Position
	altitude := cmd.Params.Float("altitude", center.Z)

	if smoothEntry {
		err := env.runTicks(ctx, env.stepsFor(smoothEntrySec), "circle-entry", func(tick int, dt float64) error {
			env.State.DrainBattery(drainHoverPctPerSec * dt)
			env.State.HeatMotors(dt, heatHoverCPerSec)
			return nil
		})
		if err != nil {
			return err
		}
	}

	circumference := 2 * math.Pi * radius * revolutions
	totalTime := circumference / speed
	steps := env.stepsFor(totalTime)
	angleStep := sign * 2 * math.Pi * revolutions / float64(steps)
	omega := sign * speed / radius

	env.Log.Info("Flying circular path", "radius_ft", radius, "speed_fps", speed,
		"revolutions", revolutions, "direction", direction, "steps", steps)

	err := env.runTicks(ctx, steps, "circle", func(tick int, dt float64) error {
		theta := angleStep * float64(tick+1)

		env.State.Position.X = center.X + radius*math.Cos(theta)
		env.State.Position.Y = center.Y + radius*math.Sin(theta)
		env.State.SetAltitude(altitude)

		env.State.Velocity.X = -radius * math.Sin(theta) * omega
		env.State.Velocity.Y = radius * math.Cos(theta) * omega
		env.State.Velocity.Z = 0

		env.State.DrainBattery(drainCirclePctPerSec * dt)
		env.State.HeatMotors(dt, heatCircleCPerSec)
		return nil
	})
	if err != nil {
		return err
	}

	// Close the path exactly: back to the entry x/y, not an asymptotic
	// approximation of it.
	env.State.Position.X = center.X
	env.State.Position.Y = center.Y
	env.State.StopMotion()

	return env.Modes.Fire(ctx, modes.EventHover)
}
