// Package modes owns the vehicle mode state machine. Every Mode transition
// during a mission run goes through a Machine, so illegal transitions surface
// as errors instead of silently corrupting the lifecycle.
package modes

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	fsmutil "github.com/aloft-io/aloft/internal/pkg/util/fsm"
	"github.com/aloft-io/aloft/internal/sim/model"
)

// Events accepted by the machine.
const (
	EventArm           = "arm"
	EventTakeoff       = "takeoff"
	EventStabilize     = "stabilize"
	EventHover         = "hover"
	EventBeginCircle   = "begin_circle"
	EventBeginDescent  = "begin_descent"
	EventFinalApproach = "final_approach"
	EventTouchdown     = "touchdown"
	EventComplete      = "complete"
	EventAbort         = "abort"
)

// Machine drives model.Mode transitions for one DroneState. It is not safe
// for concurrent use; like the state itself it has exactly one mutator.
type Machine struct {
	state *model.DroneState
	fsm   *fsm.FSM
}

// NewMachine builds the lifecycle machine for a fresh (disarmed) state.
func NewMachine(state *model.DroneState) *Machine {
	m := &Machine{state: state}

	events := fsm.Events{
		{Name: EventArm, Src: []string{string(model.ModeDisarmed)}, Dst: string(model.ModeArmed)},
		// Takeoff is also legal from hover (climb-higher sequences) and from
		// landed (land-then-relaunch sequences).
		{Name: EventTakeoff, Src: []string{
			string(model.ModeArmed),
			string(model.ModeHover),
			string(model.ModeLanded),
		}, Dst: string(model.ModeAscend)},
		{Name: EventStabilize, Src: []string{string(model.ModeAscend)}, Dst: string(model.ModeStabilizing)},
		{Name: EventHover, Src: []string{
			string(model.ModeArmed),
			string(model.ModeStabilizing),
			string(model.ModeCircle),
		}, Dst: string(model.ModeHover)},
		{Name: EventBeginCircle, Src: []string{string(model.ModeHover)}, Dst: string(model.ModeCircle)},
		{Name: EventBeginDescent, Src: []string{
			string(model.ModeArmed),
			string(model.ModeHover),
		}, Dst: string(model.ModeDescending)},
		{Name: EventFinalApproach, Src: []string{string(model.ModeDescending)}, Dst: string(model.ModeFinalApproach)},
		{Name: EventTouchdown, Src: []string{
			string(model.ModeDescending),
			string(model.ModeFinalApproach),
		}, Dst: string(model.ModeLanded)},
		{Name: EventComplete, Src: []string{
			string(model.ModeArmed),
			string(model.ModeHover),
			string(model.ModeLanded),
		}, Dst: string(model.ModeMissionComplete)},
		{Name: EventAbort, Src: []string{
			string(model.ModeArmed),
			string(model.ModeAscend),
			string(model.ModeStabilizing),
			string(model.ModeHover),
			string(model.ModeCircle),
			string(model.ModeDescending),
			string(model.ModeFinalApproach),
			string(model.ModeLanded),
		}, Dst: string(model.ModeAborted)},
	}

	callbacks := fsm.Callbacks{
		// Terminal states accept no further events.
		"before_event": fsmutil.WrapEvent(func(ctx context.Context, e *fsm.Event) error {
			if model.Mode(e.Src).Terminal() {
				return fmt.Errorf("mode %s is terminal; cannot %s", e.Src, e.Event)
			}
			return nil
		}),

		// Mirror the machine's state into the vehicle state.
		"enter_state": func(ctx context.Context, e *fsm.Event) {
			m.state.Mode = model.Mode(e.Dst)
		},
	}

	m.fsm = fsm.NewFSM(string(model.ModeDisarmed), events, callbacks)
	return m
}

// Fire applies one event.
func (m *Machine) Fire(ctx context.Context, event string) error {
	if err := m.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("mode transition %s from %s: %w", event, m.fsm.Current(), err)
	}
	return nil
}

// EnsureHover moves the machine to hover unless it is already there. Phases
// that run from hover (hold, circle entry) call this so they work both after
// an ascend and as the first airborne command.
func (m *Machine) EnsureHover(ctx context.Context) error {
	if m.Current() == model.ModeHover {
		return nil
	}
	return m.Fire(ctx, EventHover)
}

// Current returns the machine's mode.
func (m *Machine) Current() model.Mode {
	return model.Mode(m.fsm.Current())
}
