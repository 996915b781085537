package model

import "time"

// OutcomeCode classifies the terminal result of a mission run.
type OutcomeCode string

const (
	OutcomeSuccess         OutcomeCode = "success"
	OutcomeAborted         OutcomeCode = "aborted"
	OutcomePreflightFailed OutcomeCode = "preflight_failed"
	OutcomeConfigInvalid   OutcomeCode = "config_invalid"
)

// MissionOutcome is the terminal result of one mission run. Every error is
// terminal to the run and surfaces here; there is no retry inside the engine.
type MissionOutcome struct {
	Code   OutcomeCode `json:"code"`
	Reason string      `json:"reason,omitempty"`

	// FailedCheck names the safety check behind an aborted outcome.
	FailedCheck string `json:"failed_check,omitempty"`

	Mission string        `json:"mission,omitempty"`
	Vehicle string        `json:"vehicle,omitempty"`
	Elapsed time.Duration `json:"elapsed"`

	// FinalState is the vehicle state at termination; nil when the mission
	// was rejected before a state was created (configuration failures).
	FinalState *DroneState `json:"-"`
}

// Succeeded reports whether the mission completed every command.
func (o *MissionOutcome) Succeeded() bool {
	return o != nil && o.Code == OutcomeSuccess
}
