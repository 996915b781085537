// Package config loads mission definitions and vehicle profiles. The engine
// treats the source as opaque; this package supplies the file-backed
// implementation used by the daemon and a Provider port for anything else.
package config

import "github.com/aloft-io/aloft/internal/sim/model"

// MissionInfo is a library listing entry, enough for an operator to pick a
// mission without loading the whole definition.
type MissionInfo struct {
	ID          string
	Name        string
	Description string
	TargetModel string
	Commands    int
}

// Provider resolves mission and vehicle identifiers to their definitions.
// Implementations return errors matching model.ErrConfigInvalid for missing
// or malformed definitions.
type Provider interface {
	LoadMission(id string) (*model.MissionDefinition, error)
	LoadVehicle(id string) (*model.VehicleProfile, error)
	ListMissions() ([]MissionInfo, error)
}
