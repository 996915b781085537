package config

import (
	"time"

	"github.com/aloft-io/aloft/internal/sim/model"
)

// File schemas. These mirror the YAML layout of the mission library and are
// decoded with viper before being converted to the model types, so the wire
// shape can drift without touching the engine.

type missionFile struct {
	Name              string        `mapstructure:"name"`
	Description       string        `mapstructure:"description"`
	TargetModel       string        `mapstructure:"target_model"`
	EstimatedDuration time.Duration `mapstructure:"estimated_duration"`

	Safety      safetyFile      `mapstructure:"safety_parameters"`
	Environment environmentFile `mapstructure:"environment"`
	Telemetry   telemetryFile   `mapstructure:"telemetry"`

	Commands []commandFile `mapstructure:"commands"`
}

type safetyFile struct {
	MaxAltitudeFt               float64 `mapstructure:"max_altitude_ft"`
	MaxHorizontalSpeedFPS       float64 `mapstructure:"max_horizontal_speed_fps"`
	EmergencyLandBatteryPercent int     `mapstructure:"emergency_land_battery_percent"`
	GeofenceRadiusFt            float64 `mapstructure:"geofence_radius_ft"`
	MaxWindSpeedFPS             float64 `mapstructure:"max_wind_speed_fps"`
}

type environmentFile struct {
	IndoorSafe     bool   `mapstructure:"indoor_safe"`
	OutdoorCapable bool   `mapstructure:"outdoor_capable"`
	SpaceRequired  string `mapstructure:"space_required"`
}

type telemetryFile struct {
	UpdateRateHz    float64  `mapstructure:"update_rate_hz"`
	DataPoints      []string `mapstructure:"data_points"`
	LoggingEnabled  bool     `mapstructure:"logging_enabled"`
	RealTimeDisplay bool     `mapstructure:"real_time_display"`
}

type commandFile struct {
	ID               int               `mapstructure:"id"`
	Kind             string            `mapstructure:"kind"`
	Description      string            `mapstructure:"description"`
	Params           map[string]string `mapstructure:"params"`
	ExpectedDuration time.Duration     `mapstructure:"expected_duration"`
	SafetyChecks     []string          `mapstructure:"safety_checks"`
}

type vehicleFile struct {
	ID          string         `mapstructure:"id"`
	Model       string         `mapstructure:"model"`
	Description string         `mapstructure:"description"`
	Specs       map[string]any `mapstructure:"specs"`
}

func (f *missionFile) toModel() *model.MissionDefinition {
	m := &model.MissionDefinition{
		Name:              f.Name,
		Description:       f.Description,
		TargetModel:       f.TargetModel,
		EstimatedDuration: f.EstimatedDuration,
		Safety: model.SafetyParameters{
			MaxAltitudeFt:               f.Safety.MaxAltitudeFt,
			MaxHorizontalSpeedFPS:       f.Safety.MaxHorizontalSpeedFPS,
			EmergencyLandBatteryPercent: f.Safety.EmergencyLandBatteryPercent,
			GeofenceRadiusFt:            f.Safety.GeofenceRadiusFt,
			MaxWindSpeedFPS:             f.Safety.MaxWindSpeedFPS,
		},
		Environment: model.EnvironmentRequirements{
			IndoorSafe:     f.Environment.IndoorSafe,
			OutdoorCapable: f.Environment.OutdoorCapable,
			SpaceRequired:  f.Environment.SpaceRequired,
		},
		Telemetry: model.TelemetryConfig{
			UpdateRateHz:    f.Telemetry.UpdateRateHz,
			DataPoints:      f.Telemetry.DataPoints,
			LoggingEnabled:  f.Telemetry.LoggingEnabled,
			RealTimeDisplay: f.Telemetry.RealTimeDisplay,
		},
	}
	for _, c := range f.Commands {
		m.Commands = append(m.Commands, model.CommandSpec{
			ID:               c.ID,
			Kind:             model.CommandKind(c.Kind),
			Description:      c.Description,
			Params:           model.Params(c.Params),
			ExpectedDuration: c.ExpectedDuration,
			SafetyChecks:     c.SafetyChecks,
		})
	}
	return m
}

func (f *vehicleFile) toModel() *model.VehicleProfile {
	return &model.VehicleProfile{
		ID:          f.ID,
		Model:       f.Model,
		Description: f.Description,
		Specs:       f.Specs,
	}
}
