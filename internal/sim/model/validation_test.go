package model

import (
	"errors"
	"testing"
)

func validMission() *MissionDefinition {
	return &MissionDefinition{
		Name: "test",
		Safety: SafetyParameters{
			MaxAltitudeFt:               50,
			EmergencyLandBatteryPercent: 20,
		},
		Telemetry: TelemetryConfig{UpdateRateHz: 10},
		Commands: []CommandSpec{
			{ID: 1, Kind: KindAscend, Params: Params{"target_altitude": "10", "climb_rate": "2"}},
			{ID: 2, Kind: KindHold, Params: Params{"duration": "5"}},
			{ID: 3, Kind: KindDescendAndLand, Params: Params{"descent_rate": "1"}},
		},
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	if err := validMission().Validate(); err != nil {
		t.Fatalf("valid mission rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MissionDefinition)
	}{
		{"empty name", func(m *MissionDefinition) { m.Name = "" }},
		{"zero update rate", func(m *MissionDefinition) { m.Telemetry.UpdateRateHz = 0 }},
		{"negative update rate", func(m *MissionDefinition) { m.Telemetry.UpdateRateHz = -1 }},
		{"zero ceiling", func(m *MissionDefinition) { m.Safety.MaxAltitudeFt = 0 }},
		{"battery threshold above 100", func(m *MissionDefinition) { m.Safety.EmergencyLandBatteryPercent = 120 }},
		{"unknown kind", func(m *MissionDefinition) { m.Commands[1].Kind = "teleport" }},
		{"id gap", func(m *MissionDefinition) { m.Commands[2].ID = 5 }},
		{"ids not starting at 1", func(m *MissionDefinition) { m.Commands[0].ID = 0 }},
		{"missing required param", func(m *MissionDefinition) { delete(m.Commands[0].Params, "climb_rate") }},
		{"non-numeric required param", func(m *MissionDefinition) { m.Commands[1].Params["duration"] = "soon" }},
		{"zero climb rate", func(m *MissionDefinition) { m.Commands[0].Params["climb_rate"] = "0" }},
		{"negative duration", func(m *MissionDefinition) { m.Commands[1].Params["duration"] = "-3" }},
		{"zero descent rate", func(m *MissionDefinition) { m.Commands[2].Params["descent_rate"] = "0" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMission()
			tt.mutate(m)
			if err := m.Validate(); !errors.Is(err, ErrConfigInvalid) {
				t.Errorf("err = %v, want config invalid", err)
			}
		})
	}
}

func TestParamsAccessors(t *testing.T) {
	p := Params{"f": "2.5", "i": "7", "b": "true", "s": "cw"}

	if got := p.Float("f", 0); got != 2.5 {
		t.Errorf("Float = %v", got)
	}
	if got := p.Float("missing", 1.5); got != 1.5 {
		t.Errorf("Float default = %v", got)
	}
	if got := p.Int("i", 0); got != 7 {
		t.Errorf("Int = %v", got)
	}
	if got := p.Bool("b", false); !got {
		t.Error("Bool = false")
	}
	if got := p.String("s", ""); got != "cw" {
		t.Errorf("String = %v", got)
	}
	if got := p.Float("s", 9); got != 9 {
		t.Errorf("unparseable Float = %v, want default", got)
	}
	if p.Has("missing") || !p.Has("f") {
		t.Error("Has is wrong")
	}
}
