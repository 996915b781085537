package model

import "testing"

func TestDrainBatteryNeverIncreases(t *testing.T) {
	s := NewDroneState(4)

	prev := s.BatteryPercent
	for i := 0; i < 500; i++ {
		s.DrainBattery(0.3)
		if s.BatteryPercent > prev {
			t.Fatalf("battery went up: %d -> %d", prev, s.BatteryPercent)
		}
		if s.BatteryPercent < 0 || s.BatteryPercent > 100 {
			t.Fatalf("battery out of range: %d", s.BatteryPercent)
		}
		prev = s.BatteryPercent
	}
	if s.BatteryPercent != 0 {
		t.Errorf("battery = %d after 150%% drain, want 0", s.BatteryPercent)
	}
}

func TestDrainBatteryAccumulatesFractions(t *testing.T) {
	s := NewDroneState(4)

	// Four drains of 0.25% must cost exactly one whole percent.
	for i := 0; i < 4; i++ {
		s.DrainBattery(0.25)
	}
	if s.BatteryPercent != 99 {
		t.Errorf("battery = %d, want 99", s.BatteryPercent)
	}

	s.DrainBattery(-5)
	if s.BatteryPercent != 99 {
		t.Errorf("negative drain changed battery to %d", s.BatteryPercent)
	}
}

func TestBatteryVolts(t *testing.T) {
	s := NewDroneState(4)
	if got := s.BatteryVolts(); got != 12.6 {
		t.Errorf("full pack = %vV, want 12.6", got)
	}
	s.BatteryPercent = 0
	if got := s.BatteryVolts(); got != 10.5 {
		t.Errorf("empty pack = %vV, want 10.5", got)
	}
}

func TestSetAltitudeClampsAtGround(t *testing.T) {
	s := NewDroneState(4)
	s.SetAltitude(-3)
	if s.Position.Z != 0 {
		t.Errorf("altitude = %v, want 0", s.Position.Z)
	}
}

func TestSetProgressMonotonic(t *testing.T) {
	s := NewDroneState(4)

	s.SetProgress(40)
	s.SetProgress(25)
	if s.ProgressPercent != 40 {
		t.Errorf("progress regressed to %d", s.ProgressPercent)
	}
	s.SetProgress(150)
	if s.ProgressPercent != 100 {
		t.Errorf("progress = %d, want clamp at 100", s.ProgressPercent)
	}
}

func TestMotorTempEnvelope(t *testing.T) {
	s := NewDroneState(4)

	s.HeatMotors(1000, 1.5)
	for i, temp := range s.MotorTempsC {
		if temp != MaxMotorTempC {
			t.Errorf("motor %d = %vC, want clamp at %v", i, temp, MaxMotorTempC)
		}
	}

	s.CoolMotors(1000, 2.0)
	for i, temp := range s.MotorTempsC {
		if temp != AmbientTempC {
			t.Errorf("motor %d = %vC, want floor at ambient", i, temp)
		}
	}
}

func TestNewDroneStateDefaults(t *testing.T) {
	s := NewDroneState(0)
	if len(s.MotorTempsC) != 4 {
		t.Errorf("motor count = %d, want quadcopter default", len(s.MotorTempsC))
	}
	if s.Mode != ModeDisarmed {
		t.Errorf("mode = %v, want disarmed", s.Mode)
	}
	if s.BatteryPercent != 100 {
		t.Errorf("battery = %d, want 100", s.BatteryPercent)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewDroneState(4)
	c := s.Clone()

	c.MotorTempsC[0] = 70
	c.BatteryPercent = 50
	if s.MotorTempsC[0] != AmbientTempC || s.BatteryPercent != 100 {
		t.Error("mutating the clone changed the original")
	}
}

func TestModeTerminal(t *testing.T) {
	for mode, want := range map[Mode]bool{
		ModeDisarmed:        false,
		ModeHover:           false,
		ModeMissionComplete: true,
		ModeAborted:         true,
	} {
		if got := mode.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", mode, got, want)
		}
	}
}
