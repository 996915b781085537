package topic

import "testing"

func TestBuilderTopics(t *testing.T) {
	b := NewBuilder("aloft/v1")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"telemetry", b.Telemetry("falcon-01"), "aloft/v1/telemetry/falcon-01"},
		{"telemetry wildcard", b.TelemetryWildcard(), "aloft/v1/telemetry/+"},
		{"outcome", b.Outcome("falcon-01"), "aloft/v1/outcome/falcon-01"},
		{"status", b.Status("falcon-01"), "aloft/v1/status/falcon-01"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestTopicsDiffer(t *testing.T) {
	b := NewBuilder("aloft/v1")
	if b.Telemetry("a") == b.Outcome("a") {
		t.Fatal("telemetry and outcome topics must not collide")
	}
}
