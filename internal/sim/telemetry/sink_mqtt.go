package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/pkg/mqtt"
	"github.com/aloft-io/aloft/pkg/mqtt/topic"
)

// MQTTSink publishes snapshots and mission outcomes to the broker using the
// standard topic layout. Snapshots go out at QoS 0: a dropped frame is
// cheaper than a stalled tick loop.
type MQTTSink struct {
	client  mqtt.Client
	topics  *topic.Builder
	vehicle string
}

// NewMQTTSink returns a sink publishing for the given vehicle.
func NewMQTTSink(client mqtt.Client, topics *topic.Builder, vehicleID string) *MQTTSink {
	return &MQTTSink{
		client:  client,
		topics:  topics,
		vehicle: vehicleID,
	}
}

func (s *MQTTSink) Accept(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.client.Publish(ctx, s.topics.Telemetry(s.vehicle), 0, false, payload)
}

// PublishOutcome sends the terminal mission result, retained so late
// subscribers still see the last run's outcome.
func (s *MQTTSink) PublishOutcome(ctx context.Context, outcome *model.MissionOutcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	return s.client.Publish(ctx, s.topics.Outcome(s.vehicle), 1, true, payload)
}

// statusMessage is the retained liveness marker on the status topic. The
// offline form doubles as the client's last will, so an ungraceful drop
// still flips the marker.
type statusMessage struct {
	Vehicle string `json:"vehicle"`
	Online  bool   `json:"online"`
}

// StatusPayload renders the liveness marker for a vehicle. The daemon
// registers the offline form as the MQTT last will and publishes the online
// form once connected.
func StatusPayload(vehicleID string, online bool) []byte {
	payload, _ := json.Marshal(statusMessage{Vehicle: vehicleID, Online: online})
	return payload
}

// PublishStatus marks the simulator online or offline, retained so
// subscribers always see the current liveness.
func (s *MQTTSink) PublishStatus(ctx context.Context, online bool) error {
	return s.client.Publish(ctx, s.topics.Status(s.vehicle), 1, true, StatusPayload(s.vehicle, online))
}
