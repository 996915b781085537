package phase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/internal/sim/modes"
	"github.com/aloft-io/aloft/internal/sim/safety"
	"github.com/aloft-io/aloft/internal/sim/telemetry"
	"github.com/aloft-io/aloft/pkg/log"
)

// instantClock fires immediately so loops run without real delays.
type instantClock struct{}

func (instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

// recordingSink captures every snapshot the emitter dispatches.
type recordingSink struct {
	mu    sync.Mutex
	snaps []telemetry.Snapshot
}

func (r *recordingSink) Accept(_ context.Context, snap telemetry.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
	return nil
}

func (r *recordingSink) all() []telemetry.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]telemetry.Snapshot(nil), r.snaps...)
}

var testSafety = model.SafetyParameters{
	MaxAltitudeFt:               50,
	MaxHorizontalSpeedFPS:       10,
	EmergencyLandBatteryPercent: 10,
}

// newTestEnv returns an armed environment ticking at 10 Hz with an instant
// clock and a recording display sink.
func newTestEnv(t *testing.T) (*Env, *recordingSink) {
	t.Helper()

	state := model.NewDroneState(4)
	machine := modes.NewMachine(state)
	if err := machine.Fire(context.Background(), modes.EventArm); err != nil {
		t.Fatalf("arm: %v", err)
	}
	state.Armed = true

	sink := &recordingSink{}
	emitter := telemetry.NewEmitter(telemetry.EmitterParams{
		Config: model.TelemetryConfig{
			UpdateRateHz:    10,
			RealTimeDisplay: true,
		},
		Mission: "test",
		Vehicle: "test-vehicle",
		Noise:   telemetry.NewNoise(1, true),
		Display: sink,
	})

	return &Env{
		State:   state,
		Safety:  safety.NewGate(log.NewNopLogger()),
		Params:  testSafety,
		Modes:   machine,
		Emitter: emitter,
		Clock:   instantClock{},
		RateHz:  10,
		Log:     log.NewNopLogger(),
	}, sink
}

// hover moves an armed test env into the air at the given altitude.
func hover(t *testing.T, env *Env, altitude float64) {
	t.Helper()
	env.State.Flying = true
	env.State.SetAltitude(altitude)
	if err := env.Modes.EnsureHover(context.Background()); err != nil {
		t.Fatalf("hover: %v", err)
	}
}

func cmdWith(kind model.CommandKind, params map[string]string) model.CommandSpec {
	return model.CommandSpec{ID: 1, Kind: kind, Params: params}
}
