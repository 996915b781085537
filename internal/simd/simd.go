package simd

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/aloft-io/aloft/internal/sim"
	"github.com/aloft-io/aloft/internal/sim/config"
	"github.com/aloft-io/aloft/internal/sim/model"
	"github.com/aloft-io/aloft/internal/sim/recorder"
	"github.com/aloft-io/aloft/internal/sim/telemetry"
	"github.com/aloft-io/aloft/pkg/log"
	"github.com/aloft-io/aloft/pkg/mqtt"
	"github.com/aloft-io/aloft/pkg/mqtt/topic"
	"github.com/aloft-io/aloft/pkg/options"
)

// Config is the fully resolved daemon configuration, assembled by the
// command-line layer.
type Config struct {
	MqttOptions *options.MqttOptions
	HttpOptions *options.HttpOptions
	S3Options   *options.S3Options

	// LibraryDir is the root of the mission/vehicle library.
	LibraryDir string

	// MissionID and VehicleID select what to fly.
	MissionID string
	VehicleID string

	// LocalLogDir receives flight logs when no object store is configured.
	LocalLogDir string

	// NoiseSeed seeds the telemetry sensor noise.
	NoiseSeed int64

	// WatchLibrary reloads definitions when the library changes on disk.
	WatchLibrary bool
}

// Simulator owns every runtime piece of the daemon: the mission library,
// the controller, the telemetry sinks and the status server.
type Simulator struct {
	cfg      *Config
	log      log.Logger
	provider *config.FileProvider
	ctrl     *sim.Controller
	flights  *recorder.FlightLog
	client   mqtt.Client
	mqttSink *telemetry.MQTTSink
	server   *Server
}

// NewSimulator wires a Simulator from the config. The MQTT connection is not
// opened here; Run owns its lifecycle.
func (c *Config) NewSimulator() (*Simulator, error) {
	logger := log.Std()

	provider, err := config.NewFileProvider(c.LibraryDir, logger)
	if err != nil {
		return nil, err
	}

	var store recorder.Provider
	if c.S3Options != nil && c.S3Options.Endpoint != "" {
		store, err = recorder.NewMinIOProvider(c.S3Options, logger)
		if err != nil {
			return nil, err
		}
	} else {
		store = recorder.NewFSProvider(c.LocalLogDir)
	}
	flights := recorder.NewFlightLog(store, logger)

	s := &Simulator{
		cfg:      c,
		log:      logger.WithName("simd"),
		provider: provider,
		flights:  flights,
	}

	display := telemetry.Sink(telemetry.NewConsoleSink(os.Stdout))
	if c.MqttOptions != nil && c.MqttOptions.Broker != "" {
		topics := topic.NewBuilder(c.MqttOptions.TopicRoot)

		// The broker flips the retained status marker to offline if the
		// daemon drops without disconnecting.
		clientCfg := c.MqttOptions.ToClientConfig()
		clientCfg.WillTopic = topics.Status(c.VehicleID)
		clientCfg.WillPayload = telemetry.StatusPayload(c.VehicleID, false)
		clientCfg.WillQoS = 1
		clientCfg.WillRetain = true

		client, err := mqtt.NewClient(clientCfg)
		if err != nil {
			return nil, err
		}
		s.client = client
		s.mqttSink = telemetry.NewMQTTSink(client, topics, c.VehicleID)
		display = multiSink{telemetry.NewConsoleSink(os.Stdout), s.mqttSink}
	}

	s.ctrl = sim.NewController(sim.ControllerParams{
		Logger:    logger,
		Display:   display,
		Recorder:  flights,
		NoiseSeed: c.NoiseSeed,
	})
	s.server = NewServer(c.HttpOptions, s.ctrl, provider, logger)
	return s, nil
}

// Run flies the configured mission while serving the status API, then shuts
// everything down. The returned error is non-nil when the mission did not
// succeed, so the process exit code reflects the outcome.
func (s *Simulator) Run(ctx context.Context) error {
	if s.cfg.WatchLibrary {
		if err := s.provider.Watch(); err != nil {
			return err
		}
	}
	defer s.provider.Close()

	if err := s.flights.EnsureStorage(ctx); err != nil {
		return fmt.Errorf("flight log storage unavailable: %w", err)
	}

	mission, err := s.provider.LoadMission(s.cfg.MissionID)
	if err != nil {
		return err
	}
	vehicle, err := s.provider.LoadVehicle(s.cfg.VehicleID)
	if err != nil {
		return err
	}

	if s.client != nil {
		if err := s.client.Start(ctx); err != nil {
			return err
		}
		defer s.client.Disconnect(context.Background())

		waitCtx, cancel := context.WithTimeout(ctx, s.cfg.MqttOptions.ConnectTimeout)
		err := s.client.AwaitConnection(waitCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("mqtt broker unreachable: %w", err)
		}

		// Retained online marker; the graceful-shutdown counterpart of the
		// last will. Runs before the deferred Disconnect above.
		if err := s.mqttSink.PublishStatus(ctx, true); err != nil {
			s.log.Warn("Failed to publish online status", "error", err)
		}
		defer func() {
			if err := s.mqttSink.PublishStatus(context.Background(), false); err != nil {
				s.log.Warn("Failed to publish offline status", "error", err)
			}
		}()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return s.server.Start(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return s.fly(gctx, mission, vehicle)
	})
	return g.Wait()
}

func (s *Simulator) fly(ctx context.Context, mission *model.MissionDefinition, vehicle *model.VehicleProfile) error {
	outcome := s.ctrl.Execute(ctx, mission, vehicle)

	// Outcome publication and log archival are best-effort teardown; the
	// run's verdict stands regardless.
	bg := context.Background()
	if s.mqttSink != nil {
		if err := s.mqttSink.PublishOutcome(bg, outcome); err != nil {
			s.log.Error(err, "Failed to publish mission outcome")
		}
	}
	if mission.Telemetry.LoggingEnabled {
		if _, err := s.flights.Flush(bg, mission.Name); err != nil {
			s.log.Error(err, "Failed to archive flight log")
		}
	}

	if !outcome.Succeeded() {
		return fmt.Errorf("mission %s: %s: %s", outcome.Mission, outcome.Code, outcome.Reason)
	}
	return nil
}

// multiSink fans one snapshot out to several sinks. The first error wins
// but every sink still sees the frame.
type multiSink []telemetry.Sink

func (m multiSink) Accept(ctx context.Context, snap telemetry.Snapshot) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.Accept(ctx, snap); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
