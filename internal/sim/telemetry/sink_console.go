package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleSink writes one human-readable line per snapshot. It is the
// real-time display for local runs.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSink returns a sink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (c *ConsoleSink) Accept(_ context.Context, snap Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.w,
		"[%7.2fs] %-14s alt=%6.1fft pos=(%6.1f,%6.1f) spd=%5.2fft/s bat=%3d%% sig=%3d%% tmp=%4.1fC prog=%3d%%\n",
		snap.ElapsedSeconds, snap.Phase, snap.Position.Z, snap.Position.X, snap.Position.Y,
		snap.SpeedFPS, snap.BatteryPercent, snap.SignalPercent, snap.AvgMotorTempC,
		snap.ProgressPercent)
	return err
}
