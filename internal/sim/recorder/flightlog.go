// Package recorder buffers mission telemetry as JSON lines and archives the
// finished log to a storage backend.
package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aloft-io/aloft/internal/sim/telemetry"
	"github.com/aloft-io/aloft/pkg/log"
)

const logContentType = "application/x-ndjson"

// Archived logs stay downloadable through the presigned link for a day.
const downloadLinkExpiry = 24 * time.Hour

// FlightLog collects the snapshots of one mission run. It implements
// telemetry.Sink; the emitter feeds it only when the mission enables
// logging. Flush archives the buffered log and resets the buffer for the
// next run.
type FlightLog struct {
	provider Provider
	log      log.Logger

	mu  sync.Mutex
	buf bytes.Buffer
	n   int
}

// NewFlightLog returns a recorder archiving to the given backend.
func NewFlightLog(provider Provider, logger log.Logger) *FlightLog {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &FlightLog{
		provider: provider,
		log:      logger.WithName("recorder"),
	}
}

// EnsureStorage makes sure the archive backend is ready to accept logs.
// The daemon calls it once at startup so a missing bucket fails the run
// before takeoff, not at the first Flush.
func (f *FlightLog) EnsureStorage(ctx context.Context) error {
	return f.provider.EnsureBucket(ctx)
}

// Accept appends one snapshot to the in-memory log.
func (f *FlightLog) Accept(_ context.Context, snap telemetry.Snapshot) error {
	line, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf.Write(line)
	f.buf.WriteByte('\n')
	f.n++
	return nil
}

// Len returns the number of buffered snapshots.
func (f *FlightLog) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

// Flush archives the buffered log under flights/<mission>/<timestamp>.jsonl
// and clears the buffer. A run that produced no snapshots archives nothing.
func (f *FlightLog) Flush(ctx context.Context, mission string) (string, error) {
	f.mu.Lock()
	data := append([]byte(nil), f.buf.Bytes()...)
	count := f.n
	f.buf.Reset()
	f.n = 0
	f.mu.Unlock()

	if count == 0 {
		return "", nil
	}

	key := fmt.Sprintf("flights/%s/%s.jsonl", mission, time.Now().UTC().Format("20060102T150405Z"))
	if err := f.provider.Put(ctx, key, data, logContentType); err != nil {
		return "", err
	}

	url, err := f.provider.GeneratePresignedURL(ctx, key, downloadLinkExpiry)
	if err != nil {
		f.log.Warn("Could not generate flight log download link", "key", key, "error", err)
		f.log.Info("Flight log archived", "mission", mission, "snapshots", count, "key", key)
		return key, nil
	}

	f.log.Info("Flight log archived", "mission", mission, "snapshots", count, "key", key, "url", url)
	return key, nil
}
