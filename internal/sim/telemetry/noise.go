package telemetry

import "math/rand"

// Noise produces the sensor-flavored telemetry fields (signal strength,
// satellite count) that are not derived from the simulated physics. It is
// seeded explicitly so runs are reproducible; tests pass a fixed seed.
type Noise struct {
	rnd    *rand.Rand
	hasGPS bool
}

// NewNoise returns a deterministic source for the given seed.
func NewNoise(seed int64, hasGPS bool) *Noise {
	return &Noise{
		rnd:    rand.New(rand.NewSource(seed)),
		hasGPS: hasGPS,
	}
}

// SignalPercent models link quality as a function of altitude with a small
// jitter: full strength on the ground, slowly dropping with height.
func (n *Noise) SignalPercent(altitudeFt float64) int {
	signal := 100 - int(altitudeFt/10.0) - n.rnd.Intn(5)
	if signal < 20 {
		signal = 20
	}
	if signal > 100 {
		signal = 100
	}
	return signal
}

// SatelliteCount returns a plausible lock count, or zero for vehicles
// without a positioning receiver.
func (n *Noise) SatelliteCount() int {
	if !n.hasGPS {
		return 0
	}
	return 10 + n.rnd.Intn(5)
}
