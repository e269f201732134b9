package adc

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ansel1/merry"
	"github.com/itohio/ohmmeter/pkg/config"
	"github.com/itohio/ohmmeter/pkg/resistor"
)

// Mock simulates the divider input for testing and development.
type Mock struct {
	cfg      *config.MockConfig
	settings resistor.Settings

	mu         sync.Mutex
	rng        *rand.Rand
	resistance float64
	connected  bool
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig, settings resistor.Settings) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			Resistance: 4700,
			NoiseLevel: 2,
			Seed:       1,
		}
	}
	if settings.ADCMax <= 0 {
		settings.ADCMax = MaxReading
	}
	if settings.ReferenceOhms <= 0 {
		settings.ReferenceOhms = 10000
	}

	return &Mock{
		cfg:        cfg,
		settings:   settings,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		resistance: cfg.Resistance,
		connected:  false,
	}
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return merry.New("already connected")
	}

	m.connected = true

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false

	return nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// SetResistance changes the simulated resistor. Negative values or +Inf
// simulate open probes.
func (m *Mock) SetResistance(ohms float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resistance = ohms
}

// Resistance returns the simulated resistor.
func (m *Mock) Resistance() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resistance
}

// Read returns one simulated conversion.
func (m *Mock) Read() (uint16, error) {
	return m.ReadContext(context.Background())
}

// ReadContext returns one simulated conversion after the configured latency,
// or ctx.Err() if ctx is done first.
func (m *Mock) ReadContext(ctx context.Context) (uint16, error) {
	if m.cfg.Latency > 0 {
		t := time.NewTimer(m.cfg.Latency)
		select {
		case <-ctx.Done():
			t.Stop()
			return 0, ctx.Err()
		case <-t.C:
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return 0, ErrNotConnected
	}

	value := idealReading(m.resistance, m.settings)
	if m.cfg.NoiseLevel > 0 {
		value += (m.rng.Float64()*2 - 1) * m.cfg.NoiseLevel
	}

	return clamp(value, m.settings.ADCMax), nil
}

// idealReading is the noiseless ADC count for an unknown resistor rx on the
// high side of the divider: adcMax * rx / (rx + rref).
func idealReading(rx float64, s resistor.Settings) float64 {
	if rx < 0 || math.IsInf(rx, 1) || math.IsNaN(rx) {
		return s.ADCMax
	}
	return s.ADCMax * rx / (rx + s.ReferenceOhms)
}

// clamp rounds v to the nearest count within [0, adcMax].
func clamp(v, adcMax float64) uint16 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > adcMax {
		return uint16(adcMax)
	}
	return uint16(v)
}
