package meter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ansel1/merry"
	"github.com/itohio/ohmmeter/pkg/adc"
	"github.com/itohio/ohmmeter/pkg/config"
	"github.com/itohio/ohmmeter/pkg/resistor"
	"github.com/itohio/ohmmeter/pkg/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Measurement.SamplesPerReading = 16
	cfg.Measurement.SampleDelay = 0
	cfg.Measurement.CycleDelay = time.Millisecond
	return cfg
}

func constant(v uint16) sample.Reader {
	return sample.ReaderFunc(func() (uint16, error) { return v, nil })
}

func newMockMeter(t *testing.T, cfg *config.Config, ohms float64) (*Meter, *adc.Mock) {
	t.Helper()
	dev := adc.NewMock(&config.MockConfig{Resistance: ohms}, cfg.Settings())
	require.NoError(t, dev.Connect())
	t.Cleanup(func() { dev.Close() })

	m, err := New(cfg, dev)
	require.NoError(t, err)
	return m, dev
}

func TestNew(t *testing.T) {
	cfg := testConfig()
	m, err := New(cfg, constant(0))
	require.NoError(t, err)
	assert.Equal(t, 16, m.Averager().Count())
	assert.Equal(t, uint16(4095), m.Averager().Max())
	assert.Equal(t, resistor.English, m.palette)
	assert.Equal(t, 3.3, m.settings.VRef)
	assert.Zero(t, m.Averager().Duration())
}

func TestNew_EmptyTable(t *testing.T) {
	cfg := testConfig()
	cfg.Table.Values = nil

	_, err := New(cfg, constant(0))
	require.Error(t, err)
	assert.True(t, merry.Is(err, resistor.ErrEmptyTable))
}

func TestNew_BadPalette(t *testing.T) {
	cfg := testConfig()
	cfg.Bands.Palette = "klingon"

	_, err := New(cfg, constant(0))
	assert.Error(t, err)
}

func TestNew_BadDivider(t *testing.T) {
	cfg := testConfig()
	cfg.Divider.ReferenceOhms = 0

	_, err := New(cfg, constant(0))
	require.Error(t, err)
	assert.True(t, merry.Is(err, resistor.ErrInvalidDivider))
}

func TestMeasure_StandardValues(t *testing.T) {
	tests := []struct {
		name  string
		ohms  float64
		want  resistor.Digits
		bands resistor.Bands
	}{
		{"4k7", 4700, resistor.Digits{First: 4, Second: 7, Multiplier: 2}, resistor.Bands{First: "Yellow", Second: "Violet", Multiplier: "Red"}},
		{"10k", 10000, resistor.Digits{First: 1, Second: 0, Multiplier: 3}, resistor.Bands{First: "Brown", Second: "Black", Multiplier: "Orange"}},
		{"1k", 1000, resistor.Digits{First: 1, Second: 0, Multiplier: 2}, resistor.Bands{First: "Brown", Second: "Black", Multiplier: "Red"}},
		{"68k", 68000, resistor.Digits{First: 6, Second: 8, Multiplier: 3}, resistor.Bands{First: "Blue", Second: "Grey", Multiplier: "Orange"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newMockMeter(t, testConfig(), tt.ohms)

			r := m.Measure(context.Background())
			require.NoError(t, r.Err)
			assert.Equal(t, tt.ohms, r.Match.Value)
			assert.Equal(t, tt.want, r.Digits)
			assert.Equal(t, tt.bands, r.Bands)
			assert.InEpsilon(t, tt.ohms, r.Ohms, 0.01)
			assert.False(t, r.Timestamp.IsZero())
		})
	}
}

func TestMeasure_HalfScale(t *testing.T) {
	cfg := testConfig()
	cfg.Bands.Palette = config.PalettePortuguese

	// 2047.5 average: alternate the two codes around mid scale
	var n int
	m, err := New(cfg, sample.ReaderFunc(func() (uint16, error) {
		n++
		if n%2 == 0 {
			return 2048, nil
		}
		return 2047, nil
	}))
	require.NoError(t, err)

	r := m.Measure(context.Background())
	require.NoError(t, r.Err)
	assert.InDelta(t, 10000, r.Ohms, 1e-6)
	assert.Equal(t, resistor.Bands{First: "Marrom", Second: "Preto", Multiplier: "Laranja"}, r.Bands)
	assert.Equal(t, "10000", r.Record().Resistance)
}

func TestMeasure_OpenCircuit(t *testing.T) {
	m, _ := newMockMeter(t, testConfig(), -1)

	r := m.Measure(context.Background())
	assert.ErrorIs(t, r.Err, resistor.ErrOpenCircuit)
	assert.Equal(t, "OPEN", r.Record().Resistance)
	assert.Equal(t, "Error", r.Bands.First)
}

func TestMeasure_SensorFailure(t *testing.T) {
	boom := errors.New("adc fault")
	m, err := New(testConfig(), sample.ReaderFunc(func() (uint16, error) { return 0, boom }))
	require.NoError(t, err)

	r := m.Measure(context.Background())
	require.Error(t, r.Err)
	assert.True(t, merry.Is(r.Err, ErrSensor))
	assert.Equal(t, "ERR", r.Record().Resistance)
	assert.Equal(t, resistor.Bands{First: "Error", Second: "Error", Multiplier: "Error"}, r.Bands)
}

func TestMeasure_OutOfRangeSample(t *testing.T) {
	m, err := New(testConfig(), constant(5000))
	require.NoError(t, err)

	r := m.Measure(context.Background())
	assert.True(t, merry.Is(r.Err, ErrSensor))
}

type drainingReader struct {
	sample.Reader
	drained int
}

func (d *drainingReader) Drain() int {
	d.drained++
	return 3
}

func TestMeasure_DrainsStreamingSource(t *testing.T) {
	r := &drainingReader{Reader: constant(1000)}
	m, err := New(testConfig(), r)
	require.NoError(t, err)

	m.Measure(context.Background())
	m.Measure(context.Background())
	assert.Equal(t, 2, r.drained)
}

func TestMeasure_ReadingsFollowResistor(t *testing.T) {
	m, dev := newMockMeter(t, testConfig(), 820)

	r := m.Measure(context.Background())
	require.NoError(t, r.Err)
	assert.Equal(t, float64(820), r.Match.Value)

	dev.SetResistance(33000)
	r = m.Measure(context.Background())
	require.NoError(t, r.Err)
	assert.Equal(t, float64(33000), r.Match.Value)
}

func TestOnUpdate(t *testing.T) {
	m, _ := newMockMeter(t, testConfig(), 4700)

	var got []resistor.Reading
	m.OnUpdate(func(r resistor.Reading) { got = append(got, r) })
	m.OnUpdate(func(r resistor.Reading) { got = append(got, r) })

	m.notifyCallbacks(resistor.Reading{Ohms: 1})
	require.Len(t, got, 2)
	assert.Equal(t, float64(1), got[1].Ohms)
}

func TestWait(t *testing.T) {
	assert.NoError(t, wait(context.Background(), 0))
	assert.NoError(t, wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, wait(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, wait(ctx, 0), context.Canceled)
}
