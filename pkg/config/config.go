package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ansel1/merry"
	"github.com/hashicorp/go-multierror"
	"github.com/itohio/ohmmeter/pkg/resistor"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Divider     DividerConfig     `yaml:"divider"`
	Measurement MeasurementConfig `yaml:"measurement"`
	Table       TableConfig       `yaml:"table"`
	Bands       BandsConfig       `yaml:"bands"`
	Mock        MockConfig        `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port        string        `yaml:"port"`
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"` // Longest wait for a single raw sample
}

// DividerConfig describes the measuring voltage divider.
type DividerConfig struct {
	ReferenceOhms float64 `yaml:"reference_resistance_ohms"` // Known resistor (Ω)
	ADCResolution int     `yaml:"adc_resolution"`            // Full-scale ADC count (4095 for 12 bits)
	VRef          float64 `yaml:"vref"`                      // ADC reference voltage (V), used for the node voltage readout
}

// MeasurementConfig contains measurement cadence parameters.
type MeasurementConfig struct {
	SamplesPerReading int           `yaml:"samples_per_reading"`
	SampleDelay       time.Duration `yaml:"sample_delay"`
	CycleDelay        time.Duration `yaml:"cycle_delay"`
}

// TableConfig holds the standard values readings are matched against.
type TableConfig struct {
	Values []float64 `yaml:"values"`
}

// BandsConfig selects colour names.
type BandsConfig struct {
	Palette string   `yaml:"palette"` // "en" or "pt"; ignored when Names is set
	Names   []string `yaml:"names"`   // Ten custom names, black to white
	Unknown string   `yaml:"unknown"` // Marker for out-of-range digits (custom names only)
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	Resistance float64       `yaml:"resistance"`  // Simulated unknown resistor (Ω), negative = open probes
	NoiseLevel float64       `yaml:"noise_level"` // Peak noise in ADC counts
	Seed       int64         `yaml:"seed"`        // Noise generator seed
	Latency    time.Duration `yaml:"latency"`     // Simulated conversion time per reading
}

const (
	PaletteEnglish    = "en"
	PalettePortuguese = "pt"
)

// Default returns a default configuration with sensible values.
func Default() *Config {
	values := make([]float64, len(resistor.E24))
	copy(values, resistor.E24)

	return &Config{
		Serial: SerialConfig{
			Port:        "/dev/ttyACM0", // Pico USB-CDC on Linux, "COM3"-style on Windows
			BaudRate:    115200,
			ReadTimeout: 2 * time.Second,
		},
		Divider: DividerConfig{
			ReferenceOhms: 10000,
			ADCResolution: 4095,
			VRef:          3.3,
		},
		Measurement: MeasurementConfig{
			SamplesPerReading: 500,
			SampleDelay:       time.Millisecond,
			CycleDelay:        700 * time.Millisecond,
		},
		Table: TableConfig{
			Values: values,
		},
		Bands: BandsConfig{
			Palette: PaletteEnglish,
		},
		Mock: MockConfig{
			Resistance: 4700,
			NoiseLevel: 2,
			Seed:       1,
			Latency:    0,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, merry.Prepend(err, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, merry.Prepend(err, "failed to parse config file")
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return merry.Prepend(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return merry.Prepend(err, "failed to write config file")
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.ReadTimeout == 0 {
		c.Serial.ReadTimeout = def.Serial.ReadTimeout
	}

	if c.Divider.ReferenceOhms == 0 {
		c.Divider.ReferenceOhms = def.Divider.ReferenceOhms
	}
	if c.Divider.ADCResolution == 0 {
		c.Divider.ADCResolution = def.Divider.ADCResolution
	}
	if c.Divider.VRef == 0 {
		c.Divider.VRef = def.Divider.VRef
	}

	if c.Measurement.SamplesPerReading == 0 {
		c.Measurement.SamplesPerReading = def.Measurement.SamplesPerReading
	}

	if len(c.Table.Values) == 0 {
		c.Table.Values = def.Table.Values
	}

	if c.Bands.Palette == "" {
		c.Bands.Palette = def.Bands.Palette
	}

	if c.Mock.NoiseLevel < 0 {
		c.Mock.NoiseLevel = 0
	}
}

// Validate reports every problem in the configuration at once. An invalid
// configuration is fatal at startup.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Divider.ReferenceOhms <= 0 {
		result = multierror.Append(result, merry.Errorf("divider.reference_resistance_ohms=%v: must be positive", c.Divider.ReferenceOhms))
	}
	if c.Divider.ADCResolution <= 0 || c.Divider.ADCResolution > 0xFFFF {
		result = multierror.Append(result, merry.Errorf("divider.adc_resolution=%d: must be in 1..65535", c.Divider.ADCResolution))
	}
	if c.Divider.VRef <= 0 {
		result = multierror.Append(result, merry.Errorf("divider.vref=%v: must be positive", c.Divider.VRef))
	}
	if c.Measurement.SamplesPerReading <= 0 {
		result = multierror.Append(result, merry.Errorf("measurement.samples_per_reading=%d: must be positive", c.Measurement.SamplesPerReading))
	}
	if c.Measurement.SampleDelay < 0 {
		result = multierror.Append(result, merry.Errorf("measurement.sample_delay=%v: must not be negative", c.Measurement.SampleDelay))
	}
	if c.Measurement.CycleDelay < 0 {
		result = multierror.Append(result, merry.Errorf("measurement.cycle_delay=%v: must not be negative", c.Measurement.CycleDelay))
	}
	if _, err := c.StandardTable(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := c.Palette(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// Settings returns the divider settings used for estimation.
func (c *Config) Settings() resistor.Settings {
	return resistor.Settings{
		ReferenceOhms: c.Divider.ReferenceOhms,
		ADCMax:        float64(c.Divider.ADCResolution),
		VRef:          c.Divider.VRef,
	}
}

// StandardTable returns the validated standard value table.
func (c *Config) StandardTable() (resistor.Table, error) {
	t, err := resistor.NewTable(c.Table.Values)
	if err != nil {
		return nil, merry.Prepend(err, "table.values")
	}
	return t, nil
}

// Palette returns the colour names to render bands with.
func (c *Config) Palette() (resistor.Palette, error) {
	if len(c.Bands.Names) > 0 {
		p, err := resistor.NewPalette(c.Bands.Names, c.Bands.Unknown)
		if err != nil {
			return resistor.Palette{}, merry.Prependf(err, "bands.names has %d entries", len(c.Bands.Names))
		}
		return p, nil
	}

	switch c.Bands.Palette {
	case PaletteEnglish, "":
		return resistor.English, nil
	case PalettePortuguese:
		return resistor.Portuguese, nil
	default:
		return resistor.Palette{}, merry.Errorf("bands.palette=%q: must be %q or %q", c.Bands.Palette, PaletteEnglish, PalettePortuguese)
	}
}

// String summarises the divider and cadence for logs.
func (c *Config) String() string {
	return fmt.Sprintf("Rref=%.0fΩ adc=%d n=%d cycle=%v",
		c.Divider.ReferenceOhms, c.Divider.ADCResolution,
		c.Measurement.SamplesPerReading, c.Measurement.CycleDelay)
}
