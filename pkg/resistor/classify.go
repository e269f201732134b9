package resistor

import (
	"errors"
	"math"
	"strconv"
	"time"
)

// Settings describe the divider the instrument measures through.
type Settings struct {
	ReferenceOhms float64 // Known resistor (Ω)
	ADCMax        float64 // Full-scale ADC count (4095 for 12 bits)
	VRef          float64 // ADC reference voltage, zero skips the voltage readout
}

// Reading is the immutable result of one measurement cycle.
type Reading struct {
	Timestamp time.Time
	Average   float64 // Averaged raw sample
	Volts     float64 // Divider node voltage, valid when Sampled
	Sampled   bool    // An averaged sample was acquired this cycle
	Ohms      float64 // Estimated resistance, valid when Err is nil
	Match     Match
	Digits    Digits
	Bands     Bands
	Err       error // ErrOpenCircuit, ErrOutOfRange, or a sampling failure
}

// OK reports whether the cycle produced a classified value.
func (r Reading) OK() bool {
	return r.Err == nil
}

// Classify runs estimation, matching and band decoding for one averaged
// sample. Failed stages leave the later ones unset and fill the bands with
// the palette's unknown marker.
func Classify(avg float64, s Settings, t Table, p Palette) Reading {
	r := Reading{
		Average: avg,
		Volts:   NodeVoltage(avg, s.ADCMax, s.VRef),
		Sampled: true,
	}

	ohms, err := Estimate(avg, s.ReferenceOhms, s.ADCMax)
	if err != nil {
		return r.failed(err, p)
	}
	r.Ohms = ohms

	match, err := t.Nearest(ohms)
	if err != nil {
		return r.failed(err, p)
	}
	r.Match = match
	r.Digits = Decode(match.Value)
	r.Bands = Colorize(r.Digits, p)
	return r
}

// Failed returns a reading that carries only an error.
func Failed(err error, p Palette) Reading {
	return Reading{}.failed(err, p)
}

func (r Reading) failed(err error, p Palette) Reading {
	r.Err = err
	r.Bands = Bands{First: p.Unknown, Second: p.Unknown, Multiplier: p.Unknown}
	return r
}

// Record is the fixed set of fields a renderer draws each cycle.
type Record struct {
	Resistance string
	Band1      string
	Band2      string
	Band3      string
}

const (
	openText  = "OPEN"
	errorText = "ERR"
)

// Record formats the reading for a renderer. The resistance field shows the
// raw estimate rounded to whole ohms.
func (r Reading) Record() Record {
	rec := Record{
		Band1: r.Bands.First,
		Band2: r.Bands.Second,
		Band3: r.Bands.Multiplier,
	}
	switch {
	case r.Err == nil:
		rec.Resistance = strconv.FormatFloat(math.Round(r.Ohms), 'f', 0, 64)
	case errors.Is(r.Err, ErrOpenCircuit):
		rec.Resistance = openText
	default:
		rec.Resistance = errorText
	}
	return rec
}
