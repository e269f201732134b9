// Package resistor turns an averaged divider reading into a standard
// resistor value and its colour bands.
//
// The package has no dependencies outside the standard library so that the
// same code runs on the host and inside the TinyGo firmware.
package resistor

import (
	"errors"
	"math"
)

var (
	// ErrOpenCircuit is returned when the averaged sample sits at full scale,
	// i.e. nothing (or something very large) is connected to the probes.
	ErrOpenCircuit = errors.New("open circuit")
	// ErrInvalidSample is returned for negative or NaN averaged samples.
	ErrInvalidSample = errors.New("invalid averaged sample")
	// ErrInvalidDivider is returned when the known resistor or ADC full scale is not positive.
	ErrInvalidDivider = errors.New("invalid divider settings")
)

// Estimate converts an averaged ADC reading into the unknown resistance using
// the divider relation with the known resistor on the low side:
//
//	Rx = Rknown * avg / (adcMax - avg)
//
// avg must be in [0, adcMax). avg >= adcMax yields ErrOpenCircuit instead of
// an infinite value.
func Estimate(avg, referenceOhms, adcMax float64) (float64, error) {
	if referenceOhms <= 0 || adcMax <= 0 {
		return 0, ErrInvalidDivider
	}
	if math.IsNaN(avg) || avg < 0 {
		return 0, ErrInvalidSample
	}
	if avg >= adcMax {
		return 0, ErrOpenCircuit
	}
	return referenceOhms * avg / (adcMax - avg), nil
}

// NodeVoltage converts an averaged ADC reading into the divider node voltage.
func NodeVoltage(avg, adcMax, vref float64) float64 {
	if adcMax <= 0 {
		return 0
	}
	return avg / adcMax * vref
}
