// Package sample acquires raw ADC readings and reduces them to a stable
// average. It only depends on the standard library so the firmware can use it
// as is.
package sample

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultMax is the full-scale count of a 12-bit converter.
	DefaultMax = 4095
	// DefaultCount is the number of readings averaged per measurement.
	DefaultCount = 500
	// DefaultDelay separates consecutive readings.
	DefaultDelay = time.Millisecond
)

// ErrOutOfRange is returned when a reader produces a value above full scale.
var ErrOutOfRange = errors.New("raw sample out of range")

// Reader produces one raw ADC reading per call.
type Reader interface {
	Read() (uint16, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func() (uint16, error)

// Read calls f.
func (f ReaderFunc) Read() (uint16, error) {
	return f()
}

// ContextReader is implemented by readers that may block, such as a serial
// stream. The Averager prefers ReadContext so cancelling a measurement does
// not wait out a read timeout.
type ContextReader interface {
	ReadContext(ctx context.Context) (uint16, error)
}

func read(ctx context.Context, r Reader) (uint16, error) {
	if cr, ok := r.(ContextReader); ok {
		return cr.ReadContext(ctx)
	}
	return r.Read()
}
