package adc

import "github.com/itohio/ohmmeter/pkg/sample"

// Device defines the interface for raw sample sources (real or mocked).
type Device interface {
	sample.Reader
	Connect() error
	Close() error
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

// Both sources stop blocking when a measurement is cancelled.
var (
	_ sample.ContextReader = (*Serial)(nil)
	_ sample.ContextReader = (*Mock)(nil)
)
