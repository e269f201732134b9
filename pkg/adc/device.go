package adc

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ansel1/merry"
	"github.com/powerman/structlog"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the baud rate the firmware console runs at.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the samples channel buffer.
	DefaultBufferSize = 1000
	// DefaultReadTimeout bounds how long Read waits for the next sample.
	DefaultReadTimeout = 2 * time.Second
	// MaxReading is the largest value a 12-bit converter reports.
	MaxReading = 4095
)

var (
	// ErrNotConnected is returned by Read before Connect or after Close.
	ErrNotConnected = errors.New("not connected")
	// ErrTimeout is returned by Read when no sample arrives in time.
	ErrTimeout = errors.New("timed out waiting for sample")
)

var log = structlog.New()

// RawSample represents a raw ADC reading streamed by the firmware.
type RawSample struct {
	Timestamp time.Time
	Reading   uint16 // 12-bit ADC reading (0-4095)
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads raw samples streamed by the instrument over USB-CDC.
type Serial struct {
	port     string
	baudRate int
	bufSize  int
	timeout  time.Duration

	conn      serial.Port
	samples   chan RawSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial instance with the specified port, baud rate,
// buffer size and read timeout. Zero values select the defaults.
func New(port string, baudRate int, bufSize int, timeout time.Duration) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}
	if timeout == 0 {
		timeout = DefaultReadTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		bufSize:   bufSize,
		timeout:   timeout,
		samples:   make(chan RawSample, bufSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, merry.Prepend(err, "failed to list serial ports")
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect connects to the serial port and starts reading samples.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return merry.New("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return merry.Prependf(err, "failed to open serial port %s", d.port)
	}

	d.conn = port
	d.connected = true
	d.ctx, d.cancel = context.WithCancel(context.Background())

	// Start reading samples in a goroutine
	go d.readSamples(d.ctx, port)

	return nil
}

// Close closes the connection and stops reading samples.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	// Cancel context to stop reading goroutine
	d.cancel()

	if d.conn != nil {
		log.ErrIfFail(d.conn.Close, "port", d.port)
		d.conn = nil
	}

	d.connected = false

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Read returns the next raw reading from the stream.
func (d *Serial) Read() (uint16, error) {
	return d.ReadContext(context.Background())
}

// ReadContext returns the next raw reading from the stream, giving up with
// ctx.Err() once ctx is done.
func (d *Serial) ReadContext(ctx context.Context) (uint16, error) {
	d.mu.RLock()
	devCtx, connected := d.ctx, d.connected
	d.mu.RUnlock()

	if !connected {
		return 0, ErrNotConnected
	}
	return receive(ctx, devCtx.Done(), d.samples, d.timeout)
}

// Drain discards buffered samples so the next Read returns a fresh one.
// It returns the number of samples dropped.
func (d *Serial) Drain() int {
	return drain(d.samples)
}

func drain(ch <-chan RawSample) int {
	n := 0
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

// receive waits for the next sample on ch. closed is the device lifetime:
// once it is done the device has been closed.
func receive(ctx context.Context, closed <-chan struct{}, ch <-chan RawSample, timeout time.Duration) (uint16, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case s, ok := <-ch:
		if !ok {
			return 0, ErrNotConnected
		}
		return s.Reading, nil
	case <-closed:
		return 0, ErrNotConnected
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-t.C:
		return 0, ErrTimeout
	}
}

// readSamples reads lines from the serial port and parses them into RawSample.
func (d *Serial) readSamples(ctx context.Context, r io.Reader) {
	defer func() {
		if p := recover(); p != nil {
			log.PrintErr("panic in readSamples", "panic", p)
		}
	}()

	scan(ctx, r, d.samples)
}

// scan parses lines from r into out until r is exhausted or ctx is cancelled.
// Lines that are not samples (firmware debug output) are skipped.
func scan(ctx context.Context, r io.Reader, out chan<- RawSample) {
	scanner := bufio.NewScanner(r)
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if !scanner.Scan() {
				// Scanner stopped (EOF or error)
				if err := scanner.Err(); err != nil && ctx.Err() == nil {
					log.PrintErr("error reading from serial port", "err", err)
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			sample, err := parseLine(line)
			if err != nil {
				log.Debug("skipping line", "line", line, "err", err)
				continue
			}

			// Send sample to channel (non-blocking)
			select {
			case out <- sample:
			case <-ctx.Done():
				return
			default:
				// Channel full, drop the sample
				log.Debug("samples channel full, dropping sample")
			}
		}
	}
}

// parseLine parses a line from the MCU into a RawSample.
// Format: unix_micros,reading
// Example: 1234567890123,2048
func parseLine(line string) (RawSample, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return RawSample{}, merry.Errorf("invalid line format: expected 2 comma-separated values, got %d", len(parts))
	}

	// Parse timestamp (unix microseconds)
	timestampMicros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return RawSample{}, merry.Prepend(err, "invalid timestamp")
	}
	timestamp := time.Unix(0, timestampMicros*1000) // Convert microseconds to nanoseconds

	// Parse reading (12-bit ADC)
	reading, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return RawSample{}, merry.Prepend(err, "invalid reading")
	}
	if reading > MaxReading {
		return RawSample{}, merry.Errorf("reading out of range: %d (max %d)", reading, MaxReading)
	}

	return RawSample{
		Timestamp: timestamp,
		Reading:   uint16(reading),
	}, nil
}
