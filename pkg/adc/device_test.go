package adc

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    RawSample
		wantErr bool
	}{
		{
			name: "valid line - mid scale",
			line: "1234567890123,2048",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Reading:   2048,
			},
			wantErr: false,
		},
		{
			name: "valid line - zero",
			line: "1234567890123,0",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Reading:   0,
			},
			wantErr: false,
		},
		{
			name: "valid line - max ADC value",
			line: "1234567890123,4095",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Reading:   4095,
			},
			wantErr: false,
		},
		{
			name:    "invalid - wrong number of fields",
			line:    "1234567890123",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "1234567890123,2048,1024",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric timestamp",
			line:    "abc,2048",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric reading",
			line:    "1234567890123,abc",
			wantErr: true,
		},
		{
			name:    "invalid - reading out of range",
			line:    "1234567890123,5000",
			wantErr: true,
		},
		{
			name:    "invalid - debug output",
			line:    "nearest: 4700 digits 4 7 2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want.Timestamp.UnixNano(), got.Timestamp.UnixNano())
				assert.Equal(t, tt.want.Reading, got.Reading)
			}
		})
	}
}

func TestNew(t *testing.T) {
	dev := New("/dev/ttyACM0", 9600, 100, time.Second)
	assert.NotNil(t, dev)
	assert.Equal(t, "/dev/ttyACM0", dev.port)
	assert.Equal(t, 9600, dev.baudRate)
	assert.Equal(t, 100, dev.bufSize)
	assert.Equal(t, time.Second, dev.timeout)
	assert.NotNil(t, dev.samples)
	assert.False(t, dev.IsConnected())
}

func TestNew_Defaults(t *testing.T) {
	dev := New("/dev/ttyACM0", 0, 0, 0)
	assert.NotNil(t, dev)
	assert.Equal(t, DefaultBaudRate, dev.baudRate)
	assert.Equal(t, DefaultBufferSize, dev.bufSize)
	assert.Equal(t, DefaultReadTimeout, dev.timeout)
}

func TestSerial_ReadNotConnected(t *testing.T) {
	dev := New("/dev/ttyACM0", 0, 0, 0)
	_, err := dev.Read()
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.NoError(t, dev.Close(), "closing an unconnected device is a no-op")
}

func TestScan(t *testing.T) {
	input := "boot\n1000,1\n\n1001,2\nnearest 4700\n1002,3\n"
	out := make(chan RawSample, 10)

	scan(context.Background(), strings.NewReader(input), out)
	close(out)

	var readings []uint16
	for s := range out {
		readings = append(readings, s.Reading)
	}
	assert.Equal(t, []uint16{1, 2, 3}, readings)
}

func TestScan_DropsWhenFull(t *testing.T) {
	out := make(chan RawSample, 1)

	scan(context.Background(), strings.NewReader("1,1\n2,2\n3,3\n"), out)

	assert.Len(t, out, 1)
	s := <-out
	assert.Equal(t, uint16(1), s.Reading)
}

func TestReceive(t *testing.T) {
	ch := make(chan RawSample, 1)
	ch <- RawSample{Reading: 42}
	open := make(chan struct{})

	v, err := receive(context.Background(), open, ch, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), v)

	_, err = receive(context.Background(), open, ch, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = receive(ctx, open, ch, time.Second)
	assert.ErrorIs(t, err, context.Canceled)

	closed := make(chan struct{})
	close(closed)
	_, err = receive(context.Background(), closed, ch, time.Second)
	assert.ErrorIs(t, err, ErrNotConnected)

	close(ch)
	_, err = receive(context.Background(), open, ch, time.Second)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSerial_ReadContextCancel(t *testing.T) {
	dev := New("/dev/ttyACM0", 0, 10, time.Minute)
	dev.connected = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := dev.ReadContext(ctx)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("ReadContext did not return after cancel")
	}
}

func TestSerial_ReadContextClosed(t *testing.T) {
	dev := New("/dev/ttyACM0", 0, 10, time.Minute)
	dev.connected = true
	dev.cancel()

	_, err := dev.ReadContext(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestDrain(t *testing.T) {
	dev := New("/dev/ttyACM0", 0, 10, 0)
	for i := range 5 {
		dev.samples <- RawSample{Reading: uint16(i)}
	}

	assert.Equal(t, 5, dev.Drain())
	assert.Equal(t, 0, dev.Drain())
	assert.Len(t, dev.samples, 0)
}
