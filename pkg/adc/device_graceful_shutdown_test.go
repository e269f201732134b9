package adc

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestScan_GracefulShutdown tests that the reading loop exits when its
// context is cancelled, even while the port keeps producing lines.
func TestScan_GracefulShutdown(t *testing.T) {
	pr, pw := io.Pipe()
	defer pr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan RawSample, 100)

	done := make(chan struct{})
	go func() {
		defer close(done)
		scan(ctx, pr, out)
	}()

	// Feed lines until the scanner goroutine exits
	go func() {
		for {
			if _, err := pw.Write([]byte("1000,2048\n")); err != nil {
				return
			}
			select {
			case <-done:
				pw.Close()
				return
			default:
			}
		}
	}()

	// Wait for at least one sample before cancelling
	select {
	case s := <-out:
		assert.Equal(t, uint16(2048), s.Reading)
	case <-time.After(5 * time.Second):
		t.Fatal("no sample received")
	}

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not exit within timeout")
	}
}

// TestScan_EOF tests that the reading loop exits when the port is closed.
func TestScan_EOF(t *testing.T) {
	pr, pw := io.Pipe()
	out := make(chan RawSample, 10)

	done := make(chan struct{})
	go func() {
		defer close(done)
		scan(context.Background(), pr, out)
	}()

	_, err := pw.Write([]byte("1,7\n"))
	assert.NoError(t, err)
	pw.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not exit after EOF")
	}
	assert.Len(t, out, 1)
}
