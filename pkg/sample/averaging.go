package sample

import (
	"context"
	"fmt"
	"time"
)

// Averager takes a fixed number of readings from a Reader, spaced by a short
// delay, and returns their arithmetic mean. There is no outlier rejection.
type Averager struct {
	reader Reader
	count  int
	delay  time.Duration
	full   uint16

	onSample func(done, total int)
}

// NewAverager creates an Averager. Non-positive count averages a single
// reading, negative delay means no delay and a zero full scale selects DefaultMax.
func NewAverager(r Reader, count int, delay time.Duration, full uint16) *Averager {
	if count <= 0 {
		count = 1 // No averaging if invalid
	}
	if delay < 0 {
		delay = 0
	}
	if full == 0 {
		full = DefaultMax
	}

	return &Averager{
		reader: r,
		count:  count,
		delay:  delay,
		full:   full,
	}
}

// OnSample registers a hook called after every accepted reading.
// It runs on the acquiring goroutine and must return quickly.
func (a *Averager) OnSample(cb func(done, total int)) {
	a.onSample = cb
}

// Count returns the number of readings per average.
func (a *Averager) Count() int {
	return a.count
}

// Max returns the full-scale count readings are checked against.
func (a *Averager) Max() uint16 {
	return a.full
}

// Duration returns the approximate time one Average call blocks for.
func (a *Averager) Duration() time.Duration {
	return time.Duration(a.count-1) * a.delay
}

// Average acquires Count readings and returns their mean, which always lies
// in [0, Max]. A reader error or cancelled context aborts the acquisition.
func (a *Averager) Average(ctx context.Context) (float64, error) {
	var sum uint64

	for i := range a.count {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		value, err := read(ctx, a.reader)
		if err != nil {
			return 0, fmt.Errorf("sample %d/%d: %w", i+1, a.count, err)
		}
		if value > a.full {
			return 0, fmt.Errorf("sample %d/%d: %d > %d: %w", i+1, a.count, value, a.full, ErrOutOfRange)
		}
		sum += uint64(value)

		if a.onSample != nil {
			a.onSample(i+1, a.count)
		}

		// No need to wait after the last reading
		if i < a.count-1 {
			if err := sleep(ctx, a.delay); err != nil {
				return 0, err
			}
		}
	}

	return float64(sum) / float64(a.count), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
