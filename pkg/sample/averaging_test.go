package sample

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns a reader that cycles through values.
func sequence(values ...uint16) ReaderFunc {
	i := 0
	return func() (uint16, error) {
		v := values[i%len(values)]
		i++
		return v, nil
	}
}

func TestNewAverager_Defaults(t *testing.T) {
	a := NewAverager(sequence(1), 0, -time.Second, 0)
	assert.Equal(t, 1, a.Count())
	assert.Equal(t, uint16(DefaultMax), a.Max())
	assert.Equal(t, time.Duration(0), a.Duration())

	a = NewAverager(sequence(1), DefaultCount, DefaultDelay, 1023)
	assert.Equal(t, DefaultCount, a.Count())
	assert.Equal(t, uint16(1023), a.Max())
	assert.Equal(t, 499*time.Millisecond, a.Duration())
}

func TestAverage_BasicAveraging(t *testing.T) {
	tests := []struct {
		name   string
		values []uint16
		count  int
		want   float64
	}{
		{"constant", []uint16{2047}, 10, 2047},
		{"two levels", []uint16{2047, 2048}, 10, 2047.5},
		{"ramp", []uint16{1000, 1100, 1200}, 3, 1100},
		{"zero", []uint16{0}, 5, 0},
		{"full scale", []uint16{4095}, 5, 4095},
		{"single", []uint16{17, 99}, 1, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAverager(sequence(tt.values...), tt.count, 0, DefaultMax)
			got, err := a.Average(context.Background())
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAverage_StaysInRange(t *testing.T) {
	a := NewAverager(sequence(0, 4095, 4095, 0, 1, 4094), 600, 0, DefaultMax)
	got, err := a.Average(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, float64(DefaultMax))
}

func TestAverage_OutOfRange(t *testing.T) {
	a := NewAverager(sequence(100, 5000), 4, 0, DefaultMax)
	_, err := a.Average(context.Background())
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestAverage_ReaderError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	r := ReaderFunc(func() (uint16, error) {
		calls++
		if calls == 3 {
			return 0, boom
		}
		return 1000, nil
	})

	a := NewAverager(r, 10, 0, DefaultMax)
	_, err := a.Average(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "sample 3/10")
	assert.Equal(t, 3, calls, "acquisition must stop at the first failure")
}

func TestAverage_OnSample(t *testing.T) {
	var progress []int
	a := NewAverager(sequence(10), 4, 0, DefaultMax)
	a.OnSample(func(done, total int) {
		assert.Equal(t, 4, total)
		progress = append(progress, done)
	})

	_, err := a.Average(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)
}

func TestAverage_Delay(t *testing.T) {
	a := NewAverager(sequence(10), 5, 10*time.Millisecond, DefaultMax)

	start := time.Now()
	_, err := a.Average(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestAverage_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAverager(sequence(10), 5, 0, DefaultMax)
	_, err := a.Average(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAverage_CancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	a := NewAverager(sequence(10), 1000, 10*time.Millisecond, DefaultMax)

	start := time.Now()
	_, err := a.Average(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second, "cancellation must interrupt the delay")
}

// blocking never produces a sample. Read would hang forever, ReadContext
// returns once ctx is done.
type blocking struct{ plainReads int }

func (b *blocking) Read() (uint16, error) {
	b.plainReads++
	select {}
}

func (b *blocking) ReadContext(ctx context.Context) (uint16, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func TestAverage_CancelledDuringRead(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r := &blocking{}
	a := NewAverager(r, 5, 0, DefaultMax)

	start := time.Now()
	_, err := a.Average(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "sample 1/5")
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Zero(t, r.plainReads)
}
