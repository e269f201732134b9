package meter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ansel1/merry"
	"github.com/itohio/ohmmeter/pkg/config"
	"github.com/itohio/ohmmeter/pkg/resistor"
	"github.com/itohio/ohmmeter/pkg/sample"
	"github.com/powerman/structlog"
)

var _ ResistanceMeter = (*Meter)(nil)

var (
	// ErrSensor marks cycles that failed because the raw sample source failed.
	ErrSensor = errors.New("sensor read failed")
	// ErrRunning is returned when Run is called while a loop is already active.
	ErrRunning = errors.New("measurement loop already running")
)

var log = structlog.New()

// ResistanceMeter runs the measurement pipeline and reports every cycle.
type ResistanceMeter interface {
	Measure(ctx context.Context) resistor.Reading // One cycle: sample, estimate, match, decode
	Run(ctx context.Context) error                // Repeat Measure on the configured cadence until ctx is done
	OnUpdate(func(resistor.Reading))              // Register a renderer
}

// drainer is implemented by streaming sources that buffer samples between cycles.
type drainer interface {
	Drain() int
}

// Meter implements ResistanceMeter interface.
// Nothing but the table and palette survives from one cycle to the next.
type Meter struct {
	reader   sample.Reader
	averager *sample.Averager
	settings resistor.Settings
	table    resistor.Table
	palette  resistor.Palette

	cycleDelay time.Duration
	now        func() time.Time

	// Update callbacks
	callbacks []func(resistor.Reading)
	cbMu      sync.RWMutex

	running atomic.Bool
}

// New creates a new Meter reading raw samples from r.
// An invalid table or palette is a configuration error and is returned here
// rather than on every cycle.
func New(cfg *config.Config, r sample.Reader) (*Meter, error) {
	table, err := cfg.StandardTable()
	if err != nil {
		return nil, err
	}
	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	settings := cfg.Settings()
	if settings.ReferenceOhms <= 0 || settings.ADCMax <= 0 || settings.ADCMax > 0xFFFF {
		return nil, merry.Wrap(resistor.ErrInvalidDivider).Appendf("Rref=%v adc=%v", settings.ReferenceOhms, settings.ADCMax)
	}

	m := &Meter{
		reader: r,
		averager: sample.NewAverager(r,
			cfg.Measurement.SamplesPerReading,
			cfg.Measurement.SampleDelay,
			uint16(settings.ADCMax)),
		settings:   settings,
		table:      table,
		palette:    palette,
		cycleDelay: cfg.Measurement.CycleDelay,
		now:        time.Now,
		callbacks:  make([]func(resistor.Reading), 0),
	}
	log.Info("meter ready", "rref", settings.ReferenceOhms, "samples", m.averager.Count(),
		"acquire", m.averager.Duration(), "table", len(table), "min", table.Min(), "max", table.Max())

	return m, nil
}

// Averager exposes the sampler, e.g. to attach a progress hook.
func (m *Meter) Averager() *sample.Averager {
	return m.averager
}

// Measure runs one measurement cycle. It never fails: problems are reported
// through Reading.Err so the caller can render an error and carry on.
func (m *Meter) Measure(ctx context.Context) resistor.Reading {
	if d, ok := m.reader.(drainer); ok {
		if n := d.Drain(); n > 0 {
			log.Debug("dropped stale samples", "count", n)
		}
	}

	avg, err := m.averager.Average(ctx)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		} else {
			err = merry.Wrap(ErrSensor).WithCause(err)
		}
		r := resistor.Failed(err, m.palette)
		r.Timestamp = m.now()
		log.PrintErr(err)
		return r
	}

	r := resistor.Classify(avg, m.settings, m.table, m.palette)
	r.Timestamp = m.now()

	if r.OK() {
		log.Debug("cycle", "avg", avg, "ohms", r.Ohms, "nearest", r.Match.Value,
			"digits", []int{r.Digits.First, r.Digits.Second, r.Digits.Multiplier})
	} else {
		log.PrintErr(r.Err, "avg", avg)
	}

	return r
}

// Run measures, notifies callbacks and waits for the cycle delay, forever.
// A failed cycle is reported like any other. Run returns ctx.Err() once ctx
// is cancelled, which is how an external reset request stops the loop.
func (m *Meter) Run(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer m.running.Store(false)

	for {
		r := m.Measure(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		m.notifyCallbacks(r)

		if err := wait(ctx, m.cycleDelay); err != nil {
			return err
		}
	}
}

// OnUpdate registers a callback invoked after every cycle with its reading.
// Callbacks run on the measurement goroutine and must return quickly.
func (m *Meter) OnUpdate(callback func(resistor.Reading)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// notifyCallbacks invokes all registered callbacks with r.
// Copies the callback list under read lock, then calls callbacks without lock.
func (m *Meter) notifyCallbacks(r resistor.Reading) {
	m.cbMu.RLock()
	callbacks := make([]func(resistor.Reading), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.cbMu.RUnlock()

	for _, cb := range callbacks {
		cb(r)
	}
}

func wait(ctx context.Context, d time.Duration) error {
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
