package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/itohio/ohmmeter/pkg/resistor"
)

// Console renders readings as one text line each, for headless use.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console renderer writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Render writes one line for r. It has the signature of a meter callback.
func (c *Console) Render(r resistor.Reading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, Line(r))
}

// Line formats a reading as "OHMs: <resistance> | <band1> <band2> <band3>",
// with the matched standard value when there is one and the divider node
// voltage when a sample was acquired.
func Line(r resistor.Reading) string {
	rec := r.Record()
	line := fmt.Sprintf("OHMs: %s | %s %s %s", rec.Resistance, rec.Band1, rec.Band2, rec.Band3)
	if r.OK() {
		line += fmt.Sprintf(" | nearest %.0f", r.Match.Value)
	}
	if r.Sampled {
		line += " | " + Volts(r)
	}
	return line
}

// Volts formats the divider node voltage, or "" when no sample was acquired.
func Volts(r resistor.Reading) string {
	if !r.Sampled {
		return ""
	}
	return fmt.Sprintf("%.2f V", r.Volts)
}
