package display

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/ohmmeter/pkg/resistor"
)

// Placeholder shown before the first reading arrives.
const Placeholder = "----"

var unknownSwatch = color.RGBA{R: 60, G: 60, B: 60, A: 255}

// BandsWidget is a custom Fyne widget that draws a resistor with its three
// colour bands, the estimated resistance and the band names.
type BandsWidget struct {
	widget.BaseWidget

	title string

	// Data (protected by mu)
	mu       sync.RWMutex
	reading  resistor.Reading
	record   resistor.Record
	swatches [3]color.Color
}

// New creates a new BandsWidget instance.
func New(title string) *BandsWidget {
	b := &BandsWidget{
		title:    title,
		record:   resistor.Record{Resistance: Placeholder},
		swatches: [3]color.Color{unknownSwatch, unknownSwatch, unknownSwatch},
	}
	b.ExtendBaseWidget(b)
	return b
}

// Update replaces the displayed reading.
// This should be called from the measurement callback using fyne.Do().
func (b *BandsWidget) Update(r resistor.Reading) {
	b.mu.Lock()
	b.reading = r
	b.record = r.Record()
	b.swatches = Swatches(r)
	b.mu.Unlock()

	// Refresh outside the lock, the renderer takes a read lock
	b.Refresh()
}

// Record returns the record currently on screen.
func (b *BandsWidget) Record() resistor.Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.record
}

// CreateRenderer creates the widget renderer.
func (b *BandsWidget) CreateRenderer() fyne.WidgetRenderer {
	return newBandsRenderer(b)
}

// Swatches returns the fill colours of the three bands. Failed readings and
// digits outside 0-9 get a neutral swatch.
func Swatches(r resistor.Reading) [3]color.Color {
	out := [3]color.Color{unknownSwatch, unknownSwatch, unknownSwatch}
	if !r.OK() {
		return out
	}
	for i, n := range []int{r.Digits.First, r.Digits.Second, r.Digits.Multiplier} {
		if c, ok := resistor.ColorOf(n); ok {
			out[i] = c.RGBA()
		}
	}
	return out
}
