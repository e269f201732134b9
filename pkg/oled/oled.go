// Package oled draws readings on the 128x64 monochrome panel of the
// instrument. It only needs a drivers.Displayer, so the same layout runs on
// the firmware and in host tests.
package oled

import (
	"image/color"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/itohio/ohmmeter/pkg/resistor"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Title heads the frame.
const Title = "OHMIMETRO"

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}

	font = &proggy.TinySZ8pt7b
)

// Screen is a buffered display, such as *ssd1306.Device.
type Screen interface {
	drivers.Displayer
	ClearBuffer()
}

// Render draws the framed reading: title, resistance and node voltage, then
// one row per band.
func Render(d Screen, r resistor.Reading) error {
	d.ClearBuffer()

	tinydraw.Rectangle(d, 3, 3, 122, 60, white)
	for _, y := range []int16{11, 26, 38, 50} {
		tinydraw.Line(d, 3, y, 123, y, white)
	}

	rec := r.Record()
	tinyfont.WriteLine(d, font, 28, 10, Title, white)
	tinyfont.WriteLine(d, font, 8, 22, "OHMs:", white)
	tinyfont.WriteLine(d, font, 44, 22, rec.Resistance, white)
	if r.Sampled {
		tinyfont.WriteLine(d, font, 88, 22, Voltage(r.Volts), white)
	}
	tinyfont.WriteLine(d, font, 8, 35, rec.Band1, white)
	tinyfont.WriteLine(d, font, 8, 47, rec.Band2, white)
	tinyfont.WriteLine(d, font, 8, 59, rec.Band3, white)

	return d.Display()
}

// Message blanks the panel and shows a single word, e.g. before rebooting.
func Message(d Screen, msg string) error {
	d.ClearBuffer()
	w, h := d.Size()
	tinydraw.FilledRectangle(d, 0, 0, w, h, black)
	tinyfont.WriteLine(d, font, 36, 36, msg, white)
	return d.Display()
}

// Voltage formats a node voltage with two decimals, e.g. "1.06V".
func Voltage(volts float64) string {
	v := math32.Round(float32(volts)*100) / 100
	return strconv.FormatFloat(float64(v), 'f', 2, 32) + "V"
}
