package resistor

import (
	"errors"
	"image/color"
)

// Color is a resistor colour-code digit, 0 (black) to 9 (white).
type Color int

const (
	Black Color = iota
	Brown
	Red
	Orange
	Yellow
	Green
	Blue
	Violet
	Grey
	White
)

// ErrPaletteSize is returned when a custom palette does not have exactly ten names.
var ErrPaletteSize = errors.New("palette must name exactly ten colours")

// ColorOf returns the colour for a digit or multiplier value.
func ColorOf(n int) (Color, bool) {
	if n < int(Black) || n > int(White) {
		return 0, false
	}
	return Color(n), true
}

var swatches = [...]color.RGBA{
	Black:  {R: 0, G: 0, B: 0, A: 255},
	Brown:  {R: 139, G: 69, B: 19, A: 255},
	Red:    {R: 220, G: 20, B: 20, A: 255},
	Orange: {R: 255, G: 140, B: 0, A: 255},
	Yellow: {R: 255, G: 215, B: 0, A: 255},
	Green:  {R: 0, G: 160, B: 60, A: 255},
	Blue:   {R: 30, G: 90, B: 220, A: 255},
	Violet: {R: 140, G: 60, B: 200, A: 255},
	Grey:   {R: 128, G: 128, B: 128, A: 255},
	White:  {R: 250, G: 250, B: 250, A: 255},
}

// RGBA returns the display swatch for the colour.
func (c Color) RGBA() color.RGBA {
	if c < Black || c > White {
		return color.RGBA{A: 255}
	}
	return swatches[c]
}

// Palette names the ten colours for display.
type Palette struct {
	Names   [10]string
	Unknown string // Shown for values outside 0-9
}

// English is the default palette.
var English = Palette{
	Names: [10]string{
		"Black", "Brown", "Red", "Orange", "Yellow",
		"Green", "Blue", "Violet", "Grey", "White",
	},
	Unknown: "Error",
}

// Portuguese matches the labels printed by the original instrument.
var Portuguese = Palette{
	Names: [10]string{
		"Preto", "Marrom", "Vermelho", "Laranja", "Amarelo",
		"Verde", "Azul", "Violeta", "Cinza", "Branco",
	},
	Unknown: "Erro",
}

// NewPalette builds a palette from ten names. An empty unknown marker
// defaults to "?".
func NewPalette(names []string, unknown string) (Palette, error) {
	if len(names) != len(Palette{}.Names) {
		return Palette{}, ErrPaletteSize
	}
	if unknown == "" {
		unknown = "?"
	}
	p := Palette{Unknown: unknown}
	copy(p.Names[:], names)
	return p, nil
}

// Name returns the colour name for n, or the unknown marker if n is not a
// colour-code value.
func (p Palette) Name(n int) string {
	c, ok := ColorOf(n)
	if !ok {
		return p.Unknown
	}
	return p.Names[c]
}

// Bands are the three colour bands of a two-digit resistor code.
type Bands struct {
	First      string
	Second     string
	Multiplier string
}

// Colorize maps decoded digits onto palette names.
func Colorize(d Digits, p Palette) Bands {
	return Bands{
		First:      p.Name(d.First),
		Second:     p.Name(d.Second),
		Multiplier: p.Name(d.Multiplier),
	}
}
