package display

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

var (
	backgroundColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	textColor       = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	dimTextColor    = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	bodyColor       = color.RGBA{R: 222, G: 196, B: 150, A: 255}
	leadColor       = color.RGBA{R: 180, G: 180, B: 180, A: 255}
	frameColor      = color.RGBA{R: 70, G: 70, B: 70, A: 255}
)

// bandsRenderer renders the bands widget. The canvas objects are created
// once and only moved or recoloured afterwards.
type bandsRenderer struct {
	bands *BandsWidget

	background *canvas.Rectangle
	title      *canvas.Text
	ohms       *canvas.Text
	volts      *canvas.Text

	// Resistor drawing
	lead      *canvas.Line
	body      *canvas.Rectangle
	bodyBands [3]*canvas.Rectangle

	// Name rows under the drawing
	rowSwatches [3]*canvas.Rectangle
	rowLabels   [3]*canvas.Text
	separators  [3]*canvas.Line

	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

func newBandsRenderer(b *BandsWidget) *bandsRenderer {
	r := &bandsRenderer{
		bands:      b,
		background: canvas.NewRectangle(backgroundColor),
		title:      canvas.NewText(b.title, dimTextColor),
		ohms:       canvas.NewText("", textColor),
		volts:      canvas.NewText("", dimTextColor),
		lead:       canvas.NewLine(leadColor),
		body:       canvas.NewRectangle(bodyColor),
	}
	r.title.TextSize = 14
	r.title.Alignment = fyne.TextAlignCenter
	r.ohms.TextSize = 32
	r.ohms.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	r.ohms.Alignment = fyne.TextAlignCenter
	r.volts.TextSize = 12
	r.volts.TextStyle = fyne.TextStyle{Monospace: true}
	r.volts.Alignment = fyne.TextAlignCenter
	r.lead.StrokeWidth = 3
	r.body.CornerRadius = 12

	r.objects = []fyne.CanvasObject{r.background, r.title, r.ohms, r.volts, r.lead, r.body}
	for i := range r.bodyBands {
		r.bodyBands[i] = canvas.NewRectangle(unknownSwatch)
		r.objects = append(r.objects, r.bodyBands[i])
	}
	for i := range r.rowSwatches {
		r.separators[i] = canvas.NewLine(frameColor)
		r.separators[i].StrokeWidth = 1
		r.rowSwatches[i] = canvas.NewRectangle(unknownSwatch)
		r.rowSwatches[i].StrokeColor = frameColor
		r.rowSwatches[i].StrokeWidth = 1
		r.rowLabels[i] = canvas.NewText("", textColor)
		r.rowLabels[i].TextSize = 16
		r.objects = append(r.objects, r.separators[i], r.rowSwatches[i], r.rowLabels[i])
	}

	r.Refresh()
	return r
}

// MinSize returns the minimum size of the widget.
func (r *bandsRenderer) MinSize() fyne.Size {
	return fyne.NewSize(320, 360)
}

// Layout arranges the widget components.
func (r *bandsRenderer) Layout(size fyne.Size) {
	r.lastSize = size
	r.background.Resize(size)

	const margin = float32(16)
	width := size.Width - 2*margin

	// Title and resistance text
	r.title.Move(fyne.NewPos(margin, margin))
	r.title.Resize(fyne.NewSize(width, 20))
	r.ohms.Move(fyne.NewPos(margin, margin+24))
	r.ohms.Resize(fyne.NewSize(width, 44))
	r.volts.Move(fyne.NewPos(margin, margin+68))
	r.volts.Resize(fyne.NewSize(width, 16))

	// Resistor drawing: lead through the middle, body in the central half
	drawTop := margin + 92
	drawHeight := size.Height * 0.22
	midY := drawTop + drawHeight/2
	r.lead.Position1 = fyne.NewPos(margin, midY)
	r.lead.Position2 = fyne.NewPos(size.Width-margin, midY)

	bodyWidth := width * 0.5
	bodyX := (size.Width - bodyWidth) / 2
	r.body.Move(fyne.NewPos(bodyX, drawTop))
	r.body.Resize(fyne.NewSize(bodyWidth, drawHeight))

	bandWidth := bodyWidth / 10
	for i, band := range r.bodyBands {
		x := bodyX + bodyWidth*0.18 + float32(i)*bandWidth*1.8
		band.Move(fyne.NewPos(x, drawTop))
		band.Resize(fyne.NewSize(bandWidth, drawHeight))
	}

	// One row per band name
	rowTop := drawTop + drawHeight + margin
	rowHeight := (size.Height - rowTop - margin) / float32(len(r.rowLabels))
	for i := range r.rowLabels {
		y := rowTop + float32(i)*rowHeight
		r.separators[i].Position1 = fyne.NewPos(margin, y)
		r.separators[i].Position2 = fyne.NewPos(size.Width-margin, y)

		swatch := rowHeight * 0.6
		r.rowSwatches[i].Move(fyne.NewPos(margin, y+(rowHeight-swatch)/2))
		r.rowSwatches[i].Resize(fyne.NewSize(swatch, swatch))

		r.rowLabels[i].Move(fyne.NewPos(margin+swatch+margin, y+(rowHeight-swatch)/2))
		r.rowLabels[i].Resize(fyne.NewSize(width-swatch-margin, swatch))
	}
}

// Refresh copies the widget data into the canvas objects.
func (r *bandsRenderer) Refresh() {
	r.bands.mu.RLock()
	record := r.bands.record
	swatches := r.bands.swatches
	volts := Volts(r.bands.reading)
	r.bands.mu.RUnlock()

	r.ohms.Text = ohmsText(record.Resistance)
	r.volts.Text = volts
	names := [3]string{record.Band1, record.Band2, record.Band3}
	for i := range names {
		r.bodyBands[i].FillColor = swatches[i]
		r.rowSwatches[i].FillColor = swatches[i]
		r.rowLabels[i].Text = names[i]
	}

	if r.lastSize.Width > 0 && r.lastSize.Height > 0 {
		r.Layout(r.lastSize)
	}
	for _, o := range r.objects {
		canvas.Refresh(o)
	}
}

// Objects returns all canvas objects for rendering.
func (r *bandsRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *bandsRenderer) Destroy() {
	// Cleanup handled by Fyne
}

// ohmsText appends the unit to numeric resistance fields.
func ohmsText(resistance string) string {
	if resistance == "" || resistance[0] < '0' || resistance[0] > '9' {
		return resistance
	}
	return resistance + " Ω"
}
