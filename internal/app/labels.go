package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/philipparndt/scaleruler/pkg/geometry"
)

const (
	// labelOffset shifts the text baseline right and up from the line midpoint
	labelOffset       = 6
	labelPadding      = 4
	labelCornerRadius = 4
	lineStrokeWidth   = 3
)

var (
	measurementColor = color.NRGBA{R: 255, G: 64, B: 32, A: 255}
	calibrationColor = color.NRGBA{R: 32, G: 160, B: 255, A: 255}
	previewColor     = color.NRGBA{R: 255, G: 255, B: 0, A: 230}
	labelTextColor   = color.White
	labelBoxColor    = color.NRGBA{A: 153}
)

// rect is an axis-aligned box in display coordinates
type rect struct {
	X, Y, W, H float64
}

// contains reports whether p lies inside the box, edges included
func (r rect) contains(p geometry.Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// labelLayout positions a measurement label in display coordinates
type labelLayout struct {
	Text    string
	TextPos geometry.Point // top-left of the text
	Box     rect
}

// layoutLabel places the label text with its baseline at the line midpoint
// offset by labelOffset, and surrounds it with a padded box.
func layoutLabel(seg geometry.Segment, text string, textSize fyne.Size) labelLayout {
	mid := seg.Midpoint()
	baselineX := mid.X + labelOffset
	baselineY := mid.Y - labelOffset
	w, h := float64(textSize.Width), float64(textSize.Height)

	return labelLayout{
		Text:    text,
		TextPos: geometry.NewPoint(baselineX, baselineY-h),
		Box: rect{
			X: baselineX - labelPadding,
			Y: baselineY - h - labelPadding,
			W: w + labelPadding*2,
			H: h + labelPadding*2,
		},
	}
}

// measureLabel returns the size of label text at zoom 1
func measureLabel(text string) fyne.Size {
	return fyne.MeasureText(text, theme.TextSize(), fyne.TextStyle{})
}
