// Package session holds the annotation state of the currently open image:
// calibration, measurements, the two-click drawing protocol and the view.
package session

import (
	"github.com/philipparndt/scaleruler/pkg/geometry"
	"github.com/philipparndt/scaleruler/pkg/units"
)

// DrawState is the state of the two-click line protocol.
// It is either Idle or AwaitingSecondPoint.
type DrawState interface {
	drawState()
}

// Idle means no line is in progress
type Idle struct{}

// AwaitingSecondPoint means the first end of a line has been placed
type AwaitingSecondPoint struct {
	First geometry.Point
}

func (Idle) drawState()                {}
func (AwaitingSecondPoint) drawState() {}

// Measurement is a persisted line whose length follows the current calibration
type Measurement struct {
	Segment      geometry.Segment
	LengthInches float64
	Label        string
}

// recalculate derives length and label from the given ratio
func (m *Measurement) recalculate(unitsPerPixel float64) {
	m.LengthInches = unitsPerPixel * m.Segment.Length()
	m.Label = units.FormatFeetInches(m.LengthInches)
}

// LengthPrompt asks the user for the real length of a reference line.
// done must be called exactly once; ok=false means canceled or invalid input.
type LengthPrompt interface {
	PromptLength(done func(length units.FeetInches, ok bool))
}

// LengthPromptFunc adapts a function to the LengthPrompt interface
type LengthPromptFunc func(done func(length units.FeetInches, ok bool))

// PromptLength calls f
func (f LengthPromptFunc) PromptLength(done func(length units.FeetInches, ok bool)) {
	f(done)
}
