// Package units converts between inches and the feet/inches notation used for labels.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// InchesPerFoot is the number of inches in one foot
const InchesPerFoot = 12

// FeetInches is a length entered by the user as whole feet plus whole inches
type FeetInches struct {
	Feet   int
	Inches int
}

// TotalInches returns the length expressed in inches
func (f FeetInches) TotalInches() float64 {
	return float64(f.Feet)*InchesPerFoot + float64(f.Inches)
}

// Valid reports whether feet is non-negative and inches is within 0..11
func (f FeetInches) Valid() bool {
	return f.Feet >= 0 && f.Inches >= 0 && f.Inches < InchesPerFoot
}

// String formats the value the same way as FormatFeetInches
func (f FeetInches) String() string {
	return fmt.Sprintf("%d′ %d″", f.Feet, f.Inches)
}

// ParseFeetInches parses the two text fields of the calibration prompt.
// Blank fields count as zero. Any parse failure or out-of-range value
// returns ok=false, which callers treat exactly like a cancellation.
func ParseFeetInches(feetText, inchesText string) (FeetInches, bool) {
	feet, ok := parseWhole(feetText)
	if !ok {
		return FeetInches{}, false
	}
	inches, ok := parseWhole(inchesText)
	if !ok {
		return FeetInches{}, false
	}

	result := FeetInches{Feet: feet, Inches: inches}
	if !result.Valid() {
		return FeetInches{}, false
	}
	return result, true
}

func parseWhole(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, true
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}

// RoundFeetInches rounds a length in inches to the nearest whole inch
// (half rounds up) and splits it into feet and inches.
// Non-finite and negative lengths become zero.
func RoundFeetInches(totalInches float64) FeetInches {
	rounded := 0.0
	if !math.IsNaN(totalInches) && !math.IsInf(totalInches, 0) && totalInches >= 0 {
		rounded = math.Floor(totalInches + 0.5)
	}

	// Saturate instead of overflowing the int conversion
	if math.Floor(rounded/InchesPerFoot) >= float64(math.MaxInt) {
		return FeetInches{Feet: math.MaxInt}
	}
	feet := int(rounded / InchesPerFoot)
	inches := int(math.Mod(rounded, InchesPerFoot))
	// Carry when floating point leaves a full foot in the remainder
	if inches == InchesPerFoot {
		feet++
		inches = 0
	}
	return FeetInches{Feet: feet, Inches: inches}
}

// FormatFeetInches renders a length in inches as `{feet}′ {inches}″`
func FormatFeetInches(totalInches float64) string {
	return RoundFeetInches(totalInches).String()
}
