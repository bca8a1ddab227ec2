package session

import (
	"math"

	"github.com/philipparndt/scaleruler/pkg/geometry"
)

// ViewConfig bounds and steps the zoom level
type ViewConfig struct {
	MinScale      float64
	MaxScale      float64
	ZoomInFactor  float64
	ZoomOutFactor float64
}

// DefaultViewConfig returns the standard zoom limits
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		MinScale:      0.1,
		MaxScale:      10.0,
		ZoomInFactor:  1.1,
		ZoomOutFactor: 0.9,
	}
}

// Extent is a width and height in display pixels
type Extent struct {
	W, H float64
}

// View holds zoom level, scroll position and middle-button panning state.
// Scroll position is kept as fractions in [0, 1] of the scrollable range.
type View struct {
	cfg     ViewConfig
	scale   float64
	h, v    float64
	panning bool
	panLast geometry.Point
}

// NewView creates a view at zoom 1 scrolled to the top-left corner
func NewView(cfg ViewConfig) *View {
	return &View{cfg: cfg, scale: 1.0}
}

// Reset returns to zoom 1 and stops panning
func (v *View) Reset() {
	v.scale = 1.0
	v.h, v.v = 0, 0
	v.panning = false
}

// Scale returns the current zoom factor
func (v *View) Scale() float64 {
	return v.scale
}

// SetScale sets the zoom factor, clamped to the configured limits
func (v *View) SetScale(scale float64) {
	v.scale = clamp(scale, v.cfg.MinScale, v.cfg.MaxScale)
}

// Zoom applies one wheel step. Positive deltaY zooms in, negative zooms out
// and zero is ignored. Returns whether a step was applied.
func (v *View) Zoom(deltaY float64) bool {
	if deltaY == 0 {
		return false
	}
	factor := v.cfg.ZoomOutFactor
	if deltaY > 0 {
		factor = v.cfg.ZoomInFactor
	}
	v.SetScale(v.scale * factor)
	return true
}

// ScrollFractions returns the horizontal and vertical scroll fractions
func (v *View) ScrollFractions() (float64, float64) {
	return v.h, v.v
}

// SetScrollFractions stores the scroll position, clamped to [0, 1]
func (v *View) SetScrollFractions(h, vert float64) {
	v.h = clamp(h, 0, 1)
	v.v = clamp(vert, 0, 1)
}

// Panning reports whether a middle-button pan is in progress
func (v *View) Panning() bool {
	return v.panning
}

// BeginPan starts panning from the given pointer position
func (v *View) BeginPan(p geometry.Point) {
	v.panning = true
	v.panLast = p
}

// PanTo moves the scroll position so the content follows the pointer.
// Returns false when no pan is in progress.
func (v *View) PanTo(p geometry.Point, content, viewport Extent) bool {
	if !v.panning {
		return false
	}
	dx := p.X - v.panLast.X
	dy := p.Y - v.panLast.Y

	hDen := math.Max(content.W-viewport.W, 1)
	vDen := math.Max(content.H-viewport.H, 1)

	v.SetScrollFractions(v.h-dx/hDen, v.v-dy/vDen)
	v.panLast = p
	return true
}

// EndPan stops panning
func (v *View) EndPan() {
	v.panning = false
}

func clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}
