package app

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/scaleruler/internal/session"
	"github.com/philipparndt/scaleruler/pkg/geometry"
)

// Surface displays the open image with its measurement overlay and turns
// pointer input into session operations.
//
// Session coordinates are display coordinates at zoom 1: the image is fitted
// into a box the size of the viewport. The widget itself is that box scaled
// by the zoom factor, inside a scroll container.
type Surface struct {
	widget.BaseWidget

	session *session.Session
	image   *canvas.Image

	// base is the display box at zoom 1, tracking the viewport size
	base     fyne.Size
	viewport *viewport

	// labels are the last laid out measurement labels, in session order
	labels []labelLayout
}

// NewSurface creates a surface bound to the session
func NewSurface(s *session.Session) *Surface {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.Hide()

	surf := &Surface{
		session: s,
		image:   img,
	}
	surf.ExtendBaseWidget(surf)
	surf.viewport = newViewport(surf)
	return surf
}

// Container returns the scrollable viewport to place in a layout
func (s *Surface) Container() fyne.CanvasObject {
	return s.viewport
}

// SetImage replaces the displayed image
func (s *Surface) SetImage(img image.Image) {
	s.image.Image = img
	s.image.Show()
	s.image.Refresh()
	s.Refresh()
}

// HasImage reports whether an image is displayed
func (s *Surface) HasImage() bool {
	return s.image.Image != nil
}

// setBase records a new viewport size as the zoom 1 display box
func (s *Surface) setBase(size fyne.Size) {
	if size == s.base {
		return
	}
	s.base = size
	s.session.SetSurfaceSize(float64(size.Width), float64(size.Height))
	s.Refresh()
}

// scale returns the zoom factor as float32 for layout
func (s *Surface) scale() float32 {
	return float32(s.session.View().Scale())
}

// toDisplay converts a widget position to session coordinates
func (s *Surface) toDisplay(pos fyne.Position) geometry.Point {
	scale := float64(s.scale())
	return geometry.NewPoint(float64(pos.X)/scale, float64(pos.Y)/scale)
}

// toWidget converts session coordinates to a widget position
func (s *Surface) toWidget(p geometry.Point) fyne.Position {
	scale := s.scale()
	return fyne.NewPos(float32(p.X)*scale, float32(p.Y)*scale)
}

// contentSize returns the scaled display box
func (s *Surface) contentSize() fyne.Size {
	scale := s.scale()
	return fyne.NewSize(s.base.Width*scale, s.base.Height*scale)
}

// MinSize makes the scroll container scroll over the scaled display box
func (s *Surface) MinSize() fyne.Size {
	return s.contentSize()
}

// Tapped advances the two-click protocol
func (s *Surface) Tapped(ev *fyne.PointEvent) {
	if !s.HasImage() {
		return
	}
	s.session.PrimaryClick(s.toDisplay(ev.Position))
}

// TappedSecondary deletes the measurement whose label was clicked,
// otherwise cancels the line in progress or resets the calibration.
func (s *Surface) TappedSecondary(ev *fyne.PointEvent) {
	p := s.toDisplay(ev.Position)
	if i := s.labelAt(p); i >= 0 {
		s.session.Delete(i)
		return
	}
	s.session.SecondaryClick()
}

// labelAt returns the index of the topmost label containing p, or -1
func (s *Surface) labelAt(p geometry.Point) int {
	for i := len(s.labels) - 1; i >= 0; i-- {
		if s.labels[i].Box.contains(p) {
			return i
		}
	}
	return -1
}

// MouseDown starts panning on the middle button
func (s *Surface) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonTertiary {
		s.viewport.syncFractions()
		s.session.View().BeginPan(absolutePoint(ev))
	}
}

// MouseUp stops panning on the middle button
func (s *Surface) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonTertiary {
		s.session.View().EndPan()
	}
}

// MouseIn is required by desktop.Hoverable
func (s *Surface) MouseIn(*desktop.MouseEvent) {}

// MouseMoved pans or updates the preview line
func (s *Surface) MouseMoved(ev *desktop.MouseEvent) {
	view := s.session.View()
	if view.Panning() {
		if view.PanTo(absolutePoint(ev), s.viewport.contentExtent(), s.viewport.viewportExtent()) {
			s.viewport.applyFractions()
		}
		return
	}
	s.session.PointerMoved(s.toDisplay(ev.Position))
}

// absolutePoint returns the pointer position in window coordinates. Panning
// uses it because the widget position moves along with the scrolled content.
func absolutePoint(ev *desktop.MouseEvent) geometry.Point {
	return geometry.NewPoint(float64(ev.AbsolutePosition.X), float64(ev.AbsolutePosition.Y))
}

// MouseOut hides the preview and stops panning
func (s *Surface) MouseOut() {
	s.session.PointerExited()
}

// Scrolled zooms with the mouse wheel
func (s *Surface) Scrolled(ev *fyne.ScrollEvent) {
	if s.session.View().Zoom(float64(ev.Scrolled.DY)) {
		s.Refresh()
		s.viewport.Refresh()
	}
}

// CreateRenderer creates the renderer for the widget
func (s *Surface) CreateRenderer() fyne.WidgetRenderer {
	r := &surfaceRenderer{surface: s}
	r.rebuild()
	return r
}

// surfaceRenderer implements fyne.WidgetRenderer
type surfaceRenderer struct {
	surface *Surface
	objects []fyne.CanvasObject
}

func (r *surfaceRenderer) Layout(size fyne.Size) {
	r.surface.image.Move(fyne.NewPos(0, 0))
	r.surface.image.Resize(r.surface.contentSize())
}

func (r *surfaceRenderer) MinSize() fyne.Size {
	return r.surface.contentSize()
}

// Refresh rebuilds the overlay from the session state
func (r *surfaceRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.surface.Size())
	canvas.Refresh(r.surface)
}

func (r *surfaceRenderer) rebuild() {
	s := r.surface
	scale := s.scale()
	textSize := theme.TextSize() * scale

	r.objects = []fyne.CanvasObject{s.image}
	s.labels = s.labels[:0]

	for _, m := range s.session.Measurements() {
		r.objects = append(r.objects, r.newLine(m.Segment, measurementColor))

		label := layoutLabel(m.Segment, m.Label, measureLabel(m.Label))
		s.labels = append(s.labels, label)

		box := canvas.NewRectangle(labelBoxColor)
		box.CornerRadius = labelCornerRadius * scale
		box.Move(s.toWidget(geometry.NewPoint(label.Box.X, label.Box.Y)))
		box.Resize(fyne.NewSize(float32(label.Box.W)*scale, float32(label.Box.H)*scale))

		text := canvas.NewText(label.Text, labelTextColor)
		text.TextSize = textSize
		text.Move(s.toWidget(label.TextPos))

		r.objects = append(r.objects, box, text)
	}

	if seg, ok := s.session.CalibrationLine(); ok {
		r.objects = append(r.objects, r.newLine(seg, calibrationColor))
	}
	if seg, ok := s.session.Preview(); ok {
		r.objects = append(r.objects, r.newLine(seg, previewColor))
	}
}

// newLine creates a canvas line for a segment in session coordinates
func (r *surfaceRenderer) newLine(seg geometry.Segment, c color.Color) *canvas.Line {
	line := canvas.NewLine(c)
	line.StrokeWidth = lineStrokeWidth * r.surface.scale()
	line.Position1 = r.surface.toWidget(seg.Start)
	line.Position2 = r.surface.toWidget(seg.End)
	return line
}

func (r *surfaceRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *surfaceRenderer) Destroy() {}

// viewport wraps the scroll container so its size drives the display box
type viewport struct {
	widget.BaseWidget
	scroll  *container.Scroll
	surface *Surface
}

func newViewport(surface *Surface) *viewport {
	scroll := container.NewScroll(surface)
	scroll.Direction = container.ScrollBoth
	v := &viewport{scroll: scroll, surface: surface}
	v.ExtendBaseWidget(v)
	return v
}

func (v *viewport) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.scroll)
}

// Resize sets the size of the scroll container and rebases the surface
func (v *viewport) Resize(size fyne.Size) {
	v.BaseWidget.Resize(size)
	v.scroll.Resize(size)
	v.surface.setBase(size)
}

// Refresh refreshes the scroll container
func (v *viewport) Refresh() {
	v.scroll.Refresh()
	v.BaseWidget.Refresh()
}

func (v *viewport) contentExtent() session.Extent {
	size := v.surface.contentSize()
	return session.Extent{W: float64(size.Width), H: float64(size.Height)}
}

func (v *viewport) viewportExtent() session.Extent {
	size := v.scroll.Size()
	return session.Extent{W: float64(size.Width), H: float64(size.Height)}
}

// scrollRange returns how far the content can scroll on each axis
func (v *viewport) scrollRange() (float32, float32) {
	content := v.surface.contentSize()
	size := v.scroll.Size()
	return max(content.Width-size.Width, 0), max(content.Height-size.Height, 0)
}

// syncFractions copies the scroll offset into the view, so a pan starts
// from wherever the scroll bars were left
func (v *viewport) syncFractions() {
	rangeX, rangeY := v.scrollRange()
	h, vert := 0.0, 0.0
	if rangeX > 0 {
		h = float64(v.scroll.Offset.X / rangeX)
	}
	if rangeY > 0 {
		vert = float64(v.scroll.Offset.Y / rangeY)
	}
	v.surface.session.View().SetScrollFractions(h, vert)
}

// applyFractions moves the scroll offset to the view's fractions
func (v *viewport) applyFractions() {
	rangeX, rangeY := v.scrollRange()
	h, vert := v.surface.session.View().ScrollFractions()
	v.scroll.Offset = fyne.NewPos(float32(h)*rangeX, float32(vert)*rangeY)
	v.scroll.Refresh()
}
