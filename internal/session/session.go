package session

import (
	"log/slog"

	"github.com/philipparndt/scaleruler/pkg/geometry"
	"github.com/philipparndt/scaleruler/pkg/settings"
	"github.com/philipparndt/scaleruler/pkg/units"
)

// Session is the annotation state of one open image.
//
// All methods are expected to be called from the UI goroutine. Every change
// to calibration or the measurement list is written through to Settings
// before the method returns.
type Session struct {
	settings *settings.Settings
	prompt   LengthPrompt
	logger   *slog.Logger

	imagePath     string
	// generation counts Open calls so stale prompt answers can be told apart
	generation    int
	unitsPerPixel float64
	calibrated    bool
	measurements  []Measurement

	draw            DrawState
	preview         *geometry.Segment
	calibrationLine *geometry.Segment

	surface        Extent
	restorePending bool
	view           *View

	listeners []func()
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger used for state transitions
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithPrompt sets the prompt used to ask for the length of a calibration line
func WithPrompt(prompt LengthPrompt) Option {
	return func(s *Session) {
		s.prompt = prompt
	}
}

// WithViewConfig sets the zoom limits of the view
func WithViewConfig(cfg ViewConfig) Option {
	return func(s *Session) {
		s.view = NewView(cfg)
	}
}

// New creates an empty session with no image
func New(st *settings.Settings, opts ...Option) *Session {
	s := &Session{
		settings: st,
		logger:   slog.New(slog.DiscardHandler),
		draw:     Idle{},
		view:     NewView(DefaultViewConfig()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers a callback invoked after every state change
func (s *Session) OnChange(callback func()) {
	s.listeners = append(s.listeners, callback)
}

func (s *Session) notify() {
	for _, listener := range s.listeners {
		listener()
	}
}

// Open discards the current state and starts a session for the given image.
// The stored calibration is loaded immediately; stored measurements are
// restored by TryRestore once the display surface has a size.
func (s *Session) Open(imagePath string) {
	s.imagePath = imagePath
	s.generation++
	s.draw = Idle{}
	s.preview = nil
	s.calibrationLine = nil
	s.measurements = nil
	s.view.Reset()

	s.unitsPerPixel, s.calibrated = s.settings.Scale(imagePath)
	s.restorePending = true

	s.logger.Info("image opened", "path", imagePath, "calibrated", s.calibrated)
	s.notify()
}

// ImagePath returns the path of the open image
func (s *Session) ImagePath() (string, bool) {
	return s.imagePath, s.imagePath != ""
}

// View returns the zoom and scroll state
func (s *Session) View() *View {
	return s.view
}

// SetSurfaceSize records the size of the display surface at zoom 1
func (s *Session) SetSurfaceSize(width, height float64) {
	s.surface = Extent{W: width, H: height}
}

// surfaceReady reports whether the display surface has a positive size
func (s *Session) surfaceReady() bool {
	return s.surface.W > 0 && s.surface.H > 0
}

// TryRestore loads the stored measurements of the open image. It returns
// false while the display surface has no size yet, in which case the caller
// should retry later. It returns true once nothing is left to restore.
func (s *Session) TryRestore() bool {
	if !s.restorePending {
		return true
	}
	if !s.surfaceReady() {
		return false
	}
	s.restorePending = false

	segments := s.settings.Measurements(s.imagePath)
	for _, seg := range segments {
		s.appendMeasurement(seg)
	}
	s.logger.Debug("measurements restored", "path", s.imagePath, "count", len(segments))
	s.notify()
	return true
}

// Calibration returns the current inches-per-pixel ratio
func (s *Session) Calibration() (float64, bool) {
	return s.unitsPerPixel, s.calibrated
}

// ratio returns the current ratio, treating an absent calibration as zero
func (s *Session) ratio() float64 {
	if !s.calibrated {
		return 0
	}
	return s.unitsPerPixel
}

// State returns the drawing protocol state
func (s *Session) State() DrawState {
	return s.draw
}

// Measurements returns a copy of the measurement list in insertion order
func (s *Session) Measurements() []Measurement {
	out := make([]Measurement, len(s.measurements))
	copy(out, s.measurements)
	return out
}

// Preview returns the live segment following the pointer, if shown
func (s *Session) Preview() (geometry.Segment, bool) {
	if s.preview == nil {
		return geometry.Segment{}, false
	}
	return *s.preview, true
}

// CalibrationLine returns the reference line while its length is being prompted
func (s *Session) CalibrationLine() (geometry.Segment, bool) {
	if s.calibrationLine == nil {
		return geometry.Segment{}, false
	}
	return *s.calibrationLine, true
}

// Calibrating reports whether a calibration prompt is open
func (s *Session) Calibrating() bool {
	return s.calibrationLine != nil
}

// Total returns the summed length of all measurements in inches
func (s *Session) Total() float64 {
	total := 0.0
	for _, m := range s.measurements {
		total += m.LengthInches
	}
	return total
}

// TotalText returns the text of the running total label
func (s *Session) TotalText() string {
	return "Total: " + units.FormatFeetInches(s.Total())
}

// PrimaryClick advances the two-click protocol. Clicks are ignored without
// an image, while panning and while a calibration prompt is open.
func (s *Session) PrimaryClick(p geometry.Point) {
	if s.imagePath == "" || s.view.Panning() || s.Calibrating() {
		return
	}
	switch s.draw.(type) {
	case Idle:
		s.BeginLine(p)
	case AwaitingSecondPoint:
		s.CompleteLine(p)
	}
}

// SecondaryClick cancels the line in progress, or resets the calibration
// when no line is in progress.
func (s *Session) SecondaryClick() {
	if s.Calibrating() {
		return
	}
	if s.Cancel() {
		return
	}
	s.ResetCalibration()
}

// BeginLine places the first end of a line. Only valid while Idle.
func (s *Session) BeginLine(p geometry.Point) bool {
	if _, ok := s.draw.(Idle); !ok {
		return false
	}
	s.draw = AwaitingSecondPoint{First: p}
	seg := geometry.Segment{Start: p, End: p}
	s.preview = &seg
	s.notify()
	return true
}

// CompleteLine places the second end of a line. Without a calibration the
// line becomes the calibration reference and the length prompt is shown;
// otherwise it is added as a measurement. Only valid while AwaitingSecondPoint.
func (s *Session) CompleteLine(p geometry.Point) bool {
	awaiting, ok := s.draw.(AwaitingSecondPoint)
	if !ok {
		return false
	}
	seg := geometry.Segment{Start: awaiting.First, End: p}
	s.draw = Idle{}
	s.preview = nil

	if s.calibrated {
		s.appendMeasurement(seg)
		s.logger.Debug("measurement added", "length_inches", s.measurements[len(s.measurements)-1].LengthInches)
		s.persistMeasurements()
		s.notify()
		return true
	}

	s.startCalibration(seg)
	return true
}

// startCalibration shows the reference line and asks for its real length
func (s *Session) startCalibration(seg geometry.Segment) {
	if s.prompt == nil {
		s.notify()
		return
	}
	s.calibrationLine = &seg
	s.notify()

	generation := s.generation
	s.prompt.PromptLength(func(length units.FeetInches, ok bool) {
		if generation != s.generation {
			s.logger.Debug("calibration answer for a closed image ignored")
			return
		}
		s.calibrationLine = nil
		if !ok || !s.Calibrate(seg.Length(), length) {
			s.logger.Debug("calibration discarded")
			s.notify()
		}
	})
}

// Calibrate sets the ratio so a line of distance pixels measures length.
// Non-positive lengths or distances leave the session unchanged.
func (s *Session) Calibrate(distance float64, length units.FeetInches) bool {
	if !length.Valid() {
		return false
	}
	totalInches := length.TotalInches()
	if totalInches <= 0 || distance <= 0 {
		return false
	}

	s.unitsPerPixel = totalInches / distance
	s.calibrated = true
	if s.imagePath != "" {
		s.settings.SetScale(s.imagePath, s.unitsPerPixel)
	}
	s.logger.Info("calibration set", "inches_per_pixel", s.unitsPerPixel)

	s.RecalculateAll()
	return true
}

// Cancel abandons the line in progress. Returns false when Idle.
func (s *Session) Cancel() bool {
	if _, ok := s.draw.(AwaitingSecondPoint); !ok {
		return false
	}
	s.draw = Idle{}
	s.preview = nil
	s.notify()
	return true
}

// ResetCalibration clears the ratio. Measurements are kept and measure zero
// until the next calibration.
func (s *Session) ResetCalibration() {
	s.unitsPerPixel = 0
	s.calibrated = false
	if s.imagePath != "" {
		s.settings.ClearScale(s.imagePath)
	}
	s.logger.Info("calibration reset")
	s.RecalculateAll()
}

// Delete removes the measurement at index. Returns false for an invalid index.
func (s *Session) Delete(index int) bool {
	if index < 0 || index >= len(s.measurements) {
		return false
	}
	s.measurements = append(s.measurements[:index], s.measurements[index+1:]...)
	s.logger.Debug("measurement deleted", "index", index)
	s.persistMeasurements()
	s.notify()
	return true
}

// RecalculateAll recomputes every measurement length and label from the
// current ratio. Coordinates are not touched and nothing is persisted.
func (s *Session) RecalculateAll() {
	ratio := s.ratio()
	for i := range s.measurements {
		s.measurements[i].recalculate(ratio)
	}
	s.notify()
}

// PointerMoved updates the preview while a line is in progress
func (s *Session) PointerMoved(p geometry.Point) {
	if s.view.Panning() {
		return
	}
	awaiting, ok := s.draw.(AwaitingSecondPoint)
	if !ok {
		return
	}
	s.preview = &geometry.Segment{Start: awaiting.First, End: p}
	s.notify()
}

// PointerExited hides the preview and stops panning. The first point of a
// line in progress is kept, so moving back in shows the preview again.
func (s *Session) PointerExited() {
	s.preview = nil
	s.view.EndPan()
	s.notify()
}

// appendMeasurement adds a measurement sized by the current ratio
func (s *Session) appendMeasurement(seg geometry.Segment) {
	m := Measurement{Segment: seg}
	m.recalculate(s.ratio())
	s.measurements = append(s.measurements, m)
}

// persistMeasurements writes the full measurement list of the open image.
// Skipped while the display surface has no size.
func (s *Session) persistMeasurements() {
	if s.imagePath == "" || !s.surfaceReady() {
		return
	}
	segments := make([]geometry.Segment, len(s.measurements))
	for i, m := range s.measurements {
		segments[i] = m.Segment
	}
	s.settings.SetMeasurements(s.imagePath, segments)
}
