package settings

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/philipparndt/scaleruler/pkg/geometry"
)

// Keys and separators of the persisted format
const (
	LastPathKey      = "lastPath"
	scalePrefix      = "scale."
	measPrefix       = "meas."
	entrySeparator   = "|"
	numberSeparator  = ","
	coordinateDigits = 6
)

// ScaleKey returns the key holding the calibration of an image
func ScaleKey(imagePath string) string {
	return scalePrefix + imagePath
}

// MeasurementsKey returns the key holding the measurement list of an image
func MeasurementsKey(imagePath string) string {
	return measPrefix + imagePath
}

// Settings reads and writes application state through a Store.
//
// Every operation is a full load-modify-persist round trip. Store errors are
// logged and swallowed: callers always proceed as if the operation succeeded.
type Settings struct {
	store  Store
	logger *slog.Logger
}

// New creates a Settings accessor. A nil logger discards log output.
func New(store Store, logger *slog.Logger) *Settings {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Settings{store: store, logger: logger}
}

// load refreshes the store from its backing location
func (s *Settings) load() {
	if err := s.store.Load(); err != nil {
		s.logger.Warn("failed to load settings", "error", err)
	}
}

// persist writes the store to its backing location
func (s *Settings) persist() {
	if err := s.store.Persist(); err != nil {
		s.logger.Warn("failed to save settings", "error", err)
	}
}

// LastPath returns the most recently opened image path
func (s *Settings) LastPath() (string, bool) {
	s.load()
	return s.store.Get(LastPathKey)
}

// SetLastPath records the most recently opened image path
func (s *Settings) SetLastPath(path string) {
	s.load()
	s.store.Set(LastPathKey, path)
	s.persist()
}

// Scale returns the stored inches-per-pixel ratio of an image.
// Values that are not positive finite numbers are reported as absent.
func (s *Settings) Scale(imagePath string) (float64, bool) {
	s.load()
	raw, ok := s.store.Get(ScaleKey(imagePath))
	if !ok {
		return 0, false
	}
	return DecodeScale(raw)
}

// SetScale stores the inches-per-pixel ratio of an image
func (s *Settings) SetScale(imagePath string, inchesPerPixel float64) {
	s.load()
	s.store.Set(ScaleKey(imagePath), EncodeScale(inchesPerPixel))
	s.persist()
}

// ClearScale removes the stored ratio of an image. The file is only
// rewritten when the key existed.
func (s *Settings) ClearScale(imagePath string) {
	s.load()
	key := ScaleKey(imagePath)
	if _, ok := s.store.Get(key); !ok {
		return
	}
	s.store.Delete(key)
	s.persist()
}

// Measurements returns the stored measurement segments of an image.
// Malformed entries are skipped.
func (s *Settings) Measurements(imagePath string) []geometry.Segment {
	s.load()
	raw, ok := s.store.Get(MeasurementsKey(imagePath))
	if !ok {
		return nil
	}
	return DecodeMeasurements(raw)
}

// SetMeasurements replaces the stored measurement segments of an image
func (s *Settings) SetMeasurements(imagePath string, segments []geometry.Segment) {
	s.load()
	s.store.Set(MeasurementsKey(imagePath), EncodeMeasurements(segments))
	s.persist()
}

// Forget removes calibration and measurements of an image
func (s *Settings) Forget(imagePath string) {
	s.load()
	s.store.Delete(ScaleKey(imagePath))
	s.store.Delete(MeasurementsKey(imagePath))
	s.persist()
}

// EncodeScale formats a ratio as a plain decimal string
func EncodeScale(inchesPerPixel float64) string {
	return strconv.FormatFloat(inchesPerPixel, 'f', -1, 64)
}

// DecodeScale parses a stored ratio, rejecting non-positive and non-finite values
func DecodeScale(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// EncodeMeasurements joins segments as `x1,y1,x2,y2` entries separated by `|`
func EncodeMeasurements(segments []geometry.Segment) string {
	entries := make([]string, 0, len(segments))
	for _, seg := range segments {
		nums := []float64{seg.Start.X, seg.Start.Y, seg.End.X, seg.End.Y}
		parts := make([]string, len(nums))
		for i, n := range nums {
			parts[i] = strconv.FormatFloat(n, 'f', coordinateDigits, 64)
		}
		entries = append(entries, strings.Join(parts, numberSeparator))
	}
	return strings.Join(entries, entrySeparator)
}

// DecodeMeasurements parses the `|`-separated entry list. Entries that do not
// hold exactly four finite numbers are skipped.
func DecodeMeasurements(raw string) []geometry.Segment {
	var segments []geometry.Segment
	for _, entry := range strings.Split(raw, entrySeparator) {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		parts := strings.Split(entry, numberSeparator)
		if len(parts) != 4 {
			continue
		}

		var nums [4]float64
		valid := true
		for i, part := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				valid = false
				break
			}
			nums[i] = v
		}
		seg := geometry.NewSegment(nums[0], nums[1], nums[2], nums[3])
		if !valid || !seg.Start.IsFinite() || !seg.End.IsFinite() {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}
