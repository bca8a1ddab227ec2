package settings

import (
	"errors"
	"testing"

	"github.com/philipparndt/scaleruler/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurementsRoundTrip(t *testing.T) {
	segments := []geometry.Segment{
		geometry.NewSegment(10, 20, 110, 20),
		geometry.NewSegment(0.5, 1.25, 3.125, 400.75),
		geometry.NewSegment(-3, 4, 5, -6),
	}

	decoded := DecodeMeasurements(EncodeMeasurements(segments))

	require.Len(t, decoded, len(segments))
	for i := range segments {
		assert.InDelta(t, segments[i].Start.X, decoded[i].Start.X, 1e-6)
		assert.InDelta(t, segments[i].Start.Y, decoded[i].Start.Y, 1e-6)
		assert.InDelta(t, segments[i].End.X, decoded[i].End.X, 1e-6)
		assert.InDelta(t, segments[i].End.Y, decoded[i].End.Y, 1e-6)
	}
}

func TestEncodeMeasurementsFormat(t *testing.T) {
	encoded := EncodeMeasurements([]geometry.Segment{
		geometry.NewSegment(1, 2, 3, 4),
		geometry.NewSegment(0.5, 0, 0, 0),
	})

	assert.Equal(t, "1.000000,2.000000,3.000000,4.000000|0.500000,0.000000,0.000000,0.000000", encoded)
	assert.Equal(t, "", EncodeMeasurements(nil))
}

func TestDecodeMeasurementsSkipsMalformedEntries(t *testing.T) {
	raw := "1,2,3,4||1,2,3|a,b,c,d|5,6,7,8,9| 9 , 10 , 11 , 12 |NaN,1,2,3|1,2,-Inf,3|13,14,15,16"

	decoded := DecodeMeasurements(raw)

	assert.Equal(t, []geometry.Segment{
		geometry.NewSegment(1, 2, 3, 4),
		geometry.NewSegment(9, 10, 11, 12),
		geometry.NewSegment(13, 14, 15, 16),
	}, decoded)
	assert.Empty(t, DecodeMeasurements(""))
}

func TestDecodeScale(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1.2", 1.2, true},
		{"1.0E-4", 0.0001, true},
		{" 3 ", 3, true},
		{"0", 0, false},
		{"-1.5", 0, false},
		{"NaN", 0, false},
		{"Infinity", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := DecodeScale(tt.raw)
		assert.Equal(t, tt.ok, ok, "DecodeScale(%q)", tt.raw)
		assert.InDelta(t, tt.want, got, 1e-12, "DecodeScale(%q)", tt.raw)
	}
}

func TestEncodeScaleRoundTrip(t *testing.T) {
	for _, v := range []float64{1.2, 0.000123, 42, 1.0 / 3.0} {
		got, ok := DecodeScale(EncodeScale(v))
		require.True(t, ok)
		assert.Equal(t, v, got)
	}
}

func TestSettingsKeys(t *testing.T) {
	store := NewMemoryStore()
	s := New(store, nil)

	s.SetLastPath("/images/plan.png")
	s.SetScale("/images/plan.png", 1.2)
	s.SetMeasurements("/images/plan.png", []geometry.Segment{geometry.NewSegment(1, 2, 3, 4)})

	v, ok := store.Get("lastPath")
	require.True(t, ok)
	assert.Equal(t, "/images/plan.png", v)

	v, ok = store.Get("scale./images/plan.png")
	require.True(t, ok)
	assert.Equal(t, "1.2", v)

	v, ok = store.Get("meas./images/plan.png")
	require.True(t, ok)
	assert.Equal(t, "1.000000,2.000000,3.000000,4.000000", v)
}

func TestSettingsScaleLifecycle(t *testing.T) {
	s := New(NewMemoryStore(), nil)

	_, ok := s.Scale("/a.png")
	assert.False(t, ok)

	s.SetScale("/a.png", 0.75)
	scale, ok := s.Scale("/a.png")
	require.True(t, ok)
	assert.Equal(t, 0.75, scale)

	s.ClearScale("/a.png")
	_, ok = s.Scale("/a.png")
	assert.False(t, ok)
}

func TestSettingsForget(t *testing.T) {
	store := NewMemoryStore()
	s := New(store, nil)
	s.SetLastPath("/a.png")
	s.SetScale("/a.png", 2)
	s.SetMeasurements("/a.png", []geometry.Segment{geometry.NewSegment(0, 0, 1, 1)})

	s.Forget("/a.png")

	assert.Equal(t, 1, store.Len())
	assert.Empty(t, s.Measurements("/a.png"))
}

// failingStore counts round trips and fails every load and persist
type failingStore struct {
	*MemoryStore
	loads    int
	persists int
}

func (f *failingStore) Load() error {
	f.loads++
	return errors.New("disk unavailable")
}

func (f *failingStore) Persist() error {
	f.persists++
	return errors.New("disk full")
}

func TestSettingsSwallowStoreErrors(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore()}
	s := New(store, nil)

	s.SetScale("/a.png", 1.5)
	scale, ok := s.Scale("/a.png")

	require.True(t, ok)
	assert.Equal(t, 1.5, scale)
	assert.Equal(t, 2, store.loads)
	assert.Equal(t, 1, store.persists)
}

func TestClearScaleWithoutKeyDoesNotPersist(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore()}
	s := New(store, nil)

	s.ClearScale("/never-calibrated.png")

	assert.Equal(t, 0, store.persists)
}
