package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/scaleruler/pkg/geometry"
	"github.com/philipparndt/scaleruler/pkg/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.png")
	require.NoError(t, os.WriteFile(path, make([]byte, 2000), 0o644))

	st := settings.New(settings.NewMemoryStore(), nil)
	st.SetScale(path, 1.2)
	st.SetMeasurements(path, []geometry.Segment{
		geometry.NewSegment(0, 0, 50, 0),
		geometry.NewSegment(0, 0, 0, 100),
	})

	var out bytes.Buffer
	printInfo(&out, st, "/home/me/.scaleruler.properties", path)

	text := out.String()
	assert.Contains(t, text, "Settings: /home/me/.scaleruler.properties")
	assert.Contains(t, text, "Size: 2.0 kB")
	assert.Contains(t, text, "Calibration: 1.2 inches per pixel")
	assert.Contains(t, text, "Measurements: 2")
	assert.Contains(t, text, "1. 50.0 px  5′ 0″")
	assert.Contains(t, text, "2. 100.0 px  10′ 0″")
	assert.Contains(t, text, "Total: 15′ 0″")
}

func TestPrintInfoUncalibrated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.png")
	st := settings.New(settings.NewMemoryStore(), nil)

	var out bytes.Buffer
	printInfo(&out, st, "settings.properties", path)

	text := out.String()
	assert.Contains(t, text, "Size: file not found")
	assert.Contains(t, text, "Calibration: none")
	assert.Contains(t, text, "Measurements: 0")
	assert.Contains(t, text, "Total: 0′ 0″")
}
