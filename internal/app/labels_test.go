package app

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/philipparndt/scaleruler/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

func TestLayoutLabel(t *testing.T) {
	seg := geometry.NewSegment(0, 0, 100, 0)
	label := layoutLabel(seg, "8′ 4″", fyne.NewSize(40, 20))

	assert.Equal(t, "8′ 4″", label.Text)
	assert.Equal(t, geometry.NewPoint(56, -26), label.TextPos)
	assert.Equal(t, rect{X: 52, Y: -30, W: 48, H: 28}, label.Box)
}

func TestRectContains(t *testing.T) {
	r := rect{X: 10, Y: 10, W: 20, H: 10}

	assert.True(t, r.contains(geometry.NewPoint(10, 10)))
	assert.True(t, r.contains(geometry.NewPoint(30, 20)))
	assert.True(t, r.contains(geometry.NewPoint(15, 15)))
	assert.False(t, r.contains(geometry.NewPoint(9.9, 15)))
	assert.False(t, r.contains(geometry.NewPoint(15, 20.1)))
}
