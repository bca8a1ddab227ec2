package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeTestImage(t *testing.T, path string, encode func(*os.File, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f, img))
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.png")
	writeTestImage(t, path, func(f *os.File, img image.Image) error { return png.Encode(f, img) })

	img, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}

func TestLoadBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.bmp")
	writeTestImage(t, path, func(f *os.File, img image.Image) error { return bmp.Encode(f, img) })

	img, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("/a/b/PLAN.PNG"))
	assert.True(t, IsSupported("scan.tiff"))
	assert.True(t, IsSupported("photo.webp"))
	assert.False(t, IsSupported("notes.txt"))
	assert.False(t, IsSupported("noext"))
}
