package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResizeImageScalesLongSide(t *testing.T) {
	out, ct, err := ResizeImage(pngBytes(t, 2000, 1000), 1280)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	dims, err := GetImageDimensions(out)
	require.NoError(t, err)
	assert.Equal(t, 1280, dims.Width)
	assert.Equal(t, 640, dims.Height)
}

func TestResizeImageKeepsSmallImages(t *testing.T) {
	out, _, err := ResizeImage(pngBytes(t, 300, 400), 1280)
	require.NoError(t, err)

	dims, err := GetImageDimensions(out)
	require.NoError(t, err)
	assert.Equal(t, 300, dims.Width)
	assert.Equal(t, 400, dims.Height)
}

func TestResizeImageRejectsGarbage(t *testing.T) {
	_, _, err := ResizeImage([]byte("not an image"), 1280)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.False(t, IsImageContent([]byte("%PDF-1.4")))
	assert.True(t, IsImageContent(pngBytes(t, 2, 2)))
}
