package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	"github.com/nfnt/resize"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResizeImage decodes data and scales it so neither side exceeds maxSide,
// keeping the aspect ratio. Smaller images are re-encoded unchanged. PNG stays
// PNG; everything else is written as JPEG. It returns the encoded bytes and
// their content type.
func ResizeImage(data []byte, maxSide uint) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedImage
	}

	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if maxSide > 0 && (width > maxSide || height > maxSide) {
		// a zero dimension keeps the aspect ratio
		if width >= height {
			img = resize.Resize(maxSide, 0, img, resize.Lanczos3)
		} else {
			img = resize.Resize(0, maxSide, img, resize.Lanczos3)
		}
	}

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	}

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/jpeg", nil
}

func GetImageDimensions(data []byte) (*ImageDimensions, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	return &ImageDimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
