// Package imaging normalizes uploaded product photos.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"golang.org/x/image/draw"
)

// Photo limits.
const (
	MaxDimension = 1024
	MaxUpload    = 10 << 20
	JPEGQuality  = 85
)

// ErrUnsupportedFormat is returned for anything that is not a JPEG or PNG.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrTooLarge is returned when the upload exceeds MaxUpload bytes.
var ErrTooLarge = errors.New("image too large")

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is a processed product photo.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// ProcessPhoto reads an uploaded photo, checks its format by content,
// shrinks it to fit MaxDimension and re-encodes it as JPEG.
func ProcessPhoto(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUpload {
		return nil, ErrTooLarge
	}

	if detected := http.DetectContentType(data); !allowedMIME[detected] {
		return nil, errors.Wrap(ErrUnsupportedFormat, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Photo{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// fit scales img down, keeping its aspect ratio, so that neither side
// exceeds maxDim. Smaller images are returned unchanged.
func fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(max(w, h))
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
