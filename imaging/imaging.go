// Package imaging decodes source images and re-encodes them for transport.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spetersoncode/shades"
)

// DefaultJPEGQuality matches the browser canvas default for image/jpeg.
const DefaultJPEGQuality = 92

// Decode turns raw bytes with a declared MIME type into a source image.
// Non-image types fail with an unsupported media error; undecodable bytes
// fail with a decode error. There is no size limit.
func Decode(data []byte, declaredType string) (*shades.Image, error) {
	if !shades.IsImageMIME(declaredType) {
		return nil, shades.NewUnsupportedMediaError(declaredType)
	}
	pixels, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, shades.NewDecodeError(err)
	}
	b := pixels.Bounds()
	return &shades.Image{
		Data:     data,
		MIMEType: shades.MediaType(declaredType),
		Format:   format,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Pixels:   pixels,
	}, nil
}

// Decoder adapts Decode to an interface value.
type Decoder struct{}

// Decode calls the package-level Decode.
func (Decoder) Decode(data []byte, declaredType string) (*shades.Image, error) {
	return Decode(data, declaredType)
}

// JPEGEncoder re-encodes source images as JPEG for transport.
// Sources that decoded as JPEG are passed through unchanged, whatever
// their declared type.
type JPEGEncoder struct {
	// Quality ranges 1-100; zero means DefaultJPEGQuality.
	Quality int
}

// Encode returns JPEG bytes for img.
func (e JPEGEncoder) Encode(img *shades.Image) ([]byte, string, error) {
	if img.Format == "jpeg" && len(img.Data) > 0 {
		return img.Data, "image/jpeg", nil
	}
	q := e.Quality
	if q <= 0 {
		q = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img.Pixels, &jpeg.Options{Quality: q}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

var _ shades.Encoder = JPEGEncoder{}
