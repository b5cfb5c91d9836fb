// Package imagex validates uploaded image bytes and normalizes them to a
// canonical JPEG bounded by a maximum dimension.
package imagex

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// DefaultMaxDimension bounds the longer side of a normalized image.
const DefaultMaxDimension = 1024

// Validate reports whether data decodes as a raster image. Empty buffers,
// truncated files and non-image bytes all return false, never an error.
func Validate(data []byte) bool {
	_, err := imaging.Decode(bytes.NewReader(data))
	return err == nil
}

// Normalize decodes data, downscales it if the longer side exceeds
// maxDimension (preserving aspect ratio, box filter — area averaging gives
// the best quality for downscale) and re-encodes as JPEG regardless of the
// input format. Images already within bounds keep their size but are still
// re-encoded.
//
// Callers are expected to Validate first; undecodable input still returns
// an error here rather than panicking.
func Normalize(data []byte, maxDimension int) ([]byte, error) {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxDimension || height > maxDimension {
		if width >= height {
			img = imaging.Resize(img, maxDimension, 0, imaging.Box)
		} else {
			img = imaging.Resize(img, 0, maxDimension, imaging.Box)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
