package imagex

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidate(t *testing.T) {
	valid := makeJPEG(t, 50, 50)

	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"empty buffer", nil, false},
		{"non-image bytes", []byte("definitely not an image"), false},
		{"truncated jpeg", valid[:20], false},
		{"valid jpeg", valid, true},
		{"valid png", makePNG(t, 50, 50), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.data))
		})
	}
}

func TestNormalize_DownscalesOversized(t *testing.T) {
	out, err := Normalize(makeJPEG(t, 2000, 1000), 1024)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1024, cfg.Width)
	assert.LessOrEqual(t, cfg.Height, 1024)
	// 2000x1000 keeps its 2:1 aspect ratio within rounding
	assert.InDelta(t, 2.0, float64(cfg.Width)/float64(cfg.Height), 0.01)
}

func TestNormalize_TallImage(t *testing.T) {
	out, err := Normalize(makeJPEG(t, 500, 2048), 1024)
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Height)
	assert.InDelta(t, 500.0/2048.0, float64(cfg.Width)/float64(cfg.Height), 0.01)
}

func TestNormalize_SmallImagePassesThroughReencoded(t *testing.T) {
	out, err := Normalize(makePNG(t, 500, 500), 1024)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format, "normalization re-encodes PNG input as JPEG")
	assert.Equal(t, 500, cfg.Width)
	assert.Equal(t, 500, cfg.Height)
}

func TestNormalize_UndecodableInput(t *testing.T) {
	_, err := Normalize([]byte("garbage"), 1024)
	assert.Error(t, err)
}
