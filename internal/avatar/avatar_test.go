package avatar

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlister/api/internal/media/sniffer"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestValidate_AcceptsExactSize(t *testing.T) {
	uri, err := Validate(bytes.NewReader(encodePNG(t, Width, Height)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	// The accepted payload decodes back to a 200x200 png.
	mime, data, err := sniffer.ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width, decoded.Bounds().Dx())
	assert.Equal(t, Height, decoded.Bounds().Dy())
}

func TestValidate_ReencodesJPEGAsPNG(t *testing.T) {
	uri, err := Validate(bytes.NewReader(encodeJPEG(t, Width, Height)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}

func TestValidate_RejectsWrongDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"too small", 100, 100},
		{"too wide", 201, 200},
		{"too tall", 200, 201},
		{"tiny", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(bytes.NewReader(encodePNG(t, tt.w, tt.h)))
			require.Error(t, err)
			// The rejection names the offending actual dimensions.
			assert.Contains(t, err.Error(), "200x200")
			assert.Contains(t, err.Error(), fmt.Sprintf("yours is %dx%d", tt.w, tt.h))
		})
	}
}

func TestValidate_RejectsNonImage(t *testing.T) {
	_, err := Validate(strings.NewReader("definitely not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PNG, JPG or GIF")
}

func TestValidate_RejectsTruncatedImage(t *testing.T) {
	data := encodePNG(t, Width, Height)
	_, err := Validate(bytes.NewReader(data[:40]))
	assert.Error(t, err)
}
