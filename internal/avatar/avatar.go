// Package avatar is the client-side admission gate for profile images.
// The server only re-checks the data-URI prefix of what this gate produces;
// pixel dimensions are enforced here and nowhere else.
package avatar

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	_ "image/gif"
	_ "image/jpeg"

	"playlister/api/internal/media/sniffer"
)

// Avatars must be exactly this size.
const (
	Width  = 200
	Height = 200
)

// Validate reads the selected image fully, decodes it, and accepts it only
// when it is exactly Width x Height pixels. Accepted images are re-encoded
// into a single embeddable png data URI. Rejections name the offending actual
// dimensions.
func Validate(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	if _, err := sniffer.DetectHead(data); err != nil {
		return "", fmt.Errorf("please select a PNG, JPG or GIF image")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w != Width || h != Height {
		return "", fmt.Errorf("image must be exactly %dx%d pixels (yours is %dx%d)", Width, Height, w, h)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}

	return sniffer.BuildDataURI("image/png", buf.Bytes()), nil
}
