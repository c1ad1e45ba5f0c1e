package sniffer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

type MediaType string

const (
	TypeJPEG MediaType = "jpeg"
	TypePNG  MediaType = "png"
	TypeGIF  MediaType = "gif"
)

var ErrUnknownType = errors.New("unknown media type")

type Result struct {
	Type MediaType
	MIME string
}

// DetectHead sniffs the raster format from the leading bytes of a payload.
func DetectHead(head []byte) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	if isJPEG(head) {
		return Result{Type: TypeJPEG, MIME: "image/jpeg"}, nil
	}
	if isPNG(head) {
		return Result{Type: TypePNG, MIME: "image/png"}, nil
	}
	if isGIF(head) {
		return Result{Type: TypeGIF, MIME: "image/gif"}, nil
	}

	return Result{}, ErrUnknownType
}

func isJPEG(head []byte) bool {
	return len(head) > 3 &&
		head[0] == 0xff &&
		head[1] == 0xd8 &&
		head[2] == 0xff
}

func isPNG(head []byte) bool {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

func isGIF(head []byte) bool {
	return len(head) >= 6 && (bytes.Equal(head[:6], []byte("GIF87a")) || bytes.Equal(head[:6], []byte("GIF89a")))
}

const dataURIMarker = "data:image/"

// IsImageDataURI reports whether s carries the self-describing image prefix.
// This is the only check the server applies to stored avatars.
func IsImageDataURI(s string) bool {
	return strings.HasPrefix(s, dataURIMarker)
}

// BuildDataURI encodes raw image bytes as an inline data URI.
func BuildDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits an inline image payload into its MIME type and decoded
// bytes.
func ParseDataURI(s string) (string, []byte, error) {
	if !IsImageDataURI(s) {
		return "", nil, fmt.Errorf("missing %s prefix", dataURIMarker)
	}

	rest := strings.TrimPrefix(s, "data:")
	mime, encoded, found := strings.Cut(rest, ";base64,")
	if !found {
		return "", nil, errors.New("missing base64 marker")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}
	return mime, data, nil
}
