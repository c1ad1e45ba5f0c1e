package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name     string
		head     []byte
		wantType MediaType
		wantMIME string
		wantErr  bool
	}{
		{
			name:     "png",
			head:     []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0},
			wantType: TypePNG,
			wantMIME: "image/png",
		},
		{
			name:     "jpeg",
			head:     []byte{0xff, 0xd8, 0xff, 0xe0},
			wantType: TypeJPEG,
			wantMIME: "image/jpeg",
		},
		{
			name:     "gif89a",
			head:     []byte("GIF89a......"),
			wantType: TypeGIF,
			wantMIME: "image/gif",
		},
		{
			name:    "unknown",
			head:    []byte("<svg xmlns="),
			wantErr: true,
		},
		{
			name:    "empty",
			head:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DetectHead(tt.head)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, result.Type)
			assert.Equal(t, tt.wantMIME, result.MIME)
		})
	}
}

func TestIsImageDataURI(t *testing.T) {
	assert.True(t, IsImageDataURI("data:image/png;base64,AAAA"))
	assert.True(t, IsImageDataURI("data:image/jpeg;base64,AAAA"))
	assert.False(t, IsImageDataURI("data:text/plain;base64,AAAA"))
	assert.False(t, IsImageDataURI("image/png;base64,AAAA"))
	assert.False(t, IsImageDataURI(""))
}

func TestDataURI_RoundTrip(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x01, 0x02}

	uri := BuildDataURI("image/png", payload)
	assert.True(t, IsImageDataURI(uri))

	mime, data, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, payload, data)
}

func TestParseDataURI_Errors(t *testing.T) {
	_, _, err := ParseDataURI("data:image/png;base64,!!!not-base64!!!")
	assert.Error(t, err)

	_, _, err = ParseDataURI("data:image/png,raw-not-base64")
	assert.Error(t, err)

	_, _, err = ParseDataURI("plain text")
	assert.Error(t, err)
}
