package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestSession_RoundTrip(t *testing.T) {
	token, err := SignSession("user-123", testSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "user-123", VerifySession(token, testSecret))
}

func TestVerifySession_Expired(t *testing.T) {
	token, err := SignSession("user-123", testSecret, -time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "", VerifySession(token, testSecret))
}

func TestVerifySession_WrongSecret(t *testing.T) {
	token, err := SignSession("user-123", testSecret, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, "", VerifySession(token, "other-secret"))
}

func TestVerifySession_Tampered(t *testing.T) {
	token, err := SignSession("user-123", testSecret, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + ".eyJ1c2VySWQiOiJ1c2VyLTk5OSJ9." + parts[2]

	assert.Equal(t, "", VerifySession(tampered, testSecret))
}

func TestVerifySession_Malformed(t *testing.T) {
	assert.Equal(t, "", VerifySession("not.a.jwt", testSecret))
	assert.Equal(t, "", VerifySession("", testSecret))
}
