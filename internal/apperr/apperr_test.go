package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindAuth, KindOf(Auth("no")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("gone")))
	assert.Equal(t, KindInternal, KindOf(Internal("query", errors.New("pq: down"))))

	// Unclassified errors default to internal.
	assert.Equal(t, KindInternal, KindOf(errors.New("raw")))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NotFound("gone"))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestPublicMessage_HidesInternalDetail(t *testing.T) {
	assert.Equal(t, "taken", PublicMessage(Conflict("taken")))

	internal := Internal("query users", errors.New("pq: connection refused"))
	msg := PublicMessage(internal)
	assert.Equal(t, "An error occurred. Please try again.", msg)
	assert.NotContains(t, msg, "connection refused")
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("bad")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Conflict("taken")), "conflicts surface as 400")
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Auth("no")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("gone")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("raw")))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Internal("doing thing", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "doing thing")
}
