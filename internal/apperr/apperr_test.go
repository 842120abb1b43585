package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	kind, ok := KindOf(New(AlreadyExists, "user already exists"))
	require.True(t, ok)
	assert.Equal(t, AlreadyExists, kind)

	// Wrapped through fmt.Errorf the kind must still be recoverable.
	wrapped := fmt.Errorf("register: %w", New(Expired, "token has expired"))
	kind, ok = KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, Expired, kind)

	// Errors outside the taxonomy report PersistenceFailure.
	kind, ok = KindOf(errors.New("boom"))
	assert.False(t, ok)
	assert.Equal(t, PersistenceFailure, kind)
}

func TestIsKind(t *testing.T) {
	t.Parallel()

	err := Wrap(NotFound, "user not found", errors.New("no rows"))
	assert.True(t, IsKind(err, NotFound))
	assert.False(t, IsKind(err, Expired))
	assert.False(t, IsKind(errors.New("boom"), NotFound))
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("unique_violation")
	err := Wrap(AlreadyExists, "user already exists", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "user already exists")
	assert.Contains(t, err.Error(), "unique_violation")
}

func TestHTTPStatusMapping(t *testing.T) {
	t.Parallel()

	cases := map[Kind]int{
		ValidationFailure:  http.StatusBadRequest,
		AlreadyExists:      http.StatusConflict,
		NotFound:           http.StatusNotFound,
		Expired:            http.StatusBadRequest,
		InvalidCredentials: http.StatusUnauthorized,
		PersistenceFailure: http.StatusInternalServerError,
		DispatchFailure:    http.StatusInternalServerError,
	}

	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), "kind %s", TypeName(kind))
	}
}

func TestTypeNameNeverLeaksInternalKinds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "InternalServerError", TypeName(PersistenceFailure))
	assert.Equal(t, "AlreadyExists", TypeName(AlreadyExists))
	assert.Equal(t, "InvalidCredentials", TypeName(InvalidCredentials))
}
