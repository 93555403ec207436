package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotFound_Is(t *testing.T) {
	err := fmt.Errorf("service: %w", NotFound("article", 7))
	require.ErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), "article 7")
}

func TestValidationError(t *testing.T) {
	err := Invalid("per_page", "must be positive")
	require.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "per_page", ve.Field)
	require.Equal(t, "per_page: must be positive", err.Error())
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := &UpstreamError{Endpoint: "search", Err: cause}

	require.ErrorIs(t, err, ErrUpstream)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "upstream search failed: dial tcp: timeout", err.Error())

	err = &UpstreamError{Endpoint: "headlines", StatusCode: 429, Message: "rate limited"}
	require.Equal(t, "upstream headlines failed (status 429): rate limited", err.Error())
}

func TestStorage_WrapsOnce(t *testing.T) {
	require.NoError(t, Storage("op", nil))

	cause := errors.New("disk full")
	err := Storage("article.create", cause)
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, cause)

	again := Storage("outer", err)
	require.Same(t, err, again)
	require.False(t, errors.Is(err, ErrNotFound))
}
