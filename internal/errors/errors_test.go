package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.Nil(t, errors.Wrapf(nil, "context %d", 1))

	err := errors.Wrapf(errors.ErrUnauthorized, "GET %s", "/api/cart/items")
	require.EqualError(t, err, "GET /api/cart/items: unauthorized")
	require.True(t, errors.Is(err, errors.ErrUnauthorized))
}

func TestValidation(t *testing.T) {
	err := errors.Validation("Review text cannot be empty.")
	require.EqualError(t, err, "Review text cannot be empty.")
	require.True(t, errors.IsValidation(err))
	require.True(t, errors.IsValidation(errors.Wrapf(err, "submit review")))
	require.False(t, errors.IsValidation(stderrors.New("boom")))
}

func TestLoginRequired(t *testing.T) {
	err := errors.LoginRequired("Please log in before proceeding.")
	require.EqualError(t, err, "Please log in before proceeding.")
	require.True(t, errors.IsValidation(err))
	require.True(t, errors.Is(err, errors.ErrNotLoggedIn))
	require.False(t, errors.Is(errors.Validation("Review text cannot be empty."), errors.ErrNotLoggedIn))
}
