package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeInvalidInput, "outfits must not be empty", cause)

	require.True(t, IsCode(err, CodeInvalidInput))
	require.False(t, IsCode(err, CodeInternal))
	require.ErrorIs(t, err, cause)
	require.Equal(t, "outfits must not be empty: boom", err.Error())

	wrapped := fmt.Errorf("handler: %w", err)
	require.True(t, IsCode(wrapped, CodeInvalidInput))
	require.Equal(t, "outfits must not be empty", MessageOf(wrapped))
}

func TestMessageOfPlainError(t *testing.T) {
	require.Empty(t, MessageOf(errors.New("plain")))
}

func TestInvalidCarriesDetails(t *testing.T) {
	err := Invalid("request validation failed", FieldError{Field: "outfits[0].score", Reason: "must be between 0 and 1"})

	require.True(t, IsCode(err, CodeInvalidInput))
	require.Equal(t, []FieldError{{Field: "outfits[0].score", Reason: "must be between 0 and 1"}}, DetailsOf(err))
	require.Nil(t, DetailsOf(errors.New("plain")))
}
