package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	apperrors "prodash/internal/errors"
)

// AssertAppError fails unless err carries the given application error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	require.Error(t, err, "expected AppError with code %q", expectedCode)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, expectedCode, appErr.Code, "message: %s", appErr.Message)
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	require.NoError(t, err)
}

// AssertAmount compares money by value, so "20.5" matches "20.50".
func AssertAmount(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	expected := decimal.RequireFromString(want)
	require.True(t, got.Equal(expected), "amount = %s, want %s", got, expected)
}

// AssertSameInstant compares times ignoring location and monotonic reading.
// SQLite hands timestamps back in UTC regardless of how they were written.
func AssertSameInstant(t *testing.T, got, want time.Time) {
	t.Helper()
	require.True(t, got.Equal(want), "time = %s, want %s", got.UTC(), want.UTC())
}
