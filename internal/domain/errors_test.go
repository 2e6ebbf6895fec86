package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassifiers(t *testing.T) {
	wrapped := func(err error) error { return fmt.Errorf("outer: %w", err) }

	assert.True(t, IsValidationError(wrapped(ErrInvalidCVV)))
	assert.True(t, IsValidationError(wrapped(ErrInvalidFlight)))
	assert.False(t, IsValidationError(ErrBookingNotFound))

	assert.True(t, IsNotFoundError(wrapped(ErrBookingNotFound)))
	assert.True(t, IsNotFoundError(ErrSeatNotFound))
	assert.False(t, IsNotFoundError(ErrInsufficientSeats))

	assert.True(t, IsConflictError(wrapped(ErrInsufficientSeats)))
	assert.True(t, IsConflictError(ErrAlreadyPaid))
	assert.True(t, IsConflictError(ErrFlightExists))
	assert.False(t, IsConflictError(ErrChangeNotAllowed))

	assert.True(t, IsWindowError(wrapped(ErrCancellationNotAllowed)))
	assert.False(t, IsWindowError(ErrNotRefundable))
}
