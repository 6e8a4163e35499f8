package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks unknown stations or bookings.
	ErrNotFound = errors.New("not found")
	// ErrAuthRequired marks operations attempted without a user.
	ErrAuthRequired = errors.New("authentication required")
	// ErrConflict marks requests that collide with existing state.
	ErrConflict = errors.New("conflict")

	// ErrSlotTaken is returned when the station slot already has a confirmed booking.
	ErrSlotTaken = fmt.Errorf("slot already booked: %w", ErrConflict)
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

func notFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}
