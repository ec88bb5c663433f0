package services

import (
	"errors"
	"fmt"
)

// Validation failures are recoverable by the caller and map to 4xx responses.
var (
	ErrInvalidDateRange         = errors.New("invalid date range")
	ErrCapacityExceeded         = errors.New("capacity exceeded")
	ErrInsufficientAvailability = errors.New("insufficient availability")
	ErrRoomTypeNotFound         = errors.New("room type not found")
	ErrBusinessRuleViolation    = errors.New("business rule violation")
	ErrMissingBaseRate          = errors.New("missing base rate")

	ErrNotFound         = errors.New("not found")
	ErrBookingNotFound  = fmt.Errorf("booking %w", ErrNotFound)
	ErrInvoiceNotFound  = fmt.Errorf("invoice %w", ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	ErrServiceNotFound  = fmt.Errorf("hotel service %w", ErrNotFound)
	ErrRoomNotFound     = fmt.Errorf("room %w", ErrNotFound)
	ErrLockTimeout      = errors.New("lock acquisition timed out")
)

// AvailabilityError carries the quantities shown to the user when a room type is full.
type AvailabilityError struct {
	RoomTypeName string
	Requested    int64
	Available    int64
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("not enough %q rooms: requested %d, available %d", e.RoomTypeName, e.Requested, e.Available)
}

func (e *AvailabilityError) Unwrap() error { return ErrInsufficientAvailability }

type CapacityError struct {
	GuestCount  int
	MaxCapacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("guest count %d exceeds room capacity %d", e.GuestCount, e.MaxCapacity)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// RuleViolation names the business rule a request broke.
type RuleViolation struct {
	Reason string
}

func (e *RuleViolation) Error() string { return e.Reason }

func (e *RuleViolation) Unwrap() error { return ErrBusinessRuleViolation }

func violation(format string, args ...any) error {
	return &RuleViolation{Reason: fmt.Sprintf(format, args...)}
}

func invalidRange(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDateRange, fmt.Sprintf(format, args...))
}
