package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrTrainNotFound    = errors.New("train not found")
	ErrStoreUnavailable = errors.New("store unavailable, please retry")
	ErrDuplicateTrain   = errors.New("train number already exists")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrTrainHasBookings = errors.New("train has bookings and cannot be deleted")
)

func InvalidInput(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// CapacityError is a business rejection, not a system fault. Available is
// re-read after the failed reservation and is informational only.
type CapacityError struct {
	TrainNumber string
	Requested   int
	Available   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("only %d seats available", e.Available)
}

// CompensationError means seats were reserved, the booking was not recorded
// and giving the seats back failed too. The inventory has drifted and needs
// manual reconciliation.
type CompensationError struct {
	TrainNumber   string
	Seats         int
	CommitErr     error
	CompensateErr error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("booking failed and %d seats on train %s could not be restored: commit: %v; restore: %v",
		e.Seats, e.TrainNumber, e.CommitErr, e.CompensateErr)
}

func (e *CompensationError) Unwrap() []error {
	return []error{e.CommitErr, e.CompensateErr}
}
