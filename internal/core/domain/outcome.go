package domain

import "errors"

type Outcome string

const (
	OutcomeSucceeded              Outcome = "SUCCEEDED"
	OutcomeRejectedInput          Outcome = "REJECTED_INPUT"
	OutcomeRejectedCapacity       Outcome = "REJECTED_CAPACITY"
	OutcomeFailed                 Outcome = "FAILED"
	OutcomeCompensatingThenFailed Outcome = "COMPENSATING_THEN_FAILED"
)

// OutcomeOf maps the error returned by a booking attempt to its terminal state.
func OutcomeOf(err error) Outcome {
	var capErr *CapacityError
	var compErr *CompensationError

	switch {
	case err == nil:
		return OutcomeSucceeded
	case errors.As(err, &compErr):
		return OutcomeCompensatingThenFailed
	case errors.As(err, &capErr):
		return OutcomeRejectedCapacity
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrTrainNotFound):
		return OutcomeRejectedInput
	default:
		return OutcomeFailed
	}
}
