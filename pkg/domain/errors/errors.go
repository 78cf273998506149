package errors

import "errors"

var (
	// requested record is not found.
	ErrMissing = errors.New("missing")

	// the record is owned by someone else.
	ErrForbidden = errors.New("forbidden")

	// the change conflicts with the current state.
	ErrConflict = errors.New("conflict")

	// the caller reached the usage limit of its plan.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// a budget or its items break a rule.
	ErrInvalidBudget = errors.New("invalid budget")

	// a photo report or its photos break a rule.
	ErrInvalidReport = errors.New("invalid photo report")
)
