package ledger

import "errors"

var (
	// ErrValidation marks bad user-supplied input (amount, category).
	// Callers recover by re-prompting; it is never fatal.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence marks a failed store write. The operation is
	// considered not applied.
	ErrPersistence = errors.New("persistence failed")
)
