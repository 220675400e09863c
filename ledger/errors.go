package ledger

import "errors"

var (
	// ErrNotFound covers an unknown account, an unknown transaction, and a
	// transaction that exists but belongs to a different account. Callers must
	// not be able to tell those cases apart.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned before any mutation when the input is
	// structurally invalid. Wrap it with detail: fmt.Errorf("%w: ...", ErrValidation).
	ErrValidation = errors.New("validation failed")
)
