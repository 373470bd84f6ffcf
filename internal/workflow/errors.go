package workflow

import "errors"

// Error taxonomy surfaced by every engine operation. Callers match with
// errors.Is; the HTTP layer maps each sentinel to a status code.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state")
)
