package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrPlanMissing       = errors.New("reading plan not found")
	ErrNothingToFinalize = errors.New("nothing to finalize")
	ErrMapNotEmpty       = errors.New("read map already has entries")
)
