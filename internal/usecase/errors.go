package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrAdvanceFailed         = errors.New("could not advance")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
