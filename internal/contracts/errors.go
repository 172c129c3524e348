package contracts

import "errors"

var (
	ErrNotFound          = errors.New("contract not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
)
