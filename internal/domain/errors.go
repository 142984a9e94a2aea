package domain

import "errors"

// Sentinel error kinds. Use cases wrap these with fmt.Errorf("...: %w", ...)
// so the delivery layer can map them to HTTP statuses with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("not authorized")
	ErrDuplicate         = errors.New("already exists")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUpstream          = errors.New("payment gateway unavailable")
)
