package intake

import "errors"

var (
	ErrUnknownSource     = errors.New("unknown source system")
	ErrUnknownReason     = errors.New("unknown qualification reason")
	ErrInvalidTransition = errors.New("invalid document status transition")
	ErrRetryNotAllowed   = errors.New("rejection is not retryable")
)
