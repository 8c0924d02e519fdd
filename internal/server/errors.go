package server

import "errors"

var (
	// ErrInvalidBody is returned when the request body is not a JSON object.
	ErrInvalidBody = errors.New("invalid request body")

	// ErrEmptyInput is returned when inputText is missing, not a string or
	// empty after trimming.
	ErrEmptyInput = errors.New("inputText is required")

	// ErrBodyTooLarge is returned when the request body exceeds the limit.
	ErrBodyTooLarge = errors.New("request body too large")
)

// Client-visible error messages.
const (
	msgInvalidBody   = "Invalid request body."
	msgEmptyInput    = "inputText is required."
	msgBodyTooLarge  = "Request body too large."
	msgInternalError = "Internal server error."
)
