package dto

import "errors"

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	// ErrNotFound is returned when a stock does not exist or has been soft-deleted.
	ErrNotFound = errors.New("stock not found")

	// ErrMissingKey is returned when a submission carries neither a code nor a symbol.
	ErrMissingKey = errors.New("submission requires a code or symbol")

	// ErrInvalidStrategy is returned when a request carries an unknown strategy value.
	ErrInvalidStrategy = errors.New("invalid strategy")
)
