package services

import "errors"

// Business-rule failures surfaced to handlers. Handlers map these onto HTTP
// status codes; anything else is a 500.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("illegal status transition")
	ErrForbidden     = errors.New("forbidden")
	ErrNoItems       = errors.New("order must contain at least one item")
	ErrInvalidQty    = errors.New("quantity must be greater than zero")
	ErrInvalidStatus = errors.New("unknown order status")
	ErrBadSignature  = errors.New("invalid webhook signature")
)
