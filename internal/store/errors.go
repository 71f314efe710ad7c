package store

import "errors"

// Typed store failures. Callers branch on these with errors.Is; anything else
// coming out of a store is a wrapped ErrPersistence.
var (
	ErrNotFound        = errors.New("service not found")
	ErrAlreadyExists   = errors.New("service already exists")
	ErrOutOfStock      = errors.New("out of stock")
	ErrNoBalance       = errors.New("no vouches to remove")
	ErrDeliveryBlocked = errors.New("direct message delivery blocked")
	ErrPersistence     = errors.New("persistence failure")
)
