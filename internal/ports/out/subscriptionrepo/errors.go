package subscriptionrepo

import "errors"

var (
	// ErrNotFound indicates no record exists for the (member, period) key.
	ErrNotFound = errors.New("subscription record not found")
)
