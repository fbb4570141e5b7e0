package snackrequestrepo

import "errors"

var (
	// ErrNotFound indicates the requested snack request does not exist.
	ErrNotFound = errors.New("snack request not found")

	// ErrAlreadyExists indicates a request already exists with the provided ID.
	ErrAlreadyExists = errors.New("snack request already exists")
)
