package catalogrepo

import "errors"

var (
	// ErrAlreadyExists indicates a catalog item already exists with the provided ID.
	ErrAlreadyExists = errors.New("catalog item already exists")
)
