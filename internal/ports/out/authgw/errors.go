package authgw

import "errors"

var (
	// ErrUnauthenticated indicates the session credential is missing, expired,
	// or rejected by the auth collaborator.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnavailable indicates the auth collaborator could not be reached.
	ErrUnavailable = errors.New("auth service unavailable")
)
