package authgw

import "context"

// Identity is the authenticated principal as asserted by the external auth
// collaborator. It is read-only to this service.
type Identity struct {
	ID    string
	Email string

	// PendingDisplayName and PendingDietaryNote carry registration-time values
	// captured before the first sign-in (the pending-registration side
	// channel). They are best-effort: losing them after a partial bootstrap is
	// acceptable and not retried.
	PendingDisplayName *string
	PendingDietaryNote *string
}

// Verifier validates an opaque session credential with the external auth
// collaborator and returns the identity it belongs to.
type Verifier interface {
	// Verify returns ErrUnauthenticated when the session is absent, expired,
	// or otherwise rejected by the collaborator.
	Verify(ctx context.Context, sessionToken string) (Identity, error)
}
