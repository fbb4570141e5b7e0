// Package devauth is a local/dev-only stand-in for the auth service.
//
// It trusts the presented credential outright: the token is the subject id,
// optionally followed by "|<email>". Do NOT use this in production
// deployments.
package devauth

import (
	"context"
	"strings"

	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/authgw"
)

type Verifier struct{}

func New() Verifier { return Verifier{} }

func (Verifier) Verify(_ context.Context, sessionToken string) (authgw.Identity, error) {
	subject, email, _ := strings.Cut(strings.TrimSpace(sessionToken), "|")
	if subject == "" {
		return authgw.Identity{}, authgw.ErrUnauthenticated
	}
	if email == "" {
		email = subject + "@snack.local"
	}
	return authgw.Identity{ID: subject, Email: email}, nil
}
