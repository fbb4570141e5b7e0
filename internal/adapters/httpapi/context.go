package httpapi

import (
	"context"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
)

type actorKey struct{}

func WithActor(ctx context.Context, p domain.Profile) context.Context {
	return context.WithValue(ctx, actorKey{}, p)
}

func ActorFromContext(ctx context.Context) (domain.Profile, bool) {
	v, ok := ctx.Value(actorKey{}).(domain.Profile)
	return v, ok && v.ID != ""
}
