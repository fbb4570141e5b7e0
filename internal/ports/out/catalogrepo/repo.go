package catalogrepo

import (
	"context"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
)

// Repository provides access to the shared snack catalog.
//
// Result ordering expectations:
// - List returns results ordered by CreatedAt descending (id descending as a
//   tiebreaker).
type Repository interface {
	Create(ctx context.Context, item domain.CatalogItem) error
	List(ctx context.Context) ([]domain.CatalogItem, error)
}
