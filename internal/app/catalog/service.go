// Package catalog manages the admin-authored snack catalog.
package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/sandys-snack-club/snack-club-api/internal/app/apperr"
	"github.com/sandys-snack-club/snack-club-api/internal/app/authz"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/catalogrepo"
	clockport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/clock"
)

type AddSnackInput struct {
	Name        string
	Description string
	// PhotoRef is an opaque reference to an externally-hosted image; uploads
	// happen outside this service.
	PhotoRef string
}

type Service struct {
	items catalogrepo.Repository
	clk   clockport.Clock

	newSnackID func() domain.SnackID
}

func NewService(items catalogrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		items: items,
		clk:   clk,
		newSnackID: func() domain.SnackID {
			return domain.SnackID(uuid.NewString())
		},
	}
}

// SetNewSnackIDForTest overrides snack ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewSnackIDForTest(fn func() domain.SnackID) {
	if fn != nil {
		s.newSnackID = fn
	}
}

// AddSnack appends a new catalog item. Admin only.
func (s *Service) AddSnack(ctx context.Context, actor domain.Profile, in AddSnackInput) (domain.CatalogItem, error) {
	if d := authz.Authorize(actor, authz.ActionManageCatalog, ""); !d.Allowed {
		return domain.CatalogItem{}, apperr.InsufficientRole("only admins can add snacks to the catalog")
	}

	name := domain.CapText(domain.NormalizeHumanName(in.Name), domain.MaxSnackNameLength)
	if name == "" {
		return domain.CatalogItem{}, apperr.Validation("invalid name", map[string]any{"name": "must be non-empty"})
	}

	item := domain.CatalogItem{
		ID:          s.newSnackID(),
		Name:        name,
		Description: optionalText(in.Description),
		PhotoRef:    optionalText(in.PhotoRef),
		CreatedAt:   s.clk.Now(),
	}
	if err := s.items.Create(ctx, item); err != nil {
		return domain.CatalogItem{}, apperr.Storage(err)
	}
	return item, nil
}

// ListSnacks returns the catalog, newest first. Any authenticated member may
// browse it.
func (s *Service) ListSnacks(ctx context.Context) ([]domain.CatalogItem, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return items, nil
}

func optionalText(raw string) *string {
	v := domain.CapText(raw, domain.MaxTextFieldLength)
	if v == "" {
		return nil
	}
	return &v
}
