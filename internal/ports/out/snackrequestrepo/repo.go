package snackrequestrepo

import (
	"context"
	"time"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
)

// Filter restricts List results. The zero value matches everything.
type Filter struct {
	// Requester, when non-empty, restricts results to that member's requests.
	Requester domain.ProfileID
	// Statuses, when non-empty, restricts results to the given statuses.
	Statuses []domain.RequestStatus
}

// Repository provides access to persisted snack requests.
//
// Result ordering expectations:
// - List returns results ordered by CreatedAt descending (id descending as a
//   tiebreaker) so the newest request comes first.
type Repository interface {
	Create(ctx context.Context, req domain.SnackRequest) error

	GetByID(ctx context.Context, id domain.RequestID) (domain.SnackRequest, error)

	List(ctx context.Context, f Filter) ([]domain.SnackRequest, error)

	// UpdateStatus writes the status and updatedAt for an existing request and
	// returns the stored row. It returns ErrNotFound when the id is absent.
	// Requester, name and free-text fields are immutable through this method.
	UpdateStatus(ctx context.Context, id domain.RequestID, status domain.RequestStatus, updatedAt time.Time) (domain.SnackRequest, error)
}
