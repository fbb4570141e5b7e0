package profilerepo

import (
	"context"
	"time"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
)

// Profile is the persistence shape used by the profile repository.
// It is an internal record, not an HTTP DTO.
type Profile struct {
	ID    domain.ProfileID
	Email string

	DisplayName string
	// DietaryNote is optional free text; nil means unset.
	DietaryNote *string

	Role domain.Role

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted profiles.
//
// Result ordering expectations:
// - List should return results ordered by DisplayName ascending (id as a
//   tiebreaker) to keep behavior deterministic.
type Repository interface {
	// CreateOrGet inserts p if no profile exists for p.ID, otherwise returns
	// the existing row untouched. The operation is atomic with respect to
	// concurrent callers inserting the same id: a uniqueness violation on
	// insert is the success path (refetch), never an error. The returned bool
	// reports whether a new row was created.
	CreateOrGet(ctx context.Context, p Profile) (Profile, bool, error)

	// Update persists owner-editable fields (DisplayName, DietaryNote,
	// UpdatedAt). Email and Role are never changed by Update.
	Update(ctx context.Context, p Profile) error

	GetByID(ctx context.Context, id domain.ProfileID) (Profile, error)

	List(ctx context.Context) ([]Profile, error)
}
