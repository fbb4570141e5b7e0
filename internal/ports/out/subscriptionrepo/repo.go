package subscriptionrepo

import (
	"context"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
)

// Repository provides access to per-member, per-period subscription records.
//
// The composite key is (MemberID, Period). There is no Create/Update split:
// every mutation is an unconditional whole-record upsert, so two racing
// writers converge on one of the two intended terminal states, never a mix.
type Repository interface {
	// Get returns ErrNotFound when no record exists for the key; callers
	// treat absence as the implicit pending baseline.
	Get(ctx context.Context, member domain.ProfileID, period domain.PeriodKey) (domain.SubscriptionRecord, error)

	// Upsert inserts or replaces the record at its (member, period) key.
	Upsert(ctx context.Context, rec domain.SubscriptionRecord) error

	// ListByPeriod returns every record stored for the period, ordered by
	// member id ascending.
	ListByPeriod(ctx context.Context, period domain.PeriodKey) ([]domain.SubscriptionRecord, error)
}
