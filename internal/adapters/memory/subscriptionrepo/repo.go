package subscriptionrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/subscriptionrepo"
)

type key struct {
	member domain.ProfileID
	period domain.PeriodKey
}

// Repo is an in-memory implementation of subscriptionrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu    sync.RWMutex
	byKey map[key]domain.SubscriptionRecord
}

func NewRepo() *Repo {
	return &Repo{byKey: make(map[key]domain.SubscriptionRecord)}
}

func (r *Repo) Get(ctx context.Context, member domain.ProfileID, period domain.PeriodKey) (domain.SubscriptionRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byKey[key{member, period}]
	if !ok {
		return domain.SubscriptionRecord{}, subscriptionrepo.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *Repo) Upsert(ctx context.Context, rec domain.SubscriptionRecord) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[key{rec.MemberID, rec.Period}] = cloneRecord(rec)
	return nil
}

func (r *Repo) ListByPeriod(ctx context.Context, period domain.PeriodKey) ([]domain.SubscriptionRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.SubscriptionRecord, 0)
	for k, rec := range r.byKey {
		if k.period == period {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].MemberID < out[j].MemberID
	})
	return out, nil
}

func cloneRecord(rec domain.SubscriptionRecord) domain.SubscriptionRecord {
	out := rec
	if rec.PausedAt != nil {
		v := *rec.PausedAt
		out.PausedAt = &v
	}
	if rec.CanceledAt != nil {
		v := *rec.CanceledAt
		out.CanceledAt = &v
	}
	if rec.Note != nil {
		v := *rec.Note
		out.Note = &v
	}
	return out
}
