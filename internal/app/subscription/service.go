// Package subscription owns the per-member, per-period subscription record:
// payment fact plus pause/cancel state.
package subscription

import (
	"context"
	"errors"

	"github.com/sandys-snack-club/snack-club-api/internal/app/apperr"
	"github.com/sandys-snack-club/snack-club-api/internal/app/authz"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	clockport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/clock"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/subscriptionrepo"
)

// adminNote is recorded when an admin mutates another member's record and no
// note exists yet.
const adminNote = "Updated by admin"

// Action is the wire token for a self-service subscription mutation.
type Action string

const (
	ActionPause      Action = "pause"
	ActionCancel     Action = "cancel"
	ActionReactivate Action = "reactivate"
)

// ParseAction maps a wire token onto the action enum.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionPause, ActionCancel, ActionReactivate:
		return Action(s), true
	}
	return "", false
}

// Metrics receives transition events. A nil Metrics disables recording.
type Metrics interface {
	RecordSubscriptionTransition(action string)
}

type Service struct {
	subs    subscriptionrepo.Repository
	clk     clockport.Clock
	metrics Metrics
}

func NewService(subs subscriptionrepo.Repository, clk clockport.Clock) *Service {
	return &Service{subs: subs, clk: clk}
}

// SetMetrics attaches a transition metrics sink. Intended to be called once
// during wiring.
func (s *Service) SetMetrics(m Metrics) { s.metrics = m }

// Get returns the record for (member, period). Reading one's own record is
// always allowed; reading another member's requires admin. A missing record is
// returned as the implicit pending baseline, not an error.
func (s *Service) Get(ctx context.Context, actor domain.Profile, member domain.ProfileID, period domain.PeriodKey) (domain.SubscriptionRecord, error) {
	action := authz.ActionReadOwn
	if member != actor.ID {
		action = authz.ActionReadAll
	}
	if d := authz.Authorize(actor, action, member); !d.Allowed {
		return domain.SubscriptionRecord{}, apperr.InsufficientRole("only admins can view other members' subscriptions")
	}
	return s.baseline(ctx, member, period)
}

// ApplyAction applies a pause/cancel/reactivate token to (target, period).
// Self-service targets are allowed unconditionally; other targets require
// admin. The whole record is rewritten in a single upsert.
func (s *Service) ApplyAction(ctx context.Context, actor domain.Profile, target domain.ProfileID, period domain.PeriodKey, rawAction string) (domain.SubscriptionRecord, error) {
	action, ok := ParseAction(rawAction)
	if !ok {
		return domain.SubscriptionRecord{}, apperr.InvalidAction("a valid action of pause, cancel, or reactivate is required")
	}
	if target == "" {
		target = actor.ID
	}
	if d := authz.Authorize(actor, authz.ActionMutateSubscription, target); !d.Allowed {
		return domain.SubscriptionRecord{}, apperr.InsufficientRole("only admins can modify other members' subscriptions")
	}

	rec, err := s.baseline(ctx, target, period)
	if err != nil {
		return domain.SubscriptionRecord{}, err
	}

	now := s.clk.Now()
	switch action {
	case ActionPause:
		rec.ApplyPause(now)
	case ActionCancel:
		rec.ApplyCancel(now)
	case ActionReactivate:
		rec.ApplyReactivate()
	}

	if target != actor.ID && rec.Note == nil {
		note := adminNote
		rec.Note = &note
	}

	if err := s.subs.Upsert(ctx, rec); err != nil {
		return domain.SubscriptionRecord{}, apperr.Storage(err)
	}
	if s.metrics != nil {
		s.metrics.RecordSubscriptionTransition(string(action))
	}
	return rec, nil
}

// SetPaid toggles the payment fact for (member, period). Admin only; the
// system records externally-asserted payment facts, it never moves money.
// Pause/cancel state is untouched.
func (s *Service) SetPaid(ctx context.Context, actor domain.Profile, member domain.ProfileID, period domain.PeriodKey, paid bool, note *string) (domain.SubscriptionRecord, error) {
	if d := authz.Authorize(actor, authz.ActionMarkPayment, member); !d.Allowed {
		return domain.SubscriptionRecord{}, apperr.InsufficientRole("only admins can record payments")
	}

	rec, err := s.baseline(ctx, member, period)
	if err != nil {
		return domain.SubscriptionRecord{}, err
	}

	rec.Paid = paid
	if note != nil {
		rec.Note = cloneStringPtr(note)
	}

	if err := s.subs.Upsert(ctx, rec); err != nil {
		return domain.SubscriptionRecord{}, apperr.Storage(err)
	}
	if s.metrics != nil {
		action := "mark_unpaid"
		if paid {
			action = "mark_paid"
		}
		s.metrics.RecordSubscriptionTransition(action)
	}
	return rec, nil
}

// baseline loads the stored record, or synthesizes the implicit pending
// baseline when none exists.
func (s *Service) baseline(ctx context.Context, member domain.ProfileID, period domain.PeriodKey) (domain.SubscriptionRecord, error) {
	rec, err := s.subs.Get(ctx, member, period)
	if err != nil {
		if errors.Is(err, subscriptionrepo.ErrNotFound) {
			return domain.SubscriptionRecord{MemberID: member, Period: period}, nil
		}
		return domain.SubscriptionRecord{}, apperr.Storage(err)
	}
	return rec, nil
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
