// Package summary composes profiles, subscription records, snack requests and
// the catalog into read views. It owns no state and never mutates the
// entities it reads; every view is recomputed on demand.
package summary

import (
	"context"
	"errors"
	"math"

	"github.com/sandys-snack-club/snack-club-api/internal/app/apperr"
	"github.com/sandys-snack-club/snack-club-api/internal/app/authz"
	"github.com/sandys-snack-club/snack-club-api/internal/app/snackrequest"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/catalogrepo"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/profilerepo"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/subscriptionrepo"
)

// MemberRow joins one profile with its subscription record for a period.
// A missing record is represented as the pending baseline.
type MemberRow struct {
	Profile      domain.Profile
	Subscription domain.SubscriptionRecord
}

// AdminSummary is the admin overview for one period.
type AdminSummary struct {
	Period domain.PeriodKey

	Members []MemberRow

	TotalMembers   int
	PaidMembers    int
	PendingMembers int
	// PaymentRate is paid/total as a rounded integer percent; 0 when there are
	// no members.
	PaymentRate int

	CatalogCount int
}

// MemberDashboard is the member-facing read view: own subscription record for
// the period plus the shared catalog.
type MemberDashboard struct {
	Subscription domain.SubscriptionRecord
	Snacks       []domain.CatalogItem
}

type Service struct {
	profiles profilerepo.Repository
	subs     subscriptionrepo.Repository
	catalog  catalogrepo.Repository
	requests *snackrequest.Service
}

func NewService(profiles profilerepo.Repository, subs subscriptionrepo.Repository, catalog catalogrepo.Repository, requests *snackrequest.Service) *Service {
	return &Service{
		profiles: profiles,
		subs:     subs,
		catalog:  catalog,
		requests: requests,
	}
}

// AdminSummary joins every profile with its subscription record for the
// period and computes payment totals. Admin only.
func (s *Service) AdminSummary(ctx context.Context, actor domain.Profile, period domain.PeriodKey) (AdminSummary, error) {
	if d := authz.Authorize(actor, authz.ActionReadAll, ""); !d.Allowed {
		return AdminSummary{}, apperr.InsufficientRole("only admins can view the member summary")
	}

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return AdminSummary{}, apperr.Storage(err)
	}
	recs, err := s.subs.ListByPeriod(ctx, period)
	if err != nil {
		return AdminSummary{}, apperr.Storage(err)
	}
	items, err := s.catalog.List(ctx)
	if err != nil {
		return AdminSummary{}, apperr.Storage(err)
	}

	byMember := make(map[domain.ProfileID]domain.SubscriptionRecord, len(recs))
	for _, rec := range recs {
		byMember[rec.MemberID] = rec
	}

	out := AdminSummary{Period: period, CatalogCount: len(items)}
	out.Members = make([]MemberRow, 0, len(profiles))
	for _, p := range profiles {
		rec, ok := byMember[p.ID]
		if !ok {
			rec = domain.SubscriptionRecord{MemberID: p.ID, Period: period}
		}
		if rec.Paid {
			out.PaidMembers++
		}
		out.Members = append(out.Members, MemberRow{Profile: toDomainProfile(p), Subscription: rec})
	}

	out.TotalMembers = len(profiles)
	out.PendingMembers = out.TotalMembers - out.PaidMembers
	if out.PendingMembers < 0 {
		out.PendingMembers = 0
	}
	if out.TotalMembers > 0 {
		out.PaymentRate = int(math.Round(float64(out.PaidMembers) / float64(out.TotalMembers) * 100))
	}
	return out, nil
}

// AdminRequestView lists requests with admin privilege and the given status
// filter.
func (s *Service) AdminRequestView(ctx context.Context, actor domain.Profile, statusFilter []string) ([]domain.RequestWithRequester, error) {
	if d := authz.Authorize(actor, authz.ActionReadAll, ""); !d.Allowed {
		return nil, apperr.InsufficientRole("only admins can view all requests")
	}
	return s.requests.List(ctx, actor, statusFilter)
}

// MemberDashboard returns the actor's own subscription record for the period
// plus the catalog.
func (s *Service) MemberDashboard(ctx context.Context, actor domain.Profile, period domain.PeriodKey) (MemberDashboard, error) {
	rec, err := s.subs.Get(ctx, actor.ID, period)
	if err != nil {
		if !errors.Is(err, subscriptionrepo.ErrNotFound) {
			return MemberDashboard{}, apperr.Storage(err)
		}
		rec = domain.SubscriptionRecord{MemberID: actor.ID, Period: period}
	}
	items, err := s.catalog.List(ctx)
	if err != nil {
		return MemberDashboard{}, apperr.Storage(err)
	}
	return MemberDashboard{Subscription: rec, Snacks: items}, nil
}

func toDomainProfile(p profilerepo.Profile) domain.Profile {
	out := domain.Profile{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.DietaryNote != nil {
		v := *p.DietaryNote
		out.DietaryNote = &v
	}
	return out
}
