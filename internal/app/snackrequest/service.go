// Package snackrequest owns the triage lifecycle of member snack requests.
package snackrequest

import (
	"context"
	"errors"
	"html"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/sandys-snack-club/snack-club-api/internal/app/apperr"
	"github.com/sandys-snack-club/snack-club-api/internal/app/authz"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	clockport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/clock"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/profilerepo"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/snackrequestrepo"
)

type CreateInput struct {
	SnackName string
	Details   string
	Source    string
}

// Metrics receives triage transition events. A nil Metrics disables recording.
type Metrics interface {
	RecordRequestTransition(status string)
}

type Service struct {
	requests snackrequestrepo.Repository
	profiles profilerepo.Repository
	clk      clockport.Clock

	newRequestID func() domain.RequestID

	sanitizer *bluemonday.Policy
	metrics   Metrics
}

func NewService(requests snackrequestrepo.Repository, profiles profilerepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		requests: requests,
		profiles: profiles,
		clk:      clk,
		newRequestID: func() domain.RequestID {
			return domain.RequestID(uuid.NewString())
		},
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// SetNewRequestIDForTest overrides request ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewRequestIDForTest(fn func() domain.RequestID) {
	if fn != nil {
		s.newRequestID = fn
	}
}

// SetMetrics attaches a transition metrics sink. Intended to be called once
// during wiring.
func (s *Service) SetMetrics(m Metrics) { s.metrics = m }

// Create records a new request with status pending. The snack name must be
// non-empty after trimming; oversized free-text fields are truncated, not
// rejected.
func (s *Service) Create(ctx context.Context, actor domain.Profile, in CreateInput) (domain.RequestWithRequester, error) {
	name := domain.CapText(domain.NormalizeHumanName(s.sanitizeText(in.SnackName)), domain.MaxSnackNameLength)
	if name == "" {
		return domain.RequestWithRequester{}, apperr.Validation("please share the snack name before submitting", map[string]any{"snackName": "must be non-empty"})
	}

	now := s.clk.Now()
	req := domain.SnackRequest{
		ID:          s.newRequestID(),
		RequesterID: actor.ID,
		SnackName:   name,
		Details:     s.optionalText(in.Details),
		Source:      s.optionalText(in.Source),
		Status:      domain.RequestPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return domain.RequestWithRequester{}, apperr.Storage(err)
	}

	return domain.RequestWithRequester{
		SnackRequest: req,
		Requester:    &domain.RequesterRef{DisplayName: actor.DisplayName, Email: actor.Email},
	}, nil
}

// List returns requests visible to the actor, newest first. Admins see every
// request, optionally restricted by the status filter; members always see only
// their own requests regardless of filter content. Unrecognized filter values
// are dropped, not errored.
func (s *Service) List(ctx context.Context, actor domain.Profile, statusFilter []string) ([]domain.RequestWithRequester, error) {
	f := snackrequestrepo.Filter{Statuses: parseStatusFilter(statusFilter)}
	if !actor.IsAdmin() {
		f.Requester = actor.ID
	}

	reqs, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return s.joinRequesters(ctx, reqs)
}

// Transition moves a request to nextStatus. Admin only; requesters never
// transition their own requests. The move must be reachable from the current
// status per the triage table.
func (s *Service) Transition(ctx context.Context, actor domain.Profile, id domain.RequestID, nextStatus string) (domain.RequestWithRequester, error) {
	if d := authz.Authorize(actor, authz.ActionTransitionRequest, ""); !d.Allowed {
		return domain.RequestWithRequester{}, apperr.InsufficientRole("only admins can update snack request statuses")
	}

	next, ok := domain.ParseRequestStatus(nextStatus)
	if !ok {
		return domain.RequestWithRequester{}, apperr.Validation(
			"status must be one of: pending, accepted, fulfilled, or declined",
			map[string]any{"status": nextStatus},
		)
	}

	cur, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, snackrequestrepo.ErrNotFound) {
			return domain.RequestWithRequester{}, apperr.NotFound("that snack request could not be found")
		}
		return domain.RequestWithRequester{}, apperr.Storage(err)
	}

	if !domain.CanTransitionRequest(cur.Status, next) {
		return domain.RequestWithRequester{}, apperr.InvalidTransition(
			"status change not permitted from the current state",
			map[string]any{"from": string(cur.Status), "to": string(next)},
		)
	}

	updated, err := s.requests.UpdateStatus(ctx, id, next, s.clk.Now())
	if err != nil {
		if errors.Is(err, snackrequestrepo.ErrNotFound) {
			return domain.RequestWithRequester{}, apperr.NotFound("that snack request could not be found")
		}
		return domain.RequestWithRequester{}, apperr.Storage(err)
	}
	if s.metrics != nil {
		s.metrics.RecordRequestTransition(string(next))
	}

	joined, err := s.joinRequesters(ctx, []domain.SnackRequest{updated})
	if err != nil {
		return domain.RequestWithRequester{}, err
	}
	return joined[0], nil
}

// sanitizeText strips markup and then decodes the entity escaping the strict
// policy leaves behind, so plain text like "M&M's" round-trips unchanged.
func (s *Service) sanitizeText(raw string) string {
	return html.UnescapeString(s.sanitizer.Sanitize(raw))
}

func (s *Service) optionalText(raw string) *string {
	v := domain.CapText(s.sanitizeText(raw), domain.MaxTextFieldLength)
	if v == "" {
		return nil
	}
	return &v
}

// parseStatusFilter keeps recognized status values and silently drops the rest.
func parseStatusFilter(raw []string) []domain.RequestStatus {
	out := make([]domain.RequestStatus, 0, len(raw))
	for _, v := range raw {
		if st, ok := domain.ParseRequestStatus(v); ok {
			out = append(out, st)
		}
	}
	return out
}

// joinRequesters attaches requester summaries. A missing profile row yields a
// nil Requester, not an error.
func (s *Service) joinRequesters(ctx context.Context, reqs []domain.SnackRequest) ([]domain.RequestWithRequester, error) {
	out := make([]domain.RequestWithRequester, 0, len(reqs))
	refs := make(map[domain.ProfileID]*domain.RequesterRef)
	for _, req := range reqs {
		ref, seen := refs[req.RequesterID]
		if !seen {
			p, err := s.profiles.GetByID(ctx, req.RequesterID)
			switch {
			case err == nil:
				ref = &domain.RequesterRef{DisplayName: p.DisplayName, Email: p.Email}
			case errors.Is(err, profilerepo.ErrNotFound):
				ref = nil
			default:
				return nil, apperr.Storage(err)
			}
			refs[req.RequesterID] = ref
		}
		out = append(out, domain.RequestWithRequester{SnackRequest: req, Requester: ref})
	}
	return out, nil
}
