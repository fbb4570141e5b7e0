// Package identity resolves session credentials into member profiles,
// bootstrapping a profile record exactly once per identity.
package identity

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/singleflight"

	"github.com/sandys-snack-club/snack-club-api/internal/app/apperr"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/authgw"
	clockport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/clock"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/profilerepo"
)

// fallbackDisplayName is used when neither the pending-registration side
// channel nor the identity's email yields a usable name.
const fallbackDisplayName = "Snack Lover"

// Metrics receives bootstrap events. Implementations must be safe for
// concurrent use; a nil Metrics disables recording.
type Metrics interface {
	RecordProfileBootstrap()
}

type Service struct {
	verifier authgw.Verifier
	profiles profilerepo.Repository
	clk      clockport.Clock

	// bootstrap dedups concurrent first-time resolutions per identity id.
	// This is an optimization only: the repository's CreateOrGet is already
	// idempotent, so a lost latch never produces a duplicate row.
	bootstrap singleflight.Group

	sanitizer *bluemonday.Policy
	metrics   Metrics
}

func NewService(verifier authgw.Verifier, profiles profilerepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		verifier:  verifier,
		profiles:  profiles,
		clk:       clk,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// SetMetrics attaches a bootstrap metrics sink. Intended to be called once
// during wiring, before the service handles requests.
func (s *Service) SetMetrics(m Metrics) { s.metrics = m }

// Resolve validates the session and returns the caller's profile, creating a
// default one on first sign-in. At most one profile row is ever created per
// identity.
func (s *Service) Resolve(ctx context.Context, sessionToken string) (domain.Profile, error) {
	if strings.TrimSpace(sessionToken) == "" {
		return domain.Profile{}, apperr.Unauthenticated("missing session credential")
	}

	ident, err := s.verifier.Verify(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, authgw.ErrUnauthenticated) {
			return domain.Profile{}, apperr.Unauthenticated("invalid or expired session")
		}
		return domain.Profile{}, apperr.Storage(err)
	}

	p, err := s.profiles.GetByID(ctx, domain.ProfileID(ident.ID))
	if err == nil {
		return toDomain(p), nil
	}
	if !errors.Is(err, profilerepo.ErrNotFound) {
		return domain.Profile{}, apperr.Storage(err)
	}

	// Bootstrap window: concurrent resolutions for the same identity share one
	// in-flight creation effort instead of racing a second write.
	v, err, _ := s.bootstrap.Do(ident.ID, func() (any, error) {
		return s.bootstrapProfile(ctx, ident)
	})
	if err != nil {
		return domain.Profile{}, apperr.Storage(err)
	}
	return toDomain(v.(profilerepo.Profile)), nil
}

func (s *Service) bootstrapProfile(ctx context.Context, ident authgw.Identity) (profilerepo.Profile, error) {
	now := s.clk.Now()
	p := profilerepo.Profile{
		ID:          domain.ProfileID(ident.ID),
		Email:       ident.Email,
		DisplayName: s.defaultDisplayName(ident),
		DietaryNote: s.defaultDietaryNote(ident),
		Role:        domain.RoleMember,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, created, err := s.profiles.CreateOrGet(ctx, p)
	if err != nil {
		return profilerepo.Profile{}, err
	}
	if created && s.metrics != nil {
		s.metrics.RecordProfileBootstrap()
	}
	return stored, nil
}

// sanitizeText strips markup and then decodes the entity escaping the strict
// policy leaves behind, so plain text like "M&M's" round-trips unchanged.
func (s *Service) sanitizeText(raw string) string {
	return html.UnescapeString(s.sanitizer.Sanitize(raw))
}

func (s *Service) defaultDisplayName(ident authgw.Identity) string {
	if ident.PendingDisplayName != nil {
		if name := domain.NormalizeHumanName(s.sanitizeText(*ident.PendingDisplayName)); name != "" {
			return domain.CapText(name, domain.MaxSnackNameLength)
		}
	}
	if local, _, ok := strings.Cut(ident.Email, "@"); ok && local != "" {
		return local
	}
	return fallbackDisplayName
}

func (s *Service) defaultDietaryNote(ident authgw.Identity) *string {
	if ident.PendingDietaryNote == nil {
		return nil
	}
	note := domain.CapText(s.sanitizeText(*ident.PendingDietaryNote), domain.MaxTextFieldLength)
	if note == "" {
		return nil
	}
	return &note
}

// UpdateMyProfile updates the actor's own display name and dietary note.
// Email and role are never writable through this path.
func (s *Service) UpdateMyProfile(ctx context.Context, actor domain.ProfileID, in UpdateProfileInput) (domain.Profile, error) {
	p, err := s.profiles.GetByID(ctx, actor)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, apperr.NotFound("no profile exists for the authenticated identity")
		}
		return domain.Profile{}, apperr.Storage(err)
	}

	if in.DisplayName.IsSpecified() {
		if in.DisplayName.IsNull() {
			return domain.Profile{}, apperr.Validation("invalid displayName", map[string]any{"displayName": "cannot be null"})
		}
		name := domain.NormalizeHumanName(s.sanitizeText(in.DisplayName.Value()))
		if name == "" {
			return domain.Profile{}, apperr.Validation("invalid displayName", map[string]any{"displayName": "must be non-empty"})
		}
		p.DisplayName = domain.CapText(name, domain.MaxSnackNameLength)
	}

	if in.DietaryNote.IsSpecified() {
		if in.DietaryNote.IsNull() {
			p.DietaryNote = nil
		} else {
			note := domain.CapText(s.sanitizeText(in.DietaryNote.Value()), domain.MaxTextFieldLength)
			if note == "" {
				p.DietaryNote = nil
			} else {
				p.DietaryNote = &note
			}
		}
	}

	p.UpdatedAt = s.clk.Now()
	if err := s.profiles.Update(ctx, p); err != nil {
		return domain.Profile{}, apperr.Storage(err)
	}
	return toDomain(p), nil
}

func toDomain(p profilerepo.Profile) domain.Profile {
	return domain.Profile{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		DietaryNote: cloneStringPtr(p.DietaryNote),
		Role:        p.Role,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
