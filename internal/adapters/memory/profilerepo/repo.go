package profilerepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/profilerepo"
)

// Repo is an in-memory implementation of profilerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ProfileID]profilerepo.Profile
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.ProfileID]profilerepo.Profile)}
}

func (r *Repo) CreateOrGet(ctx context.Context, p profilerepo.Profile) (profilerepo.Profile, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[p.ID]; ok {
		return cloneProfile(existing), false, nil
	}
	r.byID[p.ID] = cloneProfile(p)
	return cloneProfile(p), true, nil
}

func (r *Repo) Update(ctx context.Context, p profilerepo.Profile) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[p.ID]
	if !ok {
		return profilerepo.ErrNotFound
	}
	// Email and role are immutable through Update.
	existing.DisplayName = p.DisplayName
	existing.DietaryNote = cloneStringPtr(p.DietaryNote)
	existing.UpdatedAt = p.UpdatedAt
	r.byID[p.ID] = existing
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfileID) (profilerepo.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return profilerepo.Profile{}, profilerepo.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *Repo) List(ctx context.Context) ([]profilerepo.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profilerepo.Profile, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, cloneProfile(p))
	}
	sortProfilesByDisplayName(out)
	return out, nil
}

// SeedRole overwrites the stored role for a profile. Role assignment is an
// out-of-band administrative action; this helper exists for tests and dev
// seeding only.
func (r *Repo) SeedRole(id domain.ProfileID, role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		p.Role = role
		r.byID[id] = p
	}
}

func cloneProfile(p profilerepo.Profile) profilerepo.Profile {
	out := p
	out.DietaryNote = cloneStringPtr(p.DietaryNote)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortProfilesByDisplayName(ps []profilerepo.Profile) {
	sort.Slice(ps, func(i, j int) bool {
		di := strings.ToLower(ps[i].DisplayName)
		dj := strings.ToLower(ps[j].DisplayName)
		if di == dj {
			return string(ps[i].ID) < string(ps[j].ID)
		}
		return di < dj
	})
}
