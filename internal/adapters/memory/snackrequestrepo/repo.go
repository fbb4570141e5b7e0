package snackrequestrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/snackrequestrepo"
)

// Repo is an in-memory implementation of snackrequestrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.RequestID]domain.SnackRequest
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.RequestID]domain.SnackRequest)}
}

func (r *Repo) Create(ctx context.Context, req domain.SnackRequest) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[req.ID]; ok {
		return snackrequestrepo.ErrAlreadyExists
	}
	r.byID[req.ID] = cloneRequest(req)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.RequestID) (domain.SnackRequest, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.byID[id]
	if !ok {
		return domain.SnackRequest{}, snackrequestrepo.ErrNotFound
	}
	return cloneRequest(req), nil
}

func (r *Repo) List(ctx context.Context, f snackrequestrepo.Filter) ([]domain.SnackRequest, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.SnackRequest, 0)
	for _, req := range r.byID {
		if f.Requester != "" && req.RequesterID != f.Requester {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, req.Status) {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	sortRequestsNewestFirst(out)
	return out, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id domain.RequestID, status domain.RequestStatus, updatedAt time.Time) (domain.SnackRequest, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return domain.SnackRequest{}, snackrequestrepo.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = updatedAt
	r.byID[id] = req
	return cloneRequest(req), nil
}

func containsStatus(ss []domain.RequestStatus, s domain.RequestStatus) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func cloneRequest(req domain.SnackRequest) domain.SnackRequest {
	out := req
	out.Details = cloneStringPtr(req.Details)
	out.Source = cloneStringPtr(req.Source)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sortRequestsNewestFirst(rs []domain.SnackRequest) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID > rs[j].ID
		}
		return rs[i].CreatedAt.After(rs[j].CreatedAt)
	})
}
