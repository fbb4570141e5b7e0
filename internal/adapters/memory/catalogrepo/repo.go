package catalogrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/catalogrepo"
)

// Repo is an in-memory implementation of catalogrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.SnackID]domain.CatalogItem
}

func NewRepo() *Repo {
	return &Repo{byID: make(map[domain.SnackID]domain.CatalogItem)}
}

func (r *Repo) Create(ctx context.Context, item domain.CatalogItem) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[item.ID]; ok {
		return catalogrepo.ErrAlreadyExists
	}
	r.byID[item.ID] = cloneItem(item)
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.CatalogItem, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CatalogItem, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, cloneItem(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func cloneItem(item domain.CatalogItem) domain.CatalogItem {
	out := item
	if item.Description != nil {
		v := *item.Description
		out.Description = &v
	}
	if item.PhotoRef != nil {
		v := *item.PhotoRef
		out.PhotoRef = &v
	}
	return out
}
