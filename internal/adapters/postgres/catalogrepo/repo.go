package catalogrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/sandys-snack-club/snack-club-api/internal/adapters/postgres"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/catalogrepo"
)

// Repo is a Postgres implementation of catalogrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, item domain.CatalogItem) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO snacks (id, name, description, photo_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		string(item.ID),
		item.Name,
		item.Description,
		item.PhotoRef,
		item.CreatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return catalogrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) List(ctx context.Context) ([]domain.CatalogItem, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, photo_url, created_at
		FROM snacks
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.CatalogItem, 0)
	for rows.Next() {
		var (
			id          string
			name        string
			description *string
			photoRef    *string
			createdAt   time.Time
		)
		if err := rows.Scan(&id, &name, &description, &photoRef, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, domain.CatalogItem{
			ID:          domain.SnackID(id),
			Name:        name,
			Description: description,
			PhotoRef:    photoRef,
			CreatedAt:   createdAt.UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
