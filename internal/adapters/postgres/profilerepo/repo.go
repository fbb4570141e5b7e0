package profilerepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/profilerepo"
)

// Repo is a Postgres implementation of profilerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) CreateOrGet(ctx context.Context, p profilerepo.Profile) (profilerepo.Profile, bool, error) {
	if r.pool == nil {
		return profilerepo.Profile{}, false, errors.New("nil postgres pool")
	}

	ct, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (
			id,
			email,
			display_name,
			dietary_note,
			role,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`,
		string(p.ID),
		p.Email,
		p.DisplayName,
		p.DietaryNote,
		string(p.Role),
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return profilerepo.Profile{}, false, err
	}
	created := ct.RowsAffected() == 1

	// Losing the insert race still ends with the winner's row.
	stored, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return profilerepo.Profile{}, false, err
	}
	return stored, created, nil
}

func (r *Repo) Update(ctx context.Context, p profilerepo.Profile) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET display_name = $2,
		    dietary_note = $3,
		    updated_at = $4
		WHERE id = $1
	`,
		string(p.ID),
		p.DisplayName,
		p.DietaryNote,
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return profilerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ProfileID) (profilerepo.Profile, error) {
	if r.pool == nil {
		return profilerepo.Profile{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, display_name, dietary_note, role, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`, string(id))
	return scanProfile(row)
}

func (r *Repo) List(ctx context.Context) ([]profilerepo.Profile, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, display_name, dietary_note, role, created_at, updated_at
		FROM profiles
		ORDER BY lower(display_name) ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profilerepo.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProfile(row interface {
	Scan(dest ...any) error
}) (profilerepo.Profile, error) {
	var (
		id          string
		email       string
		displayName string
		dietaryNote *string
		role        string
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &email, &displayName, &dietaryNote, &role, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profilerepo.Profile{}, profilerepo.ErrNotFound
		}
		return profilerepo.Profile{}, err
	}
	return profilerepo.Profile{
		ID:          domain.ProfileID(id),
		Email:       email,
		DisplayName: displayName,
		DietaryNote: dietaryNote,
		Role:        domain.Role(role),
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}, nil
}
