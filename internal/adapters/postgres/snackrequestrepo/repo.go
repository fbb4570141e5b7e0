package snackrequestrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/sandys-snack-club/snack-club-api/internal/adapters/postgres"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/snackrequestrepo"
)

// Repo is a Postgres implementation of snackrequestrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, req domain.SnackRequest) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO snack_requests (
			id,
			requester_id,
			snack_name,
			details,
			source,
			status,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		string(req.ID),
		string(req.RequesterID),
		req.SnackName,
		req.Details,
		req.Source,
		string(req.Status),
		req.CreatedAt.UTC(),
		req.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return snackrequestrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.RequestID) (domain.SnackRequest, error) {
	if r.pool == nil {
		return domain.SnackRequest{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, requester_id, snack_name, details, source, status, created_at, updated_at
		FROM snack_requests
		WHERE id = $1
	`, string(id))
	return scanRequest(row)
}

func (r *Repo) List(ctx context.Context, f snackrequestrepo.Filter) ([]domain.SnackRequest, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT id, requester_id, snack_name, details, source, status, created_at, updated_at
		FROM snack_requests
		WHERE true
	`)
	args := make([]any, 0, 2)
	if f.Requester != "" {
		args = append(args, string(f.Requester))
		fmt.Fprintf(&sb, " AND requester_id = $%d ", len(args))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		fmt.Fprintf(&sb, " AND status = ANY($%d) ", len(args))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC ")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.SnackRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id domain.RequestID, status domain.RequestStatus, updatedAt time.Time) (domain.SnackRequest, error) {
	if r.pool == nil {
		return domain.SnackRequest{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE snack_requests
		SET status = $2,
		    updated_at = $3
		WHERE id = $1
		RETURNING id, requester_id, snack_name, details, source, status, created_at, updated_at
	`, string(id), string(status), updatedAt.UTC())
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, snackrequestrepo.ErrNotFound) {
			return domain.SnackRequest{}, snackrequestrepo.ErrNotFound
		}
		return domain.SnackRequest{}, err
	}
	return req, nil
}

func scanRequest(row interface {
	Scan(dest ...any) error
}) (domain.SnackRequest, error) {
	var (
		id          string
		requesterID string
		snackName   string
		details     *string
		source      *string
		status      string
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &requesterID, &snackName, &details, &source, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SnackRequest{}, snackrequestrepo.ErrNotFound
		}
		return domain.SnackRequest{}, err
	}
	return domain.SnackRequest{
		ID:          domain.RequestID(id),
		RequesterID: domain.ProfileID(requesterID),
		SnackName:   snackName,
		Details:     details,
		Source:      source,
		Status:      domain.RequestStatus(status),
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}, nil
}
