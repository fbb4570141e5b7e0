package subscriptionrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/subscriptionrepo"
)

// Repo is a Postgres implementation of subscriptionrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Get(ctx context.Context, member domain.ProfileID, period domain.PeriodKey) (domain.SubscriptionRecord, error) {
	if r.pool == nil {
		return domain.SubscriptionRecord{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, month, paid, paused, paused_at, canceled, canceled_at, note
		FROM subscription_status
		WHERE user_id = $1 AND month = $2
	`, string(member), string(period))
	return scanRecord(row)
}

func (r *Repo) Upsert(ctx context.Context, rec domain.SubscriptionRecord) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subscription_status (
			user_id,
			month,
			paid,
			paused,
			paused_at,
			canceled,
			canceled_at,
			note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, month) DO UPDATE SET
			paid = EXCLUDED.paid,
			paused = EXCLUDED.paused,
			paused_at = EXCLUDED.paused_at,
			canceled = EXCLUDED.canceled,
			canceled_at = EXCLUDED.canceled_at,
			note = EXCLUDED.note
	`,
		string(rec.MemberID),
		string(rec.Period),
		rec.Paid,
		rec.Paused,
		utcPtr(rec.PausedAt),
		rec.Canceled,
		utcPtr(rec.CanceledAt),
		rec.Note,
	)
	return err
}

func (r *Repo) ListByPeriod(ctx context.Context, period domain.PeriodKey) ([]domain.SubscriptionRecord, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, month, paid, paused, paused_at, canceled, canceled_at, note
		FROM subscription_status
		WHERE month = $1
		ORDER BY user_id ASC
	`, string(period))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.SubscriptionRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRecord(row interface {
	Scan(dest ...any) error
}) (domain.SubscriptionRecord, error) {
	var (
		userID     string
		month      string
		paid       bool
		paused     bool
		pausedAt   *time.Time
		canceled   bool
		canceledAt *time.Time
		note       *string
	)
	if err := row.Scan(&userID, &month, &paid, &paused, &pausedAt, &canceled, &canceledAt, &note); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SubscriptionRecord{}, subscriptionrepo.ErrNotFound
		}
		return domain.SubscriptionRecord{}, err
	}
	return domain.SubscriptionRecord{
		MemberID:   domain.ProfileID(userID),
		Period:     domain.PeriodKey(month),
		Paid:       paid,
		Paused:     paused,
		PausedAt:   utcPtr(pausedAt),
		Canceled:   canceled,
		CanceledAt: utcPtr(canceledAt),
		Note:       note,
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
