package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waitr/waitr-api/internal/domain"
)

// OTPRepository manages one-time login code persistence.
type OTPRepository interface {
	Create(ctx context.Context, identifier, code string, expiresAt time.Time) error
	// FindLatest returns the most recently expiring code matching the pair,
	// or pgx.ErrNoRows.
	FindLatest(ctx context.Context, identifier, code string) (*domain.OneTimeCode, error)
	// DeleteForIdentifier removes every code for the identifier.
	DeleteForIdentifier(ctx context.Context, identifier string) error
}

type otpRepository struct {
	pool *pgxpool.Pool
}

// NewOTPRepository returns a Postgres-backed implementation.
func NewOTPRepository(pool *pgxpool.Pool) OTPRepository {
	return &otpRepository{pool: pool}
}

func (r *otpRepository) Create(ctx context.Context, identifier, code string, expiresAt time.Time) error {
	const query = `
        INSERT INTO otp_codes (identifier, code, expires_at)
        VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, identifier, code, expiresAt)
	return err
}

func (r *otpRepository) FindLatest(ctx context.Context, identifier, code string) (*domain.OneTimeCode, error) {
	const query = `
        SELECT id, identifier, code, expires_at, created_at
        FROM otp_codes
        WHERE identifier=$1 AND code=$2
        ORDER BY expires_at DESC
        LIMIT 1`

	var record domain.OneTimeCode
	if err := r.pool.QueryRow(ctx, query, identifier, code).Scan(
		&record.ID,
		&record.Identifier,
		&record.Code,
		&record.ExpiresAt,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *otpRepository) DeleteForIdentifier(ctx context.Context, identifier string) error {
	const query = `DELETE FROM otp_codes WHERE identifier=$1`

	_, err := r.pool.Exec(ctx, query, identifier)
	return err
}
