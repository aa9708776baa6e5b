package otp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OtpRepository defines the storage operations for verification codes.
//
// Both operations are atomic: Replace supersedes and inserts in one
// transaction, Consume marks used in one conditional update. That closes the
// check-then-act races a naive delete-then-insert or read-then-mark sequence
// would have under concurrent requests.
type OtpRepository interface {
	// Replace deletes any unused codes for (identity, purpose) and inserts
	// the new one.
	Replace(ctx context.Context, params ReplaceCodeParams) (CodeEntity, error)

	// Consume marks the most recent matching unused, non-expired code as
	// used and returns it. Returns ErrCodeNotFound when nothing matches.
	Consume(ctx context.Context, params ConsumeCodeParams) (CodeEntity, error)
}

// PostgresOtpRepository implements OtpRepository using PostgreSQL.
type PostgresOtpRepository struct {
	db *pgxpool.Pool
}

// NewPostgresOtpRepository creates a new PostgreSQL-based code repository.
func NewPostgresOtpRepository(db *pgxpool.Pool) *PostgresOtpRepository {
	return &PostgresOtpRepository{db: db}
}

// Replace supersedes prior unused codes and inserts the new one in a single
// transaction. A partial unique index on (identity, purpose) WHERE NOT used
// backs this up at the schema level.
func (r *PostgresOtpRepository) Replace(ctx context.Context, params ReplaceCodeParams) (CodeEntity, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return CodeEntity{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	deleteQuery := `
		DELETE FROM otp_codes
		WHERE identity = $1
		AND purpose = $2
		AND used = FALSE
	`
	if _, err := tx.Exec(ctx, deleteQuery, params.Identity, string(params.Purpose)); err != nil {
		return CodeEntity{}, fmt.Errorf("failed to delete superseded codes: %w", err)
	}

	insertQuery := `
		INSERT INTO otp_codes (identity, purpose, code, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, identity, purpose, code, used, created_at, expires_at
	`
	var entity CodeEntity
	err = tx.QueryRow(ctx, insertQuery,
		params.Identity, string(params.Purpose), params.Code, params.ExpiresAt,
	).Scan(
		&entity.ID,
		&entity.Identity,
		&entity.Purpose,
		&entity.Code,
		&entity.Used,
		&entity.CreatedAt,
		&entity.ExpiresAt,
	)
	if err != nil {
		return CodeEntity{}, fmt.Errorf("failed to insert code: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return CodeEntity{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entity, nil
}

// Consume flips used in a single conditional update. The subselect picks the
// most recent candidate; expiry uses a strict comparison so a code submitted
// at exactly its expiry instant is rejected.
func (r *PostgresOtpRepository) Consume(ctx context.Context, params ConsumeCodeParams) (CodeEntity, error) {
	query := `
		UPDATE otp_codes
		SET used = TRUE
		WHERE id = (
			SELECT id FROM otp_codes
			WHERE identity = $1
			AND purpose = $2
			AND code = $3
			AND used = FALSE
			AND expires_at > $4
			ORDER BY created_at DESC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, identity, purpose, code, used, created_at, expires_at
	`

	var entity CodeEntity
	err := r.db.QueryRow(ctx, query,
		params.Identity, string(params.Purpose), params.Code, params.Now,
	).Scan(
		&entity.ID,
		&entity.Identity,
		&entity.Purpose,
		&entity.Code,
		&entity.Used,
		&entity.CreatedAt,
		&entity.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CodeEntity{}, ErrCodeNotFound
		}
		return CodeEntity{}, fmt.Errorf("failed to consume code: %w", err)
	}

	return entity, nil
}
