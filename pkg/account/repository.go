package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository defines the storage operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, params CreateAccountParams) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)

	// UpdatePassword overwrites the hash and stamps last_password_reset.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, resetAt time.Time) error

	UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error
}

// PostgresAccountRepository implements AccountRepository using PostgreSQL.
type PostgresAccountRepository struct {
	db *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new PostgreSQL-based account repository.
func NewPostgresAccountRepository(db *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, params CreateAccountParams) (Account, error) {
	query := `
		INSERT INTO accounts (email, name, password_hash, preferred_language)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name, password_hash, preferred_language, last_password_reset, created_at
	`

	language := params.PreferredLanguage
	if language == "" {
		language = LangEnglish
	}

	account, err := scanAccount(r.db.QueryRow(ctx, query, params.Email, params.Name, params.PasswordHash, language))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrEmailTaken
		}
		return Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (Account, error) {
	query := `
		SELECT id, email, name, password_hash, preferred_language, last_password_reset, created_at
		FROM accounts
		WHERE email = $1
	`

	account, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

func (r *PostgresAccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, resetAt time.Time) error {
	query := `
		UPDATE accounts
		SET password_hash = $2,
		    last_password_reset = $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, passwordHash, resetAt)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error {
	query := `
		UPDATE accounts
		SET preferred_language = $2
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, language)
	if err != nil {
		return fmt.Errorf("failed to update language: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var account Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.PasswordHash,
		&account.PreferredLanguage,
		&account.LastPasswordResetAt,
		&account.CreatedAt,
	)
	return account, err
}
