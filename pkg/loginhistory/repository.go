package loginhistory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoginHistoryRepository defines the storage operations for login events.
type LoginHistoryRepository interface {
	Record(ctx context.Context, params RecordEventParams) (LoginEvent, error)
	ListByIdentity(ctx context.Context, identity string, limit int) ([]LoginEvent, error)
}

// PostgresLoginHistoryRepository implements LoginHistoryRepository using
// PostgreSQL.
type PostgresLoginHistoryRepository struct {
	db *pgxpool.Pool
}

// NewPostgresLoginHistoryRepository creates a new PostgreSQL-based login
// history repository.
func NewPostgresLoginHistoryRepository(db *pgxpool.Pool) *PostgresLoginHistoryRepository {
	return &PostgresLoginHistoryRepository{db: db}
}

func (r *PostgresLoginHistoryRepository) Record(ctx context.Context, params RecordEventParams) (LoginEvent, error) {
	query := `
		INSERT INTO login_history (identity, browser, os, device_type, ip_address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, identity, browser, os, device_type, ip_address, created_at
	`

	var event LoginEvent
	err := r.db.QueryRow(ctx, query,
		params.Identity, params.Browser, params.OS, params.DeviceType, params.IPAddress,
	).Scan(
		&event.ID,
		&event.Identity,
		&event.Browser,
		&event.OS,
		&event.DeviceType,
		&event.IPAddress,
		&event.CreatedAt,
	)
	if err != nil {
		return LoginEvent{}, fmt.Errorf("failed to record login event: %w", err)
	}

	return event, nil
}

func (r *PostgresLoginHistoryRepository) ListByIdentity(ctx context.Context, identity string, limit int) ([]LoginEvent, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, identity, browser, os, device_type, ip_address, created_at
		FROM login_history
		WHERE identity = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list login events: %w", err)
	}
	defer rows.Close()

	var events []LoginEvent
	for rows.Next() {
		var event LoginEvent
		if err := rows.Scan(
			&event.ID,
			&event.Identity,
			&event.Browser,
			&event.OS,
			&event.DeviceType,
			&event.IPAddress,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan login event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list login events: %w", err)
	}

	return events, nil
}
