package otp

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig contains configuration for creating a code repository.
type RepositoryConfig struct {
	// Pool is required for PostgreSQL repositories
	Pool *pgxpool.Pool
}

// NewOtpRepository creates a code repository based on the persistence type.
func NewOtpRepository(persistenceType string, config RepositoryConfig) (OtpRepository, error) {
	switch persistenceType {
	case "postgres", "postgresql":
		if config.Pool == nil {
			return nil, fmt.Errorf("pool required for postgres repository")
		}
		return NewPostgresOtpRepository(config.Pool), nil
	case "memory":
		return NewMemoryOtpRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported persistence type: %s (supported: postgres, memory)", persistenceType)
	}
}
