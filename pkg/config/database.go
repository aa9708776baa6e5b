package config

import "fmt"

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"GATE_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"GATE_PG_PORT" env-default:"5432"`
	Database string `env:"GATE_PG_DATABASE" env-default:"gate_db"`
	User     string `env:"GATE_PG_USER" env-default:"gate"`
	Password string `env:"GATE_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"GATE_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL.
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// NewDatabaseConfigFromEnv creates a DatabaseConfig from environment variables.
func NewDatabaseConfigFromEnv() DatabaseConfig {
	return DatabaseConfig{
		Host:     GetEnvOrDefault("GATE_PG_HOST", "localhost"),
		Port:     GetEnvUint16("GATE_PG_PORT", 5432),
		Database: GetEnvOrDefault("GATE_PG_DATABASE", "gate_db"),
		User:     GetEnvOrDefault("GATE_PG_USER", "gate"),
		Password: GetEnvOrDefault("GATE_PG_PASSWORD", "pwd"),
		Schema:   GetEnvOrDefault("GATE_PG_SCHEMA", "public"),
	}
}
