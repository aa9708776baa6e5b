package config

import "time"

// JwtConfig holds access token signing configuration.
type JwtConfig struct {
	Secret      string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer      string `env:"JWT_ISSUER" env-default:"gatekit"`
	Audience    string `env:"JWT_AUDIENCE" env-default:"gatekit"`
	TokenExpiry string `env:"JWT_TOKEN_EXPIRY" env-default:"PT24H"`
}

// NewJwtConfigFromEnv creates a JwtConfig from environment variables.
func NewJwtConfigFromEnv() JwtConfig {
	return JwtConfig{
		Secret:      GetEnvOrDefault("JWT_SECRET", "very-secure-jwt-secret"),
		Issuer:      GetEnvOrDefault("JWT_ISSUER", "gatekit"),
		Audience:    GetEnvOrDefault("JWT_AUDIENCE", "gatekit"),
		TokenExpiry: GetEnvOrDefault("JWT_TOKEN_EXPIRY", "PT24H"),
	}
}

// TokenExpiryDuration parses the configured token lifetime.
func (j JwtConfig) TokenExpiryDuration() (time.Duration, error) {
	return ParseDuration(j.TokenExpiry)
}
