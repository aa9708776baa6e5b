// Package config centralizes environment-driven configuration for the gate
// service: database, SMTP, JWT, and the verification gate settings (code
// expiry, time windows, timezone offset).
package config
