package config

import (
	"time"

	"github.com/chirper-app/gatekit/pkg/timewindow"
)

// GateConfig holds the verification gate settings: code lifetime, the time
// windows each purpose is restricted to, and the fixed timezone offset those
// windows are evaluated in.
type GateConfig struct {
	// CodeExpiry accepts ISO 8601 ("PT10M") or Go ("10m") durations.
	CodeExpiry string `env:"GATE_CODE_EXPIRY" env-default:"PT10M"`

	GrantExpiry string `env:"GATE_GRANT_EXPIRY" env-default:"PT10M"`

	// TzOffsetMinutes is the fixed offset windows are evaluated in.
	// 330 is IST (+5:30).
	TzOffsetMinutes int `env:"GATE_TZ_OFFSET_MINUTES" env-default:"330"`

	LoginWindow string `env:"GATE_LOGIN_WINDOW" env-default:"10:00-13:00"`
	AudioWindow string `env:"GATE_AUDIO_WINDOW" env-default:"14:00-19:00"`

	// Per-identity code request limiting.
	IssueBurst     int     `env:"GATE_ISSUE_BURST" env-default:"5"`
	IssuePerMinute float64 `env:"GATE_ISSUE_PER_MINUTE" env-default:"1"`
}

// NewGateConfigFromEnv creates a GateConfig from environment variables.
func NewGateConfigFromEnv() GateConfig {
	return GateConfig{
		CodeExpiry:      GetEnvOrDefault("GATE_CODE_EXPIRY", "PT10M"),
		GrantExpiry:     GetEnvOrDefault("GATE_GRANT_EXPIRY", "PT10M"),
		TzOffsetMinutes: GetEnvInt("GATE_TZ_OFFSET_MINUTES", 330),
		LoginWindow:     GetEnvOrDefault("GATE_LOGIN_WINDOW", "10:00-13:00"),
		AudioWindow:     GetEnvOrDefault("GATE_AUDIO_WINDOW", "14:00-19:00"),
		IssueBurst:      GetEnvInt("GATE_ISSUE_BURST", 5),
		IssuePerMinute:  GetEnvFloat("GATE_ISSUE_PER_MINUTE", 1),
	}
}

// TzOffset returns the window offset as a duration.
func (g GateConfig) TzOffset() time.Duration {
	return time.Duration(g.TzOffsetMinutes) * time.Minute
}

// CodeExpiryDuration parses the configured code lifetime.
func (g GateConfig) CodeExpiryDuration() (time.Duration, error) {
	return ParseDuration(g.CodeExpiry)
}

// GrantExpiryDuration parses the configured grant lifetime.
func (g GateConfig) GrantExpiryDuration() (time.Duration, error) {
	return ParseDuration(g.GrantExpiry)
}

// LoginWindowPolicy parses the mobile-login window.
func (g GateConfig) LoginWindowPolicy() (timewindow.Policy, error) {
	return timewindow.Parse(g.LoginWindow, g.TzOffset())
}

// AudioWindowPolicy parses the audio-post window.
func (g GateConfig) AudioWindowPolicy() (timewindow.Policy, error) {
	return timewindow.Parse(g.AudioWindow, g.TzOffset())
}
