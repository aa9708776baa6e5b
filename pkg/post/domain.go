// Package post stores audio posts. Publishing one is a guarded action: the
// author must hold a live audio-post verification grant.
package post

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxAudioSizeBytes caps uploads at 100 MB.
	MaxAudioSizeBytes = 100 * 1024 * 1024

	// MaxAudioDurationSeconds caps recordings at 5 minutes.
	MaxAudioDurationSeconds = 300
)

// Post is a published audio post.
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	AudioURL  string
	CreatedAt time.Time
}

// CreateAudioPostParams carries a publish request. SizeBytes and
// DurationSeconds describe the uploaded audio and are validated against the
// caps before anything is persisted.
type CreateAudioPostParams struct {
	AuthorID        uuid.UUID
	Content         string
	AudioURL        string
	SizeBytes       int64
	DurationSeconds float64
}

// Validate checks the audio limits.
func (p CreateAudioPostParams) Validate() error {
	if p.AudioURL == "" {
		return ErrAudioMissing
	}
	if p.SizeBytes > MaxAudioSizeBytes {
		return ErrAudioTooLarge
	}
	if p.DurationSeconds > MaxAudioDurationSeconds {
		return ErrAudioTooLong
	}
	return nil
}
