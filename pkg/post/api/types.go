package api

import "time"

// PublishAudioRequest is the body for POST /api/posts/audio. The client
// uploads the audio to storage first and submits its URL plus the measured
// size and duration.
type PublishAudioRequest struct {
	Content         string  `json:"content"`
	AudioURL        string  `json:"audio_url"`
	SizeBytes       int64   `json:"size_bytes"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// PostResponse is the public view of a published post.
type PostResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	AudioURL  string    `json:"audio_url"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse is a generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
