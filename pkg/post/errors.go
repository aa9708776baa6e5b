package post

import "errors"

var (
	// ErrAudioMissing is returned when a publish request has no audio URL.
	ErrAudioMissing = errors.New("audio file is required")

	// ErrAudioTooLarge is returned when the upload exceeds 100 MB.
	ErrAudioTooLarge = errors.New("audio file exceeds the 100 MB limit")

	// ErrAudioTooLong is returned when the recording exceeds 5 minutes.
	ErrAudioTooLong = errors.New("audio recording exceeds the 5 minute limit")
)
