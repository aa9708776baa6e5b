package post

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chirper-app/gatekit/pkg/account"
	"github.com/chirper-app/gatekit/pkg/otp"
	"github.com/chirper-app/gatekit/pkg/verification"
)

// PostService publishes audio posts under the audio-post verification grant.
type PostService struct {
	posts    PostRepository
	accounts account.AccountRepository
	flow     *verification.FlowService
}

// NewPostService creates a new post service.
func NewPostService(posts PostRepository, accounts account.AccountRepository, flow *verification.FlowService) *PostService {
	return &PostService{
		posts:    posts,
		accounts: accounts,
		flow:     flow,
	}
}

// PublishAudioParams carries an audio publish request keyed by the author's
// identity rather than account id.
type PublishAudioParams struct {
	Identity        string
	Content         string
	AudioURL        string
	SizeBytes       int64
	DurationSeconds float64
}

// PublishAudio persists the post under the author's live grant. Validation
// and persistence failures surface as errors and leave the grant usable, so
// the author can retry without requesting a fresh code.
func (s *PostService) PublishAudio(ctx context.Context, params PublishAudioParams) (Post, error) {
	var published Post
	err := s.flow.Perform(ctx, params.Identity, otp.PurposeAudioPost, func(ctx context.Context) error {
		acct, err := s.accounts.GetByEmail(ctx, params.Identity)
		if err != nil {
			return err
		}

		createParams := CreateAudioPostParams{
			AuthorID:        acct.ID,
			Content:         params.Content,
			AudioURL:        params.AudioURL,
			SizeBytes:       params.SizeBytes,
			DurationSeconds: params.DurationSeconds,
		}
		if err := createParams.Validate(); err != nil {
			slog.Warn("Audio post rejected", "identity", params.Identity, "error", err)
			return err
		}

		published, err = s.posts.CreateAudioPost(ctx, createParams)
		if err != nil {
			slog.Error("Failed to persist audio post", "identity", params.Identity, "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return Post{}, err
	}

	slog.Info("Audio post published", "identity", params.Identity, "post_id", published.ID)
	return published, nil
}

// ListByAuthor returns the author's most recent posts.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]Post, error) {
	return s.posts.ListByAuthor(ctx, authorID, limit)
}
