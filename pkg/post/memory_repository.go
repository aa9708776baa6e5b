package post

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryPostRepository implements PostRepository with an in-memory slice.
// Used by tests and local demos.
type MemoryPostRepository struct {
	mutex sync.RWMutex
	posts []Post

	// FailWith, when set, makes CreateAudioPost fail. Tests use it to show
	// that a failed publish leaves the verification grant intact.
	FailWith error
}

// NewMemoryPostRepository creates a new in-memory post repository.
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{}
}

func (r *MemoryPostRepository) CreateAudioPost(ctx context.Context, params CreateAudioPostParams) (Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.FailWith != nil {
		return Post{}, r.FailWith
	}

	post := Post{
		ID:        uuid.New(),
		AuthorID:  params.AuthorID,
		Content:   params.Content,
		AudioURL:  params.AudioURL,
		CreatedAt: time.Now().UTC(),
	}
	r.posts = append(r.posts, post)

	return post, nil
}

func (r *MemoryPostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]Post, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var posts []Post
	for _, post := range r.posts {
		if post.AuthorID == authorID {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	return posts, nil
}
