package post

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostRepository defines the storage operations for posts.
type PostRepository interface {
	CreateAudioPost(ctx context.Context, params CreateAudioPostParams) (Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]Post, error)
}

// PostgresPostRepository implements PostRepository using PostgreSQL.
type PostgresPostRepository struct {
	db *pgxpool.Pool
}

// NewPostgresPostRepository creates a new PostgreSQL-based post repository.
func NewPostgresPostRepository(db *pgxpool.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreateAudioPost(ctx context.Context, params CreateAudioPostParams) (Post, error) {
	query := `
		INSERT INTO posts (author_id, content, audio_url)
		VALUES ($1, $2, $3)
		RETURNING id, author_id, content, audio_url, created_at
	`

	var post Post
	err := r.db.QueryRow(ctx, query, params.AuthorID, params.Content, params.AudioURL).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Content,
		&post.AudioURL,
		&post.CreatedAt,
	)
	if err != nil {
		return Post{}, fmt.Errorf("failed to create audio post: %w", err)
	}

	return post, nil
}

func (r *PostgresPostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]Post, error) {
	query := `
		SELECT id, author_id, content, audio_url, created_at
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.Content, &post.AudioURL, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}
