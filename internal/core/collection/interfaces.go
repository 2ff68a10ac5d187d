package collection

import (
	"context"

	"Postdeck/internal/core/posts"
)

// Store persists the post collection.
// Missing posts are reported as posts.ErrNotFound.
type Store interface {
	// List returns one page in ascending id order plus the collection size
	List(ctx context.Context, limit, skip int) ([]posts.Post, int, error)

	// Search returns every post whose title or body contains query, case-insensitively
	Search(ctx context.Context, query string) ([]posts.Post, error)

	Get(ctx context.Context, id int) (*posts.Post, error)

	// Create assigns the next id
	Create(ctx context.Context, input posts.CreatePostInput) (*posts.Post, error)

	// Update applies the non-nil fields of input
	Update(ctx context.Context, id int, input posts.UpdatePostInput) (*posts.Post, error)

	// Delete removes the post and returns it as it was
	Delete(ctx context.Context, id int) (*posts.Post, error)
}
