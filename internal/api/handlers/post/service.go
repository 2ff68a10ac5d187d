package post

import (
	"context"

	"Postdeck/internal/core/posts"
)

// Service is the collection as seen by the HTTP handlers
type Service interface {
	List(ctx context.Context, limit, skip int) (*posts.Page, error)
	Search(ctx context.Context, query string) (*posts.Page, error)
	Get(ctx context.Context, id int) (*posts.Post, error)
	Create(ctx context.Context, input posts.CreatePostInput) (*posts.Post, error)
	Update(ctx context.Context, id int, input posts.UpdatePostInput) (*posts.Post, error)
	Delete(ctx context.Context, id int) (*posts.DeletedPost, error)
}

// maxBodyBytes bounds create and update request bodies
const maxBodyBytes = 100 * 1024
