package posts

import "context"

// Repository is the remote post collection as seen by the client.
// Every method is a single round trip with no local retry and no side effects beyond the request.
// Implementations hold no post state.
type Repository interface {
	// ListPosts returns one browse page starting at skip
	ListPosts(ctx context.Context, limit, skip int) (*Page, error)

	// SearchPosts returns every match for query in a single page.
	// The server does not paginate search results for this client.
	SearchPosts(ctx context.Context, query string) (*Page, error)

	// GetPost returns ErrNotFound if the server has no post with this id
	GetPost(ctx context.Context, id int) (*Post, error)

	// CreatePost returns the created post with its server-assigned id
	CreatePost(ctx context.Context, input CreatePostInput) (*Post, error)

	// UpdatePost sends a partial update and returns the full merged post
	UpdatePost(ctx context.Context, id int, input UpdatePostInput) (*Post, error)

	// DeletePost returns the deleted entity as echoed by the server
	DeletePost(ctx context.Context, id int) (*DeletedPost, error)
}

// Session reports the authenticated user, if any.
// Mutations are refused locally when no user is authenticated.
type Session interface {
	UserID() (int, bool)
}
