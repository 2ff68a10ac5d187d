package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"Postdeck/internal/core/collection"
	"Postdeck/internal/core/posts"

	"github.com/lib/pq"
)

type postgresPostStore struct {
	db *sql.DB
}

// NewPostStore creates a PostgreSQL-backed collection store
func NewPostStore(db *sql.DB) collection.Store {
	return &postgresPostStore{db: db}
}

const postColumns = `id, title, body, tags, likes, dislikes, views, user_id`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var (
		p    posts.Post
		tags pq.StringArray
	)
	err := row.Scan(&p.ID, &p.Title, &p.Body, &tags, &p.Reactions.Likes, &p.Reactions.Dislikes, &p.Views, &p.UserID)
	if err != nil {
		return nil, err
	}
	p.Tags = []string(tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

// List returns one page in ascending id order plus the collection size
func (r *postgresPostStore) List(ctx context.Context, limit, skip int) ([]posts.Post, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `SELECT ` + postColumns + ` FROM posts ORDER BY id ASC LIMIT $1 OFFSET $2`
	items, err := r.query(ctx, query, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return items, total, nil
}

// Search matches title or body case-insensitively
func (r *postgresPostStore) Search(ctx context.Context, q string) ([]posts.Post, error) {
	pattern := "%" + escapeLike(q) + "%"
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE title ILIKE $1 OR body ILIKE $1
		ORDER BY id ASC`

	items, err := r.query(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	return items, nil
}

func (r *postgresPostStore) Get(ctx context.Context, id int) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, posts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

func (r *postgresPostStore) Create(ctx context.Context, input posts.CreatePostInput) (*posts.Post, error) {
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO posts (title, body, tags, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + postColumns

	p, err := scanPost(r.db.QueryRowContext(ctx, query, input.Title, input.Body, pq.Array(tags), input.UserID))
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return p, nil
}

// Update only touches the columns whose input field is set
func (r *postgresPostStore) Update(ctx context.Context, id int, input posts.UpdatePostInput) (*posts.Post, error) {
	var tags any
	if input.Tags != nil {
		tags = pq.Array(input.Tags)
	}

	query := `
		UPDATE posts SET
			title = COALESCE($2, title),
			body = COALESCE($3, body),
			tags = COALESCE($4::TEXT[], tags),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id, nullString(input.Title), nullString(input.Body), tags))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, posts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return p, nil
}

func (r *postgresPostStore) Delete(ctx context.Context, id int) (*posts.Post, error) {
	query := `DELETE FROM posts WHERE id = $1 RETURNING ` + postColumns

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, posts.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}
	return p, nil
}

func (r *postgresPostStore) query(ctx context.Context, query string, args ...any) ([]posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	out := []posts.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// escapeLike escapes LIKE wildcards so the query matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
