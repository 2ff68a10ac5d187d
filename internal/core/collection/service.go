// Package collection is the server side of the post collection: validation,
// paging rules and authentication for the bundled collection server.
package collection

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"Postdeck/internal/core/posts"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rivo/uniseg"
)

// Limits enforced on writes
const (
	DefaultListLimit = 30
	MaxListLimit     = 100
	MaxTitleLength   = 200   // grapheme clusters
	MaxBodyLength    = 10000 // grapheme clusters
	MaxTags          = 10
	MaxTagLength     = 50 // grapheme clusters
)

// Service implements the collection operations on top of a Store
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	policy *bluemonday.Policy
}

// NewService creates a collection service. logger may be nil.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		policy: bluemonday.StrictPolicy(),
	}
}

// plainText strips markup. Posts are plain text; the policy escapes entities, which are turned back into text.
func (s *Service) plainText(value string) string {
	return html.UnescapeString(s.policy.Sanitize(value))
}

func (s *Service) plainTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = strings.TrimSpace(s.plainText(tag))
	}
	return out
}

// List returns one page. A zero limit means the default page size; limits above
// MaxListLimit are capped and a negative skip starts at the beginning.
func (s *Service) List(ctx context.Context, limit, skip int) (*posts.Page, error) {
	limit = clampLimit(limit)
	if skip < 0 {
		skip = 0
	}

	items, total, err := s.store.List(ctx, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &posts.Page{
		Posts: items,
		Total: total,
		Skip:  skip,
		Limit: limit,
	}, nil
}

// Search returns all matches in a single page
func (s *Service) Search(ctx context.Context, query string) (*posts.Page, error) {
	query = strings.TrimSpace(query)

	items, err := s.store.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}

	return &posts.Page{
		Posts: items,
		Total: len(items),
		Skip:  0,
		Limit: len(items),
	}, nil
}

// Get returns one post
func (s *Service) Get(ctx context.Context, id int) (*posts.Post, error) {
	if id <= 0 {
		return nil, fmt.Errorf("post %d: %w", id, posts.ErrNotFound)
	}
	return s.store.Get(ctx, id)
}

// Create validates and stores a new post
func (s *Service) Create(ctx context.Context, input posts.CreatePostInput) (*posts.Post, error) {
	input.Title = strings.TrimSpace(s.plainText(input.Title))
	input.Body = s.plainText(input.Body)
	input.Tags = s.plainTags(input.Tags)
	if input.Title == "" {
		return nil, posts.NewValidationError("title", "title is required")
	}
	if err := validateText("title", input.Title, MaxTitleLength); err != nil {
		return nil, err
	}
	if err := validateText("body", input.Body, MaxBodyLength); err != nil {
		return nil, err
	}
	if err := validateTags(input.Tags); err != nil {
		return nil, err
	}
	if input.UserID <= 0 {
		return nil, posts.NewValidationError("userId", "userId must be positive")
	}

	created, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("[COLLECTION] post created", "id", created.ID, "user_id", created.UserID)
	return created, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id int, input posts.UpdatePostInput) (*posts.Post, error) {
	if input.IsEmpty() {
		return nil, posts.NewValidationError("", "no fields to update")
	}
	input.Tags = s.plainTags(input.Tags)
	if input.Body != nil {
		body := s.plainText(*input.Body)
		input.Body = &body
	}
	if input.Title != nil {
		title := strings.TrimSpace(s.plainText(*input.Title))
		if title == "" {
			return nil, posts.NewValidationError("title", "title cannot be empty")
		}
		if err := validateText("title", title, MaxTitleLength); err != nil {
			return nil, err
		}
		input.Title = &title
	}
	if input.Body != nil {
		if err := validateText("body", *input.Body, MaxBodyLength); err != nil {
			return nil, err
		}
	}
	if err := validateTags(input.Tags); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("post %d: %w", id, posts.ErrNotFound)
	}

	updated, err := s.store.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("[COLLECTION] post updated", "id", id)
	return updated, nil
}

// Delete removes a post and returns the deletion receipt
func (s *Service) Delete(ctx context.Context, id int) (*posts.DeletedPost, error) {
	if id <= 0 {
		return nil, fmt.Errorf("post %d: %w", id, posts.ErrNotFound)
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("[COLLECTION] post deleted", "id", id)
	return &posts.DeletedPost{
		Post:      *deleted,
		IsDeleted: true,
		DeletedOn: s.now().UTC(),
	}, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// validateText counts user-perceived characters, so emoji and combining marks count once
func validateText(field, value string, max int) error {
	if n := uniseg.GraphemeClusterCount(value); n > max {
		return posts.NewValidationError(field, fmt.Sprintf("%s must be at most %d characters, got %d", field, max, n))
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > MaxTags {
		return posts.NewValidationError("tags", fmt.Sprintf("at most %d tags allowed", MaxTags))
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return posts.NewValidationError("tags", "tags cannot be empty")
		}
		if err := validateText("tags", tag, MaxTagLength); err != nil {
			return err
		}
	}
	return nil
}
