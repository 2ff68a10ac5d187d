package collection

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"Postdeck/internal/core/posts"
)

// MemoryStore is an in-memory Store used when no database is configured
type MemoryStore struct {
	posts  map[int]posts.Post
	nextID int
	mu     sync.RWMutex
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:  make(map[int]posts.Post),
		nextID: 1,
	}
}

func (s *MemoryStore) List(ctx context.Context, limit, skip int) ([]posts.Post, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedIDs()
	total := len(ids)
	if skip >= total {
		return []posts.Post{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}

	out := make([]posts.Post, 0, end-skip)
	for _, id := range ids[skip:end] {
		out = append(out, s.posts[id].Clone())
	}
	return out, total, nil
}

func (s *MemoryStore) Search(ctx context.Context, query string) ([]posts.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	out := []posts.Post{}
	for _, id := range s.sortedIDs() {
		p := s.posts[id]
		if strings.Contains(strings.ToLower(p.Title), needle) || strings.Contains(strings.ToLower(p.Body), needle) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int) (*posts.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, posts.ErrNotFound)
	}
	c := p.Clone()
	return &c, nil
}

func (s *MemoryStore) Create(ctx context.Context, input posts.CreatePostInput) (*posts.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := posts.NormalizeCreated(posts.Post{
		ID:     s.nextID,
		Title:  input.Title,
		Body:   input.Body,
		Tags:   append([]string(nil), input.Tags...),
		UserID: input.UserID,
	})
	s.nextID++
	s.posts[p.ID] = p

	c := p.Clone()
	return &c, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int, input posts.UpdatePostInput) (*posts.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, posts.ErrNotFound)
	}
	if input.Title != nil {
		p.Title = *input.Title
	}
	if input.Body != nil {
		p.Body = *input.Body
	}
	if input.Tags != nil {
		p.Tags = append([]string{}, input.Tags...)
	}
	s.posts[id] = p

	c := p.Clone()
	return &c, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int) (*posts.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, posts.ErrNotFound)
	}
	delete(s.posts, id)
	return &p, nil
}

// sortedIDs must be called with the lock held
func (s *MemoryStore) sortedIDs() []int {
	ids := make([]int, 0, len(s.posts))
	for id := range s.posts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
