package postlist

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"Postdeck/internal/core/posts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockRepository is a testify mock of posts.Repository
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) ListPosts(ctx context.Context, limit, skip int) (*posts.Page, error) {
	args := m.Called(ctx, limit, skip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Page), args.Error(1)
}

func (m *mockRepository) SearchPosts(ctx context.Context, query string) (*posts.Page, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Page), args.Error(1)
}

func (m *mockRepository) GetPost(ctx context.Context, id int) (*posts.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

func (m *mockRepository) CreatePost(ctx context.Context, input posts.CreatePostInput) (*posts.Post, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

func (m *mockRepository) UpdatePost(ctx context.Context, id int, input posts.UpdatePostInput) (*posts.Post, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

func (m *mockRepository) DeletePost(ctx context.Context, id int) (*posts.DeletedPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.DeletedPost), args.Error(1)
}

// fakeSession reports a fixed user
type fakeSession struct {
	userID int
	ok     bool
}

func (s fakeSession) UserID() (int, bool) {
	return s.userID, s.ok
}

// fakeRecorder records command outcomes
type fakeRecorder struct {
	outcomes  map[string][]string
	cacheSize int
	mu        sync.Mutex
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{outcomes: make(map[string][]string)}
}

func (r *fakeRecorder) RecordCommand(command, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[command] = append(r.outcomes[command], outcome)
}

func (r *fakeRecorder) RecordCacheSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cacheSize = n
}

func (r *fakeRecorder) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheSize
}

func (r *fakeRecorder) get(command string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.outcomes[command]...)
}

// gate blocks a mocked call until released
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) run(mock.Arguments) {
	close(g.started)
	<-g.release
}

func (g *gate) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-g.started:
	case <-time.After(2 * time.Second):
		t.Fatal("request was never issued")
	}
}

// makePosts returns n posts with ids from, from+1, ...
func makePosts(from, n int) []posts.Post {
	out := make([]posts.Post, 0, n)
	for i := 0; i < n; i++ {
		id := from + i
		out = append(out, posts.Post{
			ID:     id,
			Title:  fmt.Sprintf("Post %d", id),
			Body:   fmt.Sprintf("Body of post %d", id),
			Tags:   []string{"history"},
			UserID: 1,
			Views:  id * 10,
		})
	}
	return out
}

func page(items []posts.Post, total, skip, limit int) *posts.Page {
	return &posts.Page{Posts: items, Total: total, Skip: skip, Limit: limit}
}

func ids(list []posts.Post) []int {
	out := make([]int, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func newTestEngine(t *testing.T, repo posts.Repository, session posts.Session) (*Engine, *fakeRecorder) {
	t.Helper()
	rec := newFakeRecorder()
	e, err := NewEngine(repo, session, DefaultConfig(), rec, nil)
	require.NoError(t, err)
	return e, rec
}

// loadedEngine returns an engine holding the first browse page of a 25 post collection
func loadedEngine(t *testing.T, repo *mockRepository, session posts.Session) *Engine {
	t.Helper()
	repo.On("ListPosts", mock.Anything, 10, 0).Return(page(makePosts(1, 10), 25, 0, 10), nil).Once()
	e, _ := newTestEngine(t, repo, session)
	_, err := e.LoadBrowsePage(context.Background())
	require.NoError(t, err)
	return e
}

// assertListInvariants checks the properties every settled list must hold
func assertListInvariants(t *testing.T, snap ListSnapshot) {
	t.Helper()

	seen := make(map[int]bool)
	for _, p := range snap.Posts {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}

	if !snap.Settled() {
		return
	}
	assert.GreaterOrEqual(t, snap.Total, 0)
	if snap.IsSearching {
		assert.False(t, snap.HasMore, "search results are never paginated")
		return
	}
	assert.Equal(t, len(snap.Posts), snap.Skip, "skip must match the number of loaded posts")
	if len(snap.Posts) == 0 && snap.Total == 0 {
		// A reset cursor keeps hasMore=true until a page lands
		return
	}
	assert.Equal(t, len(snap.Posts) < snap.Total, snap.HasMore, "hasMore must follow posts/total")
}

func TestNewEngine(t *testing.T) {
	t.Run("requires a repository", func(t *testing.T) {
		_, err := NewEngine(nil, nil, DefaultConfig(), nil, nil)
		assert.ErrorIs(t, err, ErrNilRepository)
	})

	t.Run("rejects invalid page size", func(t *testing.T) {
		_, err := NewEngine(&mockRepository{}, nil, Config{PageSize: 0}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("initial state", func(t *testing.T) {
		e, err := NewEngine(&mockRepository{}, nil, DefaultConfig(), nil, nil)
		require.NoError(t, err)

		snap := e.Snapshot()
		assert.NotNil(t, snap.Posts)
		assert.Empty(t, snap.Posts)
		assert.Equal(t, 0, snap.Skip)
		assert.Equal(t, 10, snap.Limit)
		assert.Equal(t, 0, snap.Total)
		assert.True(t, snap.HasMore)
		assert.False(t, snap.IsSearching)
		assert.Empty(t, snap.SearchTerm)
		assert.False(t, snap.Loading)
		assert.False(t, snap.LoadingMore)
		assert.Empty(t, snap.Error)
		assert.Equal(t, ModeBrowsing, snap.Mode())

		item := e.Current()
		assert.Nil(t, item.CurrentPost)
		assert.Nil(t, item.Editing)
	})

	t.Run("page size comes from config", func(t *testing.T) {
		e, err := NewEngine(&mockRepository{}, nil, Config{PageSize: 25}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 25, e.Snapshot().Limit)
	})
}

func TestSnapshot_IsACopy(t *testing.T) {
	repo := &mockRepository{}
	e := loadedEngine(t, repo, nil)

	snap := e.Snapshot()
	snap.Posts[0].Title = "changed"
	snap.Posts[0].Tags[0] = "changed"
	snap.Posts = snap.Posts[:1]

	again := e.Snapshot()
	require.Len(t, again.Posts, 10)
	assert.Equal(t, "Post 1", again.Posts[0].Title)
	assert.Equal(t, []string{"history"}, again.Posts[0].Tags)
}

func TestSubscribe(t *testing.T) {
	repo := &mockRepository{}
	repo.On("ListPosts", mock.Anything, 10, 0).Return(page(makePosts(1, 10), 25, 0, 10), nil)

	e, _ := newTestEngine(t, repo, nil)
	updates, cancel := e.Subscribe()

	_, err := e.LoadBrowsePage(context.Background())
	require.NoError(t, err)

	// Only the latest snapshot is kept for a reader that fell behind
	select {
	case snap := <-updates:
		assert.Len(t, snap.Posts, 10)
		assert.False(t, snap.Loading)
	default:
		t.Fatal("expected a snapshot")
	}

	select {
	case <-updates:
		t.Fatal("expected no further snapshot")
	default:
	}

	cancel()
	cancel()

	_, ok := <-updates
	assert.False(t, ok, "channel must be closed after cancel")

	// Changes after cancel must not panic
	_, err = e.LoadBrowsePage(context.Background())
	require.NoError(t, err)
}
