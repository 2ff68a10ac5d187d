package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"Postdeck/internal/core/posts"
	"Postdeck/internal/db/migrations"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPostTestDB connects to TEST_DATABASE_URL, runs migrations and empties the posts table
func setupPostTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL tests")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(db), "Failed to run migrations")

	_, err = db.Exec("TRUNCATE posts RESTART IDENTITY")
	require.NoError(t, err)

	return db
}

func TestPostStore_CRUD(t *testing.T) {
	db := setupPostTestDB(t)
	store := NewPostStore(db)
	ctx := context.Background()

	created, err := store.Create(ctx, posts.CreatePostInput{Title: "Hello", Body: "World", Tags: []string{"a", "b"}, UserID: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, []string{"a", "b"}, created.Tags)
	assert.Zero(t, created.Views)

	noTags, err := store.Create(ctx, posts.CreatePostInput{Title: "Second", UserID: 5})
	require.NoError(t, err)
	assert.NotNil(t, noTags.Tags)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	title := "Hello again"
	updated, err := store.Update(ctx, created.ID, posts.UpdatePostInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Title)
	assert.Equal(t, "World", updated.Body)
	assert.Equal(t, []string{"a", "b"}, updated.Tags)

	updated, err = store.Update(ctx, created.ID, posts.UpdatePostInput{Tags: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	items, total, err := store.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, noTags.ID, items[0].ID)

	deleted, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", deleted.Title)

	_, err = store.Get(ctx, created.ID)
	assert.True(t, posts.IsNotFound(err))
	_, err = store.Delete(ctx, created.ID)
	assert.True(t, posts.IsNotFound(err))
	_, err = store.Update(ctx, created.ID, posts.UpdatePostInput{Title: &title})
	assert.True(t, posts.IsNotFound(err))
}

func TestPostStore_Search(t *testing.T) {
	db := setupPostTestDB(t)
	store := NewPostStore(db)
	ctx := context.Background()

	for _, in := range []posts.CreatePostInput{
		{Title: "Love story", Body: "x", UserID: 1},
		{Title: "War", Body: "and LOVE", UserID: 1},
		{Title: "100% sure", Body: "y", UserID: 1},
		{Title: "Other", Body: "z", UserID: 1},
	} {
		_, err := store.Create(ctx, in)
		require.NoError(t, err)
	}

	found, err := store.Search(ctx, "love")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	// Wildcards are matched literally
	found, err = store.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% sure", found[0].Title)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
