package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"Postdeck/internal/api/routes"
	"Postdeck/internal/core/collection"
	"Postdeck/internal/core/postlist"
	"Postdeck/internal/core/posts"
	"Postdeck/internal/core/session"
	"Postdeck/internal/remote/postsapi"
)

func TestParseCreate(t *testing.T) {
	input, err := parseCreate("Hello | World | go, testing ,")
	require.NoError(t, err)
	assert.Equal(t, "Hello", input.Title)
	assert.Equal(t, "World", input.Body)
	assert.Equal(t, []string{"go", "testing"}, input.Tags)

	input, err = parseCreate("Only a title")
	require.NoError(t, err)
	assert.Equal(t, "Only a title", input.Title)
	assert.Empty(t, input.Body)
	assert.NotNil(t, input.Tags)

	_, err = parseCreate(" |body")
	assert.Error(t, err)
}

func TestParseUpdate(t *testing.T) {
	input, err := parseUpdate("New title")
	require.NoError(t, err)
	require.NotNil(t, input.Title)
	assert.Equal(t, "New title", *input.Title)
	assert.Nil(t, input.Body)
	assert.Nil(t, input.Tags)

	input, err = parseUpdate("|new body|-")
	require.NoError(t, err)
	assert.Nil(t, input.Title)
	require.NotNil(t, input.Body)
	assert.Equal(t, "new body", *input.Body)
	assert.NotNil(t, input.Tags)
	assert.Empty(t, input.Tags)

	_, err = parseUpdate("||")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

// newTestShell runs a collection server in-process and wires a shell to it the way main does
func newTestShell(t *testing.T, seed int) (*shell, *bytes.Buffer) {
	t.Helper()

	store := collection.NewMemoryStore()
	require.NoError(t, collection.Seed(context.Background(), store, seed))
	users := collection.NewUsers(bcrypt.MinCost)
	require.NoError(t, users.Add(posts.AuthUser{ID: 1, Username: "emilys"}, "emilyspass"))
	tokens := collection.NewTokens([]byte("test-secret-0123456789"), time.Hour)

	router := routes.NewRouter(routes.RouterConfig{
		Posts:              collection.NewService(store, nil),
		Auth:               collection.NewAuthService(users, tokens, nil),
		Verifier:           tokens,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 1000,
	})
	t.Cleanup(router.Close)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	cfg := postsapi.DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 100

	loginClient, err := postsapi.NewClient(cfg, nil, nil, nil)
	require.NoError(t, err)
	sess := session.New(loginClient, nil)
	client, err := postsapi.NewClient(cfg, sess, nil, nil)
	require.NoError(t, err)
	engine, err := postlist.NewEngine(client, sess, postlist.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return newShell(engine, sess, out), out
}

func TestShell_Session(t *testing.T) {
	sh, out := newTestShell(t, 12)

	script := strings.Join([]string{
		"browse",
		"more",
		"create Fresh post|hello|misc",
		"login emilys emilyspass",
		"create Fresh post|hello|misc",
		"edit 13",
		"update 13 Fresher post",
		"search fresher",
		"delete 13",
		"clear",
		"bogus",
		"quit",
		"show",
	}, "\n")

	err := sh.run(context.Background(), strings.NewReader(script))
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "showing 10 of 12 (more available)")
	assert.Contains(t, got, "showing 12 of 12")
	assert.Contains(t, got, "error: log in first")
	assert.Contains(t, got, "logged in as emilys (id 1)")
	assert.Contains(t, got, "created #13")
	assert.Contains(t, got, "editing #13: Fresh post|hello|misc")
	assert.Contains(t, got, "updated #13")
	assert.Contains(t, got, `search "fresher": 1 result(s)`)
	assert.Contains(t, got, "deleted #13")
	assert.Contains(t, got, `unknown command "bogus"`)

	// quit stops before show, so the final list printed is the one from clear
	assert.True(t, strings.HasSuffix(strings.TrimSpace(got), ">"), "expected output to end at the quit prompt")
}

func TestShell_UpdateFromDraftRequiresEdit(t *testing.T) {
	sh, _ := newTestShell(t, 3)
	ctx := context.Background()

	require.NoError(t, sh.execute(ctx, "login emilys emilyspass"))
	require.NoError(t, sh.execute(ctx, "browse"))

	err := sh.execute(ctx, "update 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no edit draft for #2")

	require.NoError(t, sh.execute(ctx, "edit 2"))
	require.NoError(t, sh.execute(ctx, "update 2"))

	_, editing := sh.engine.EditingDraft()
	assert.False(t, editing)
}

func TestShell_UpdateClearsTags(t *testing.T) {
	sh, out := newTestShell(t, 3)
	ctx := context.Background()

	require.NoError(t, sh.execute(ctx, "login emilys emilyspass"))
	require.NoError(t, sh.execute(ctx, "browse"))
	require.NoError(t, sh.execute(ctx, "update 2 ||-"))
	assert.Contains(t, out.String(), "updated #2")

	require.NoError(t, sh.execute(ctx, "open 2"))
	item := sh.engine.Current()
	require.NotNil(t, item.CurrentPost)
	assert.Empty(t, item.CurrentPost.Tags)
	assert.Equal(t, "He was an expert but not in a discipline", item.CurrentPost.Title)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "no such post", describe(posts.ErrNotFound))
	assert.Contains(t, describe(postlist.ErrSuperseded), "newer request")
	assert.Equal(t, "boom", describe(errors.New("boom")))
}
