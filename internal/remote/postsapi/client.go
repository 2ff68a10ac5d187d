// Package postsapi is the HTTP client of a remote post collection
// (the dummyjson posts API or the bundled collection server).
package postsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"Postdeck/internal/core/posts"
	"Postdeck/internal/metrics"

	"golang.org/x/time/rate"
)

// Operation names, used in errors, logs and metrics
const (
	opListPosts   = "listPosts"
	opSearchPosts = "searchPosts"
	opGetPost     = "getPost"
	opCreatePost  = "createPost"
	opUpdatePost  = "updatePost"
	opDeletePost  = "deletePost"
	opLogin       = "login"
)

// maxResponseBody bounds how much of a successful response is decoded
const maxResponseBody = 10 * 1024 * 1024

// Client implements posts.Repository over HTTP.
// It holds no post state; every call is exactly one request.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *circuitBreaker
	recorder   metrics.ClientRecorder
	logger     *slog.Logger
	baseURL    string
	userAgent  string
}

// Ensure Client implements posts.Repository
var _ posts.Repository = (*Client)(nil)

// NewClient creates a client. tokens, recorder and logger may be nil.
func NewClient(cfg Config, tokens TokenSource, recorder metrics.ClientRecorder, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid posts API config: %w", err)
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: NewBearerTransport(http.DefaultTransport, tokens),
		},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker:   newCircuitBreaker(cfg.FailureThreshold, cfg.OpenDuration, logger),
		recorder:  recorder,
		logger:    logger,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
	}, nil
}

// ListPosts fetches GET /posts?limit=&skip=
func (c *Client) ListPosts(ctx context.Context, limit, skip int) (*posts.Page, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("skip", strconv.Itoa(skip))

	var page posts.Page
	if err := c.do(ctx, opListPosts, http.MethodGet, "/posts", query, nil, &page); err != nil {
		return nil, err
	}
	return normalizePage(&page), nil
}

// SearchPosts fetches GET /posts/search?q=
func (c *Client) SearchPosts(ctx context.Context, q string) (*posts.Page, error) {
	query := url.Values{}
	query.Set("q", q)

	var page posts.Page
	if err := c.do(ctx, opSearchPosts, http.MethodGet, "/posts/search", query, nil, &page); err != nil {
		return nil, err
	}
	return normalizePage(&page), nil
}

// GetPost fetches GET /posts/{id}
func (c *Client) GetPost(ctx context.Context, id int) (*posts.Post, error) {
	var p posts.Post
	if err := c.do(ctx, opGetPost, http.MethodGet, postPath(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePost sends POST /posts/add
func (c *Client) CreatePost(ctx context.Context, input posts.CreatePostInput) (*posts.Post, error) {
	if input.Tags == nil {
		input.Tags = []string{}
	}

	var p posts.Post
	if err := c.do(ctx, opCreatePost, http.MethodPost, "/posts/add", nil, input, &p); err != nil {
		return nil, err
	}
	normalized := posts.NormalizeCreated(p)
	return &normalized, nil
}

// UpdatePost sends PUT /posts/{id} with only the fields set in input
func (c *Client) UpdatePost(ctx context.Context, id int, input posts.UpdatePostInput) (*posts.Post, error) {
	var p posts.Post
	if err := c.do(ctx, opUpdatePost, http.MethodPut, postPath(id), nil, input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePost sends DELETE /posts/{id}
func (c *Client) DeletePost(ctx context.Context, id int) (*posts.DeletedPost, error) {
	var deleted posts.DeletedPost
	if err := c.do(ctx, opDeletePost, http.MethodDelete, postPath(id), nil, nil, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// Login exchanges credentials for an access token via POST /auth/login.
// Rejected credentials are reported as posts.ErrUnauthorized.
func (c *Client) Login(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error) {
	var user posts.AuthUser
	err := c.do(ctx, opLogin, http.MethodPost, "/auth/login", nil, creds, &user)
	if err != nil {
		// dummyjson answers bad credentials with 400
		var valErr *posts.ValidationError
		if errors.As(err, &valErr) {
			return nil, fmt.Errorf("%s: %w: %s", opLogin, posts.ErrUnauthorized, valErr.Message)
		}
		return nil, err
	}
	if user.AccessToken == "" {
		return nil, posts.NewTransportError(opLogin, http.StatusOK, errors.New("response has no access token"))
	}
	return &user, nil
}

// do sends one request and decodes a 2xx JSON response into out
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	trial, err := c.breaker.canAttempt(op)
	if err != nil {
		c.recorder.RecordCircuitOpen(op)
		return posts.NewTransportError(op, 0, err)
	}
	if trial {
		defer c.breaker.release(op)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return posts.NewTransportError(op, 0, fmt.Errorf("rate limiter: %w", err))
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.RecordRequest(op, 0, time.Since(start))
		wrapped := posts.NewTransportError(op, 0, err)
		// A caller cancelling says nothing about the server
		if ctx.Err() == nil {
			c.breaker.recordFailure(op, err)
		}
		c.logger.Warn("[POSTS-API] request failed", "op", op, "method", method, "error", err)
		return wrapped
	}
	defer resp.Body.Close()

	c.recorder.RecordRequest(op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := wrapStatusError(op, resp.StatusCode, errBody)
		if countsAsFailure(apiErr) {
			c.breaker.recordFailure(op, apiErr)
		} else {
			c.breaker.recordSuccess(op)
		}
		c.logger.Debug("[POSTS-API] request rejected",
			"op", op,
			"status", resp.StatusCode,
			"error", apiErr)
		return apiErr
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		c.breaker.recordFailure(op, err)
		return posts.NewTransportError(op, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	c.breaker.recordSuccess(op)
	return nil
}

func postPath(id int) string {
	return "/posts/" + strconv.Itoa(id)
}

// normalizePage makes sure an absent posts array decodes as an empty page
func normalizePage(p *posts.Page) *posts.Page {
	if p.Posts == nil {
		p.Posts = []posts.Post{}
	}
	return p
}
