package postlist

import (
	"context"

	"Postdeck/internal/core/posts"
	"Postdeck/internal/metrics"
)

// applyBrowsePage replaces the list with the first browse page and leaves search mode
func (s *listState) applyBrowsePage(page *posts.Page) {
	s.posts = dedupPosts(page.Posts)
	s.skip = len(s.posts)
	s.total = page.Total
	s.hasMore = len(s.posts) < s.total
	s.isSearching = false
	s.searchTerm = ""
}

// applyMorePage appends the next browse page and returns how many posts were added.
// Posts already in the list are skipped so an id never appears twice.
func (s *listState) applyMorePage(page *posts.Page) int {
	if len(s.posts) >= s.total {
		return 0
	}

	seen := make(map[int]struct{}, len(s.posts))
	for i := range s.posts {
		seen[s.posts[i].ID] = struct{}{}
	}

	added := 0
	for _, p := range page.Posts {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		s.posts = append(s.posts, p.Clone())
		added++
	}

	s.skip = len(s.posts)
	s.total = page.Total
	s.hasMore = len(s.posts) < s.total
	return added
}

// canLoadMore is the load-more guard, checked when the request is issued
func (s *listState) canLoadMore() bool {
	return s.hasMore &&
		!s.isSearching &&
		!s.loading &&
		!s.loadingMore &&
		len(s.posts) < s.total
}

// LoadBrowsePage fetches the first browse page and replaces the list with it.
// Called while searching, it leaves search mode once the page arrives.
func (e *Engine) LoadBrowsePage(ctx context.Context) (ListSnapshot, error) {
	e.mu.Lock()
	e.beginLocked()
	e.generation++
	gen := e.generation
	limit := e.list.limit
	e.list.loading = true
	e.changedLocked()
	e.mu.Unlock()

	e.logger.Debug("[POSTLIST] loading browse page", "limit", limit)

	page, err := e.repo.ListPosts(ctx, limit, 0)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		return e.list.snapshot(), e.supersededLocked(cmdLoadBrowsePage, gen)
	}

	e.list.loading = false
	if err == nil && page == nil {
		err = emptyResponse("listPosts")
	}
	if err != nil {
		e.failLocked(cmdLoadBrowsePage, err)
		e.changedLocked()
		return e.list.snapshot(), err
	}

	wasSearching := e.list.isSearching
	e.list.applyBrowsePage(page)
	e.recorder.RecordCommand(cmdLoadBrowsePage, metrics.OutcomeSuccess)
	e.changedLocked()

	if wasSearching {
		e.logger.Info("[POSTLIST] switched to browsing", "total", e.list.total)
	}
	e.logger.Debug("[POSTLIST] browse page applied",
		"count", len(e.list.posts),
		"total", e.list.total,
		"has_more", e.list.hasMore)

	return e.list.snapshot(), nil
}

// LoadMore appends the next browse page. It returns the number of posts added.
// When there is nothing more to load, or the list is searching or already loading,
// no request is made and LoadMore returns (0, nil).
func (e *Engine) LoadMore(ctx context.Context) (int, error) {
	e.mu.Lock()
	if !e.list.canLoadMore() {
		e.recorder.RecordCommand(cmdLoadMore, metrics.OutcomeSkipped)
		e.mu.Unlock()
		return 0, nil
	}
	e.beginLocked()
	gen := e.generation
	limit, skip := e.list.limit, e.list.skip
	e.list.loadingMore = true
	e.changedLocked()
	e.mu.Unlock()

	e.logger.Debug("[POSTLIST] loading more", "limit", limit, "skip", skip)

	page, err := e.repo.ListPosts(ctx, limit, skip)

	e.mu.Lock()
	defer e.mu.Unlock()

	// At most one load-more is in flight, stale or not
	e.list.loadingMore = false

	if gen != e.generation || e.list.isSearching {
		e.changedLocked()
		return 0, e.supersededLocked(cmdLoadMore, gen)
	}
	if err == nil && page == nil {
		err = emptyResponse("listPosts")
	}
	if err != nil {
		e.failLocked(cmdLoadMore, err)
		e.changedLocked()
		return 0, err
	}

	added := e.list.applyMorePage(page)
	e.recorder.RecordCommand(cmdLoadMore, metrics.OutcomeSuccess)
	e.changedLocked()

	e.logger.Debug("[POSTLIST] more posts applied",
		"added", added,
		"count", len(e.list.posts),
		"total", e.list.total,
		"has_more", e.list.hasMore)

	return added, nil
}
