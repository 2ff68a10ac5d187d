package postlist

import (
	"context"
	"strings"

	"Postdeck/internal/core/posts"
	"Postdeck/internal/metrics"
)

// resetCursor empties the list and puts the cursor back to its initial values
func (s *listState) resetCursor() {
	s.posts = []posts.Post{}
	s.skip = 0
	s.total = 0
	s.hasMore = true
}

// beginSearch resets the list and enters search mode for term
func (s *listState) beginSearch(term string) {
	s.resetCursor()
	s.isSearching = true
	s.searchTerm = term
	s.loading = true
}

// applySearchResults stores the single page of search results.
// Search is not paginated, so there is never more to load.
func (s *listState) applySearchResults(page *posts.Page) {
	s.posts = dedupPosts(page.Posts)
	s.total = page.Total
	s.skip = len(s.posts)
	s.hasMore = false
}

// failSearch leaves search mode after a failed search. The cursor keeps the values
// the reset gave it; load-more stays blocked because nothing is below total.
func (s *listState) failSearch() {
	s.isSearching = false
}

// clearSearch leaves search mode and resets the cursor
func (s *listState) clearSearch() {
	s.resetCursor()
	s.isSearching = false
	s.searchTerm = ""
}

// SubmitSearch replaces the list with the search results for query.
// Submitting again while searching starts over with the new query.
// A blank query clears the search, or does nothing when not searching.
func (e *Engine) SubmitSearch(ctx context.Context, query string) (ListSnapshot, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		e.mu.Lock()
		searching := e.list.isSearching
		snap := e.list.snapshot()
		e.mu.Unlock()
		if searching {
			return e.ClearSearch(ctx)
		}
		e.recorder.RecordCommand(cmdSubmitSearch, metrics.OutcomeSkipped)
		return snap, nil
	}

	e.mu.Lock()
	e.beginLocked()
	e.generation++
	gen := e.generation
	e.list.beginSearch(term)
	e.changedLocked()
	e.mu.Unlock()

	e.logger.Info("[POSTLIST] switched to searching", "term", term)

	page, err := e.repo.SearchPosts(ctx, term)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		return e.list.snapshot(), e.supersededLocked(cmdSubmitSearch, gen)
	}

	e.list.loading = false
	if err == nil && page == nil {
		err = emptyResponse("searchPosts")
	}
	if err != nil {
		e.list.failSearch()
		e.failLocked(cmdSubmitSearch, err)
		e.changedLocked()
		return e.list.snapshot(), err
	}

	e.list.applySearchResults(page)
	e.recorder.RecordCommand(cmdSubmitSearch, metrics.OutcomeSuccess)
	e.changedLocked()

	e.logger.Debug("[POSTLIST] search results applied",
		"term", term,
		"count", len(e.list.posts),
		"total", e.list.total)

	return e.list.snapshot(), nil
}

// ClearSearch leaves search mode, resets the list and reloads the first browse page
func (e *Engine) ClearSearch(ctx context.Context) (ListSnapshot, error) {
	e.mu.Lock()
	e.beginLocked()
	e.generation++
	e.list.clearSearch()
	e.recorder.RecordCommand(cmdClearSearch, metrics.OutcomeSuccess)
	e.changedLocked()
	e.mu.Unlock()

	e.logger.Info("[POSTLIST] search cleared, reloading browse page")

	return e.LoadBrowsePage(ctx)
}

// dedupPosts copies in, keeping the first occurrence of each id
func dedupPosts(in []posts.Post) []posts.Post {
	out := make([]posts.Post, 0, len(in))
	seen := make(map[int]struct{}, len(in))
	for _, p := range in {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p.Clone())
	}
	return out
}
