package postlist

import (
	"Postdeck/internal/core/posts"
)

// Mode is the list-viewing mode
type Mode int

const (
	ModeBrowsing  Mode = iota // offset pagination over the whole collection
	ModeSearching             // one unpaginated page of search results
)

func (m Mode) String() string {
	switch m {
	case ModeSearching:
		return "searching"
	default:
		return "browsing"
	}
}

// listState is the list cache. It is owned by an Engine and only written
// by the transition functions in pagination.go, search.go and reconcile.go,
// always with the engine mutex held.
type listState struct {
	posts       []posts.Post
	searchTerm  string
	err         string
	skip        int
	limit       int
	total       int
	hasMore     bool
	isSearching bool
	loading     bool
	loadingMore bool
}

func newListState(limit int) listState {
	return listState{
		posts:   []posts.Post{},
		limit:   limit,
		hasMore: true,
	}
}

// indexOf returns the position of the post with this id, or -1
func (s *listState) indexOf(id int) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// ListSnapshot is a point-in-time copy of the list cache.
// It shares no memory with the engine, so callers may keep and modify it.
type ListSnapshot struct {
	Posts       []posts.Post
	SearchTerm  string
	Error       string
	Skip        int
	Limit       int
	Total       int
	HasMore     bool
	IsSearching bool
	Loading     bool
	LoadingMore bool
}

// Mode reports which mode the snapshot was taken in
func (s ListSnapshot) Mode() Mode {
	if s.IsSearching {
		return ModeSearching
	}
	return ModeBrowsing
}

// Settled reports whether no list fetch was in flight when the snapshot was taken
func (s ListSnapshot) Settled() bool {
	return !s.Loading && !s.LoadingMore
}

func (s *listState) snapshot() ListSnapshot {
	out := make([]posts.Post, len(s.posts))
	for i := range s.posts {
		out[i] = s.posts[i].Clone()
	}
	return ListSnapshot{
		Posts:       out,
		SearchTerm:  s.searchTerm,
		Error:       s.err,
		Skip:        s.skip,
		Limit:       s.limit,
		Total:       s.total,
		HasMore:     s.hasMore,
		IsSearching: s.isSearching,
		Loading:     s.loading,
		LoadingMore: s.loadingMore,
	}
}

// EditDraft is the staging copy of a post's editable fields while an edit form is open.
// It is decoupled from the list so list updates never overwrite an in-progress edit.
type EditDraft struct {
	Title string
	Body  string
	Tags  []string
	ID    int
}

// Input turns the draft into a full update request
func (d EditDraft) Input() posts.UpdatePostInput {
	title := d.Title
	body := d.Body
	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)
	return posts.UpdatePostInput{
		Title: &title,
		Body:  &body,
		Tags:  tags,
	}
}

func (d EditDraft) clone() EditDraft {
	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)
	d.Tags = tags
	return d
}

// itemState is the single-item view state: the post open in the detail view
// and the draft of the edit form. It is fetched independently of the list.
type itemState struct {
	current *posts.Post
	editing *EditDraft
	openSeq uint64
	loading bool
}

// ItemSnapshot is a point-in-time copy of the single-item view state
type ItemSnapshot struct {
	CurrentPost *posts.Post
	Editing     *EditDraft
	Loading     bool
}

func (s *itemState) snapshot() ItemSnapshot {
	var snap ItemSnapshot
	if s.current != nil {
		p := s.current.Clone()
		snap.CurrentPost = &p
	}
	if s.editing != nil {
		d := s.editing.clone()
		snap.Editing = &d
	}
	snap.Loading = s.loading
	return snap
}
