package postlist

import (
	"errors"

	"Postdeck/internal/core/posts"
)

// ErrSuperseded is returned when a list fetch settled after a newer browse, search or clear
// command replaced the list. The result was discarded and the cache left as the newer command set it.
// It is not a failure: the error field of the list is not set.
var ErrSuperseded = errors.New("list result superseded by a newer command")

// IsSuperseded checks if error means the result was dropped as stale
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}

// ErrNilRepository is returned by NewEngine when no repository is given
var ErrNilRepository = errors.New("postlist: repository is required")

// ErrNoEditDraft is returned by SubmitEdit when no draft is open for the post
var ErrNoEditDraft = errors.New("no edit draft open for this post")

// emptyResponse is the error for a repository call that returned neither a result nor an error
func emptyResponse(op string) error {
	return posts.NewTransportError(op, 0, errors.New("empty response"))
}
