// Package postlist keeps a client-side cache of a remote post collection in sync with the server.
//
// The Engine owns one list cache (browse pages or one page of search results) and one
// single-item view state. Commands run on the caller's goroutine: the request is issued
// without holding the engine lock, and the result is applied as one atomic transition once it
// settles. Results that arrive after a newer browse, search or clear command are dropped.
package postlist

import (
	"log/slog"
	"sync"

	"Postdeck/internal/core/posts"
	"Postdeck/internal/metrics"
)

// Command names used for metrics and logs
const (
	cmdLoadBrowsePage = "load_browse_page"
	cmdLoadMore       = "load_more"
	cmdSubmitSearch   = "submit_search"
	cmdClearSearch    = "clear_search"
	cmdCreatePost     = "create_post"
	cmdUpdatePost     = "update_post"
	cmdDeletePost     = "delete_post"
	cmdOpenPost       = "open_post"
)

// Engine is the list synchronization engine
type Engine struct {
	repo        posts.Repository
	session     posts.Session
	recorder    metrics.Recorder
	logger      *slog.Logger
	subscribers map[int]chan ListSnapshot
	item        itemState
	list        listState
	generation  uint64
	nextSubID   int
	mu          sync.Mutex
}

// NewEngine creates an engine with an empty list cache.
// session may be nil, in which case every mutation is refused with posts.ErrAuthRequired.
// recorder and logger may be nil.
func NewEngine(repo posts.Repository, session posts.Session, cfg Config, recorder metrics.Recorder, logger *slog.Logger) (*Engine, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		repo:        repo,
		session:     session,
		recorder:    recorder,
		logger:      logger,
		list:        newListState(cfg.PageSize),
		subscribers: make(map[int]chan ListSnapshot),
	}, nil
}

// Snapshot returns a copy of the list cache
func (e *Engine) Snapshot() ListSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.snapshot()
}

// Current returns a copy of the single-item view state
func (e *Engine) Current() ItemSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.item.snapshot()
}

// Subscribe returns a channel that receives the list snapshot after every state change,
// and a func that cancels the subscription and closes the channel.
// The channel holds one snapshot; a slow reader only ever sees the latest one.
func (e *Engine) Subscribe() (<-chan ListSnapshot, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSubID
	e.nextSubID++
	ch := make(chan ListSnapshot, 1)
	e.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// changedLocked publishes the current list state. Caller must hold e.mu.
func (e *Engine) changedLocked() {
	e.recorder.RecordCacheSize(len(e.list.posts))
	if len(e.subscribers) == 0 {
		return
	}
	snap := e.list.snapshot()
	for _, ch := range e.subscribers {
		select {
		case ch <- snap:
		default:
			// Replace the unread snapshot
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// beginLocked starts any command: the previous error is cleared. Caller must hold e.mu.
func (e *Engine) beginLocked() {
	e.list.err = ""
}

// failLocked records a failed command. Caller must hold e.mu.
func (e *Engine) failLocked(command string, err error) {
	e.list.err = err.Error()
	e.recorder.RecordCommand(command, metrics.OutcomeFailure)
	e.logger.Warn("[POSTLIST] command failed",
		"command", command,
		"error", err)
}

// supersededLocked records a dropped stale result. Caller must hold e.mu.
func (e *Engine) supersededLocked(command string, gen uint64) error {
	e.recorder.RecordCommand(command, metrics.OutcomeSuperseded)
	e.logger.Debug("[POSTLIST] dropping stale result",
		"command", command,
		"request_generation", gen,
		"current_generation", e.generation)
	return ErrSuperseded
}

// userID runs the auth gate for mutations
func (e *Engine) userID() (int, bool) {
	if e.session == nil {
		return 0, false
	}
	return e.session.UserID()
}
