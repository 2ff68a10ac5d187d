package postlist

import (
	"context"

	"Postdeck/internal/core/posts"
	"Postdeck/internal/metrics"
)

// OpenPost fetches one post for the detail view. The result replaces the open post wholesale.
// When two opens overlap, only the one issued last is kept.
func (e *Engine) OpenPost(ctx context.Context, id int) (*posts.Post, error) {
	e.mu.Lock()
	e.beginLocked()
	e.item.openSeq++
	seq := e.item.openSeq
	e.item.loading = true
	e.changedLocked()
	e.mu.Unlock()

	p, err := e.repo.GetPost(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != e.item.openSeq {
		e.recorder.RecordCommand(cmdOpenPost, metrics.OutcomeSuperseded)
		return nil, ErrSuperseded
	}

	e.item.loading = false
	if err == nil && p == nil {
		err = emptyResponse("getPost")
	}
	if err != nil {
		e.failLocked(cmdOpenPost, err)
		e.changedLocked()
		return nil, err
	}

	c := p.Clone()
	e.item.current = &c
	e.recorder.RecordCommand(cmdOpenPost, metrics.OutcomeSuccess)
	e.changedLocked()

	out := c.Clone()
	return &out, nil
}

// ClosePost clears the detail view
func (e *Engine) ClosePost() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.item.openSeq++
	e.item.current = nil
	e.item.loading = false
}

// BeginEdit opens an edit draft for the post with this id, copied from the list
// or, failing that, from the open post. It returns posts.ErrNotFound when neither holds it.
func (e *Engine) BeginEdit(id int) (EditDraft, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var src *posts.Post
	if i := e.list.indexOf(id); i >= 0 {
		src = &e.list.posts[i]
	} else if e.item.current != nil && e.item.current.ID == id {
		src = e.item.current
	}
	if src == nil {
		return EditDraft{}, posts.ErrNotFound
	}

	d := EditDraft{
		ID:    src.ID,
		Title: src.Title,
		Body:  src.Body,
		Tags:  src.Tags,
	}.clone()
	e.item.editing = &d
	return d.clone(), nil
}

// EditingDraft returns the open edit draft, if any
func (e *Engine) EditingDraft() (EditDraft, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.item.editing == nil {
		return EditDraft{}, false
	}
	return e.item.editing.clone(), true
}

// SubmitEdit saves d as an update to the post it was opened for. The open draft
// is closed on success unless BeginEdit replaced it while the update was in flight.
func (e *Engine) SubmitEdit(ctx context.Context, d EditDraft) (*posts.Post, error) {
	e.mu.Lock()
	open := e.item.editing
	e.mu.Unlock()

	if open == nil || open.ID != d.ID {
		return nil, ErrNoEditDraft
	}

	p, err := e.UpdatePost(ctx, d.ID, d.Input())
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.item.editing == open {
		e.item.editing = nil
	}
	e.mu.Unlock()

	return p, nil
}

// CancelEdit discards the edit draft
func (e *Engine) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.item.editing = nil
}
