package postlist

import (
	"context"

	"Postdeck/internal/core/posts"
	"Postdeck/internal/metrics"
)

// applyCreated puts a created post at the head of the list and counts it in total.
// A post whose id is already listed is replaced in place and not counted again.
// skip and hasMore are left alone: the next load-more may return a post already listed,
// which applyMorePage skips.
func (s *listState) applyCreated(p posts.Post) {
	if i := s.indexOf(p.ID); i >= 0 {
		s.posts[i] = p.Clone()
		return
	}
	s.posts = append([]posts.Post{p.Clone()}, s.posts...)
	s.total++
}

// applyUpdated replaces the listed post with the same id. Unlisted ids are ignored.
func (s *listState) applyUpdated(p posts.Post) {
	if i := s.indexOf(p.ID); i >= 0 {
		s.posts[i] = p.Clone()
	}
}

// applyDeleted removes the post with this id. total only drops when a post was removed.
// In browse mode the cursor moves back with the list, so the next load-more picks up
// the post that shifted into the freed slot on the server.
func (s *listState) applyDeleted(id int) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.posts = append(s.posts[:i:i], s.posts[i+1:]...)
	if s.total > 0 {
		s.total--
	}
	s.skip = len(s.posts)
	if !s.isSearching {
		s.hasMore = len(s.posts) < s.total
	}
	return true
}

func (s *itemState) applyUpdated(p posts.Post) {
	if s.current != nil && s.current.ID == p.ID {
		c := p.Clone()
		s.current = &c
	}
}

func (s *itemState) applyDeleted(id int) {
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	if s.editing != nil && s.editing.ID == id {
		s.editing = nil
	}
}

// authorize runs the mutation auth gate. On refusal the error is recorded and no request is made.
func (e *Engine) authorize(command string) (int, error) {
	userID, ok := e.userID()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.beginLocked()
	if !ok {
		e.list.err = posts.ErrAuthRequired.Error()
		e.recorder.RecordCommand(command, metrics.OutcomeRefused)
		e.changedLocked()
		e.logger.Debug("[POSTLIST] mutation refused without session", "command", command)
		return 0, posts.ErrAuthRequired
	}
	return userID, nil
}

// CreatePost creates a post as the session user and adds it to the head of the list
func (e *Engine) CreatePost(ctx context.Context, input posts.CreatePostInput) (*posts.Post, error) {
	userID, err := e.authorize(cmdCreatePost)
	if err != nil {
		return nil, err
	}
	input.UserID = userID

	created, err := e.repo.CreatePost(ctx, input)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err == nil && created == nil {
		err = emptyResponse("createPost")
	}
	if err != nil {
		e.failLocked(cmdCreatePost, err)
		e.changedLocked()
		return nil, err
	}

	p := posts.NormalizeCreated(*created)
	e.list.applyCreated(p)
	e.recorder.RecordCommand(cmdCreatePost, metrics.OutcomeSuccess)
	e.changedLocked()

	e.logger.Debug("[POSTLIST] post created", "id", p.ID, "total", e.list.total)

	return &p, nil
}

// UpdatePost sends a partial update and replaces the listed and opened copies with the result.
// An open edit draft is left as it is; SubmitEdit is the way to save and close it.
func (e *Engine) UpdatePost(ctx context.Context, id int, input posts.UpdatePostInput) (*posts.Post, error) {
	if _, err := e.authorize(cmdUpdatePost); err != nil {
		return nil, err
	}

	updated, err := e.repo.UpdatePost(ctx, id, input)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err == nil && updated == nil {
		err = emptyResponse("updatePost")
	}
	if err != nil {
		e.failLocked(cmdUpdatePost, err)
		e.changedLocked()
		return nil, err
	}

	p := updated.Clone()
	e.list.applyUpdated(p)
	e.item.applyUpdated(p)
	e.recorder.RecordCommand(cmdUpdatePost, metrics.OutcomeSuccess)
	e.changedLocked()

	e.logger.Debug("[POSTLIST] post updated", "id", p.ID)

	return &p, nil
}

// DeletePost deletes a post and removes it from the list and the detail view
func (e *Engine) DeletePost(ctx context.Context, id int) (*posts.DeletedPost, error) {
	if _, err := e.authorize(cmdDeletePost); err != nil {
		return nil, err
	}

	deleted, err := e.repo.DeletePost(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err == nil && deleted == nil {
		err = emptyResponse("deletePost")
	}
	if err != nil {
		e.failLocked(cmdDeletePost, err)
		e.changedLocked()
		return nil, err
	}

	// Some servers echo a post without its id
	target := deleted.ID
	if target == 0 {
		target = id
	}

	removed := e.list.applyDeleted(target)
	e.item.applyDeleted(target)
	e.recorder.RecordCommand(cmdDeletePost, metrics.OutcomeSuccess)
	e.changedLocked()

	e.logger.Debug("[POSTLIST] post deleted",
		"id", target,
		"was_listed", removed,
		"total", e.list.total)

	out := *deleted
	out.Post = deleted.Post.Clone()
	return &out, nil
}
