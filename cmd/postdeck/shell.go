package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"Postdeck/internal/core/postlist"
	"Postdeck/internal/core/posts"
	"Postdeck/internal/core/session"
)

const commandTimeout = 30 * time.Second

var errQuit = errors.New("quit")

const usage = `commands:
  login <user> <password>       log in
  logout                        forget the session
  browse                        load the first page
  more                          load the next page
  search <query>                search (blank returns to browsing)
  clear                         leave search and reload the first page
  open <id>                     show one post
  close                         close the open post
  create <title>|<body>|<tags>  create a post, tags comma-separated
  edit <id>                     start editing a post
  update <id> [title|body|tags] update a post; empty fields are left alone,
                                no fields submits the edit draft
  cancel                        discard the edit draft
  delete <id>                   delete a post
  show                          print the list again
  quit                          exit`

// shell runs one command per input line against an engine
type shell struct {
	engine  *postlist.Engine
	session *session.Session
	out     io.Writer
}

func newShell(engine *postlist.Engine, sess *session.Session, out io.Writer) *shell {
	return &shell{engine: engine, session: sess, out: out}
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "postdeck: type help for commands")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		err := s.execute(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %s\n", describe(err))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// execute runs one command line. It returns errQuit on quit.
func (s *shell) execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch strings.ToLower(cmd) {
	case "help", "?":
		fmt.Fprintln(s.out, usage)
		return nil

	case "quit", "exit":
		return errQuit

	case "login":
		username, password, ok := strings.Cut(rest, " ")
		if !ok {
			return errors.New("usage: login <user> <password>")
		}
		user, err := s.session.Login(ctx, posts.Credentials{Username: username, Password: strings.TrimSpace(password)})
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "logged in as %s (id %d)\n", user.Username, user.ID)
		return nil

	case "logout":
		s.session.Logout()
		fmt.Fprintln(s.out, "logged out")
		return nil

	case "browse":
		snap, err := s.engine.LoadBrowsePage(ctx)
		if err != nil {
			return err
		}
		s.printList(snap)
		return nil

	case "more":
		added, err := s.engine.LoadMore(ctx)
		if err != nil {
			return err
		}
		if added == 0 {
			fmt.Fprintln(s.out, "nothing more to load")
		}
		s.printList(s.engine.Snapshot())
		return nil

	case "search":
		snap, err := s.engine.SubmitSearch(ctx, rest)
		if err != nil {
			return err
		}
		s.printList(snap)
		return nil

	case "clear":
		snap, err := s.engine.ClearSearch(ctx)
		if err != nil {
			return err
		}
		s.printList(snap)
		return nil

	case "open":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		p, err := s.engine.OpenPost(ctx, id)
		if err != nil {
			return err
		}
		s.printPost(*p)
		return nil

	case "close":
		s.engine.ClosePost()
		return nil

	case "create":
		input, err := parseCreate(rest)
		if err != nil {
			return err
		}
		p, err := s.engine.CreatePost(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "created #%d\n", p.ID)
		s.printList(s.engine.Snapshot())
		return nil

	case "edit":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		draft, err := s.engine.BeginEdit(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "editing #%d: %s|%s|%s\n", draft.ID, draft.Title, draft.Body, strings.Join(draft.Tags, ","))
		return nil

	case "update":
		idArg, fields, _ := strings.Cut(rest, " ")
		id, err := parseID(idArg)
		if err != nil {
			return err
		}
		p, err := s.update(ctx, id, strings.TrimSpace(fields))
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "updated #%d\n", p.ID)
		s.printList(s.engine.Snapshot())
		return nil

	case "cancel":
		s.engine.CancelEdit()
		return nil

	case "delete":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		if _, err := s.engine.DeletePost(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "deleted #%d\n", id)
		s.printList(s.engine.Snapshot())
		return nil

	case "show":
		s.printList(s.engine.Snapshot())
		return nil

	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

// update sends a partial update from title|body|tags, or submits the edit draft when fields is empty
func (s *shell) update(ctx context.Context, id int, fields string) (*posts.Post, error) {
	if fields == "" {
		draft, ok := s.engine.EditingDraft()
		if !ok || draft.ID != id {
			return nil, fmt.Errorf("no edit draft for #%d (use edit %d first)", id, id)
		}
		return s.engine.SubmitEdit(ctx, draft)
	}
	input, err := parseUpdate(fields)
	if err != nil {
		return nil, err
	}
	return s.engine.UpdatePost(ctx, id, input)
}

func (s *shell) printList(snap postlist.ListSnapshot) {
	if snap.IsSearching {
		fmt.Fprintf(s.out, "search %q: %d result(s)\n", snap.SearchTerm, len(snap.Posts))
	} else {
		fmt.Fprintf(s.out, "showing %d of %d", len(snap.Posts), snap.Total)
		if snap.HasMore {
			fmt.Fprint(s.out, " (more available)")
		}
		fmt.Fprintln(s.out)
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, p := range snap.Posts {
		fmt.Fprintf(tw, "  #%d\t%s\t%s\n", p.ID, p.Title, strings.Join(p.Tags, ","))
	}
	_ = tw.Flush()

	if snap.Error != "" {
		fmt.Fprintf(s.out, "last error: %s\n", snap.Error)
	}
}

func (s *shell) printPost(p posts.Post) {
	fmt.Fprintf(s.out, "#%d %s\n", p.ID, p.Title)
	fmt.Fprintf(s.out, "  by user %d, %d views, %d likes, %d dislikes\n", p.UserID, p.Views, p.Reactions.Likes, p.Reactions.Dislikes)
	if len(p.Tags) > 0 {
		fmt.Fprintf(s.out, "  tags: %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Fprintf(s.out, "\n%s\n", p.Body)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", arg)
	}
	return id, nil
}

// parseCreate reads title|body|tag,tag. Body and tags are optional.
func parseCreate(arg string) (posts.CreatePostInput, error) {
	parts := strings.SplitN(arg, "|", 3)
	input := posts.CreatePostInput{Title: strings.TrimSpace(parts[0]), Tags: []string{}}
	if input.Title == "" {
		return posts.CreatePostInput{}, errors.New("usage: create <title>|<body>|<tags>")
	}
	if len(parts) > 1 {
		input.Body = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		input.Tags = splitTags(parts[2])
	}
	return input, nil
}

// parseUpdate reads title|body|tags. An empty field is left unchanged.
// A tags field of "-" clears the tags.
func parseUpdate(arg string) (posts.UpdatePostInput, error) {
	parts := strings.SplitN(arg, "|", 3)
	var input posts.UpdatePostInput

	if title := strings.TrimSpace(parts[0]); title != "" {
		input.Title = &title
	}
	if len(parts) > 1 {
		if body := strings.TrimSpace(parts[1]); body != "" {
			input.Body = &body
		}
	}
	if len(parts) > 2 {
		switch tags := strings.TrimSpace(parts[2]); tags {
		case "":
		case "-":
			input.Tags = []string{}
		default:
			input.Tags = splitTags(tags)
		}
	}

	if input.IsEmpty() {
		return posts.UpdatePostInput{}, errors.New("usage: update <id> <title>|<body>|<tags>")
	}
	return input, nil
}

func splitTags(arg string) []string {
	tags := []string{}
	for _, t := range strings.Split(arg, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// describe turns engine and client errors into a line for the user
func describe(err error) string {
	switch {
	case errors.Is(err, posts.ErrAuthRequired):
		return "log in first (login <user> <password>)"
	case errors.Is(err, posts.ErrUnauthorized):
		return "the server rejected your credentials; log in again"
	case errors.Is(err, postlist.ErrSuperseded):
		return "result discarded, a newer request replaced it"
	case posts.IsNotFound(err):
		return "no such post"
	default:
		return err.Error()
	}
}
