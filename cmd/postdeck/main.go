// Command postdeck is a line-oriented client for a post collection.
// It keeps a synchronized local list and prints it after every command.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"Postdeck/internal/core/postlist"
	"Postdeck/internal/core/session"
	"Postdeck/internal/remote/postsapi"
)

func main() {
	verbose := flag.Bool("v", false, "log requests and engine commands to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	if err := run(logger); err != nil {
		logger.Error("postdeck exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	apiCfg := postsapi.ConfigFromEnv()

	// Logins go through a client that never sends a token
	loginClient, err := postsapi.NewClient(apiCfg, nil, nil, logger)
	if err != nil {
		return err
	}
	sess := session.New(loginClient, logger)

	client, err := postsapi.NewClient(apiCfg, sess, nil, logger)
	if err != nil {
		return err
	}

	engine, err := postlist.NewEngine(client, sess, postlist.ConfigFromEnv(), nil, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := newShell(engine, sess, os.Stdout)
	return sh.run(ctx, os.Stdin)
}
