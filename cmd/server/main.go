// Command server runs the post collection server that postdeck syncs against.
package main

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"Postdeck/internal/api/routes"
	"Postdeck/internal/core/collection"
	"Postdeck/internal/core/posts"
	"Postdeck/internal/db/migrations"
	postgresRepo "Postdeck/internal/db/postgres"
	"Postdeck/internal/metrics"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// A local .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	cfg := collection.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := seedIfEmpty(ctx, store, cfg.SeedPosts, logger); err != nil {
		return err
	}

	users := collection.NewUsers(0)
	if cfg.DevUsername != "" && cfg.DevPassword != "" {
		dev := posts.AuthUser{
			ID:        1,
			Username:  cfg.DevUsername,
			Email:     cfg.DevUsername + "@postdeck.local",
			FirstName: "Dev",
			LastName:  "User",
		}
		if err := users.Add(dev, cfg.DevPassword); err != nil {
			return err
		}
		logger.Info("dev login enabled", "username", cfg.DevUsername)
	}
	tokens := collection.NewTokens([]byte(cfg.JWTSecret), cfg.TokenTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	router := routes.NewRouter(routes.RouterConfig{
		Posts:              collection.NewService(store, logger),
		Auth:               collection.NewAuthService(users, tokens, logger),
		Verifier:           tokens,
		Recorder:           collector,
		Gatherer:           reg,
		Logger:             logger,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Postdeck collection server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore uses Postgres when a database URL is set and the in-memory store otherwise
func openStore(ctx context.Context, dbURL string, logger *slog.Logger) (collection.Store, func(), error) {
	if dbURL == "" {
		logger.Info("DATABASE_URL not set, using in-memory store")
		return collection.NewMemoryStore(), func() {}, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Info("connected to database")

	if err := migrations.Up(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	logger.Info("migrations completed successfully")

	return postgresRepo.NewPostStore(db), func() { _ = db.Close() }, nil
}

func seedIfEmpty(ctx context.Context, store collection.Store, n int, logger *slog.Logger) error {
	if n == 0 {
		return nil
	}
	_, total, err := store.List(ctx, 1, 0)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	if err := collection.Seed(ctx, store, n); err != nil {
		return err
	}
	logger.Info("seeded demo posts", "count", n)
	return nil
}
