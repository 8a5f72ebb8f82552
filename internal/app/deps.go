package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vidfriends/client/internal/apiclient"
	"github.com/vidfriends/client/internal/config"
	"github.com/vidfriends/client/internal/db"
	"github.com/vidfriends/client/internal/services"
	"github.com/vidfriends/client/internal/session"
	"github.com/vidfriends/client/internal/storage"
	"github.com/vidfriends/client/internal/tokens"
)

// dependencies is everything a command may touch.
type dependencies struct {
	cfg      config.Config
	tokens   tokens.Store
	svc      *services.Set
	session  *session.Manager
	media    *storage.Opener
	postgres *tokens.PostgresStore
	out      io.Writer
	errOut   io.Writer
}

// openTokenStore builds the configured token backend. The returned cleanup
// is never nil.
func openTokenStore(ctx context.Context, cfg config.TokenStoreConfig) (tokens.Store, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case config.TokenStoreMemory:
		return tokens.NewMemoryStore(), noop, nil
	case config.TokenStoreFile:
		store, err := tokens.NewFileStore(cfg.FilePath, cfg.Passphrase)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.TokenStorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		store := tokens.NewPostgresStore(pool, cfg.Namespace)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ensure token schema: %w", err)
		}
		return store, pool.Close, nil
	case config.TokenStoreRedis:
		store, err := tokens.NewRedisStore(cfg.RedisURL, cfg.Namespace)
		if err != nil {
			return nil, noop, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("ping redis: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown token store %q", cfg.Backend)
	}
}

// buildDependencies wires the API client, facades and session over store.
func buildDependencies(cfg config.Config, store tokens.Store, out, errOut io.Writer) (*dependencies, error) {
	api, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.APIBaseURL,
		Tokens:    store,
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})
	if err != nil {
		return nil, err
	}

	svc := services.NewSet(api)
	deps := &dependencies{
		cfg:     cfg,
		tokens:  store,
		svc:     svc,
		session: session.NewManager(svc.Accounts, store),
		media:   storage.NewOpener(cfg.ObjectStore),
		out:     out,
		errOut:  errOut,
	}
	if pg, ok := store.(*tokens.PostgresStore); ok {
		deps.postgres = pg
	}
	return deps, nil
}
