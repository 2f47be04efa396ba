// Package persist stores the high score: in memory, in a YAML file or in PostgreSQL.
package persist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tomz197/meteorshtorm/internal/config"
	"github.com/tomz197/meteorshtorm/internal/loop"
)

// ErrNotFound is returned when nothing has been saved under a namespace.
// It matches loop.ErrNoHighScore under errors.Is.
var ErrNotFound = fmt.Errorf("persist: %w", loop.ErrNoHighScore)

// Store keeps one high score per namespace. Saving a score lower than the stored
// one leaves the stored score unchanged.
type Store interface {
	LoadHighScore(ctx context.Context, namespace string) (int, error)
	SaveHighScore(ctx context.Context, namespace string, score int) error
}

// Open builds the store selected by cfg.Store.Kind. File and PostgreSQL stores
// are wrapped in an AsyncStore so saves never block the game loop. The returned
// close function flushes pending writes and releases the backend.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Store, func(), error) {
	switch cfg.Store.Kind {
	case "", "memory":
		return NewMemoryStore(), func() {}, nil

	case "file":
		async := NewAsyncStore(NewFileStore(cfg.Store.Path), cfg.Store.QueueSize, log)
		return async, async.Close, nil

	case "postgres":
		db, err := NewDB(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		if err := RunMigrations(ctx, db.Pool); err != nil {
			db.Close()
			return nil, nil, err
		}
		async := NewAsyncStore(NewHighScoreRepo(db), cfg.Store.QueueSize, log)
		return async, func() {
			async.Close()
			db.Close()
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}
