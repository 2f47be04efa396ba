package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// HighScoreRepo stores high scores in the high_scores table, shared by every
// server instance pointed at the same database.
type HighScoreRepo struct {
	db *DB
}

func NewHighScoreRepo(db *DB) *HighScoreRepo {
	return &HighScoreRepo{db: db}
}

func (r *HighScoreRepo) LoadHighScore(ctx context.Context, namespace string) (int, error) {
	var score int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT score FROM high_scores WHERE namespace = $1`, namespace,
	).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load high score %s: %w", namespace, err)
	}
	return score, nil
}

func (r *HighScoreRepo) SaveHighScore(ctx context.Context, namespace string, score int) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO high_scores (namespace, score)
		 VALUES ($1, $2)
		 ON CONFLICT (namespace) DO UPDATE
		 SET score = GREATEST(high_scores.score, EXCLUDED.score), updated_at = now()`,
		namespace, score,
	)
	if err != nil {
		return fmt.Errorf("save high score %s: %w", namespace, err)
	}
	return nil
}
