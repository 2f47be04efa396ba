package loop

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoHighScore is returned by a HighScoreStore that has nothing saved under a namespace.
var ErrNoHighScore = errors.New("no high score saved")

// HighScoreStore persists the best score. Implementations live in the persist package.
type HighScoreStore interface {
	LoadHighScore(ctx context.Context, namespace string) (int, error)
	SaveHighScore(ctx context.Context, namespace string, score int) error
}

// meteorsPerLevel is how many destroyed meteors it takes to gain a level.
const meteorsPerLevel = 10

// ScoreState is a point-in-time view of the scoreboard.
type ScoreState struct {
	Score            int
	HighScore        int
	MeteorsDestroyed int
	Level            int
}

// NewHighScore reports whether the current score is the (non-zero) high score.
func (s ScoreState) NewHighScore() bool {
	return s.Score > 0 && s.Score == s.HighScore
}

// ScoreTracker owns the scoreboard of one player across sessions.
// Storage failures are logged and otherwise ignored.
type ScoreTracker struct {
	state     ScoreState
	store     HighScoreStore
	namespace string
	log       *zap.Logger
}

// NewScoreTracker reads the persisted high score once. A nil store disables persistence.
func NewScoreTracker(ctx context.Context, store HighScoreStore, namespace string, log *zap.Logger) *ScoreTracker {
	if log == nil {
		log = zap.NewNop()
	}
	t := &ScoreTracker{
		state:     ScoreState{Level: 1},
		store:     store,
		namespace: namespace,
		log:       log,
	}
	if store == nil {
		return t
	}

	high, err := store.LoadHighScore(ctx, namespace)
	switch {
	case errors.Is(err, ErrNoHighScore):
	case err != nil:
		log.Warn("high score unavailable, starting from 0", zap.String("namespace", namespace), zap.Error(err))
	case high > 0:
		t.state.HighScore = high
	}
	return t
}

// AddScore credits one destroyed meteor worth points.
func (t *ScoreTracker) AddScore(points int) ScoreState {
	t.state.Score += points
	t.state.MeteorsDestroyed++
	if level := t.state.MeteorsDestroyed/meteorsPerLevel + 1; level > t.state.Level {
		t.state.Level = level
	}
	if t.state.Score > t.state.HighScore {
		t.state.HighScore = t.state.Score
		t.save()
	}
	return t.state
}

func (t *ScoreTracker) save() {
	if t.store == nil {
		return
	}
	if err := t.store.SaveHighScore(context.Background(), t.namespace, t.state.HighScore); err != nil {
		t.log.Warn("save high score", zap.String("namespace", t.namespace), zap.Int("score", t.state.HighScore), zap.Error(err))
	}
}

// Reset starts a new session's scoreboard. The high score is kept.
func (t *ScoreTracker) Reset() {
	t.state = ScoreState{HighScore: t.state.HighScore, Level: 1}
}

// State returns the current scoreboard.
func (t *ScoreTracker) State() ScoreState {
	return t.state
}
