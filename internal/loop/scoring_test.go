package loop

import (
	"context"
	"errors"
	"testing"
)

type memStore struct {
	scores  map[string]int
	saves   int
	loadErr error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{scores: map[string]int{}}
}

func (m *memStore) LoadHighScore(_ context.Context, ns string) (int, error) {
	if m.loadErr != nil {
		return 0, m.loadErr
	}
	v, ok := m.scores[ns]
	if !ok {
		return 0, ErrNoHighScore
	}
	return v, nil
}

func (m *memStore) SaveHighScore(_ context.Context, ns string, score int) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.scores[ns] = score
	return nil
}

func TestAddScore(t *testing.T) {
	tr := NewScoreTracker(context.Background(), nil, DefaultNamespace, nil)
	tr.AddScore(10)
	st := tr.AddScore(15)
	if st.Score != 25 || st.MeteorsDestroyed != 2 || st.Level != 1 {
		t.Fatalf("after 10+15: %+v, want score 25, destroyed 2, level 1", st)
	}
	for i := 0; i < 8; i++ {
		st = tr.AddScore(10)
	}
	if st.MeteorsDestroyed != 10 || st.Level != 2 {
		t.Fatalf("after 10 kills: %+v, want level 2", st)
	}
}

func TestHighScoreSurvivesReset(t *testing.T) {
	store := newMemStore()
	tr := NewScoreTracker(context.Background(), store, "ns", nil)
	tr.AddScore(50)
	tr.AddScore(25)
	tr.Reset()

	st := tr.State()
	if st.Score != 0 || st.MeteorsDestroyed != 0 || st.Level != 1 {
		t.Fatalf("after reset: %+v", st)
	}
	if st.HighScore != 75 {
		t.Fatalf("high score = %d, want 75", st.HighScore)
	}
	if store.scores["ns"] != 75 {
		t.Fatalf("persisted = %d, want 75", store.scores["ns"])
	}

	// Lower scores in a later session leave the high score alone.
	saves := store.saves
	tr.AddScore(10)
	if tr.State().HighScore != 75 || store.saves != saves {
		t.Fatal("high score changed by a lower score")
	}
}

func TestTrackerLoadsPersistedHighScore(t *testing.T) {
	store := newMemStore()
	store.scores["ns"] = 300
	tr := NewScoreTracker(context.Background(), store, "ns", nil)
	if tr.State().HighScore != 300 {
		t.Fatalf("high score = %d, want 300", tr.State().HighScore)
	}
	tr.AddScore(50)
	if store.saves != 0 {
		t.Fatal("saved a score below the persisted high score")
	}
}

func TestTrackerDegradesWhenStoreFails(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("disk on fire")
	store.saveErr = errors.New("still on fire")

	tr := NewScoreTracker(context.Background(), store, "ns", nil)
	if tr.State().HighScore != 0 {
		t.Fatalf("high score = %d, want 0 on load failure", tr.State().HighScore)
	}
	st := tr.AddScore(10)
	if st.HighScore != 10 {
		t.Fatalf("high score = %d, want 10 despite save failure", st.HighScore)
	}
}

func TestNewHighScoreFlag(t *testing.T) {
	tests := []struct {
		state ScoreState
		want  bool
	}{
		{ScoreState{Score: 0, HighScore: 0}, false},
		{ScoreState{Score: 40, HighScore: 40}, true},
		{ScoreState{Score: 40, HighScore: 90}, false},
	}
	for _, tt := range tests {
		if got := tt.state.NewHighScore(); got != tt.want {
			t.Errorf("%+v.NewHighScore() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
