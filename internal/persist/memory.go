package persist

import (
	"context"
	"sync"
)

// MemoryStore keeps high scores for the lifetime of the process.
type MemoryStore struct {
	mu     sync.Mutex
	scores map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[string]int)}
}

func (s *MemoryStore) LoadHighScore(_ context.Context, namespace string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	score, ok := s.scores[namespace]
	if !ok {
		return 0, ErrNotFound
	}
	return score, nil
}

func (s *MemoryStore) SaveHighScore(_ context.Context, namespace string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.scores[namespace]; !ok || score > cur {
		s.scores[namespace] = score
	}
	return nil
}
