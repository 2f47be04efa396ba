package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type scoreFile struct {
	HighScores map[string]int `yaml:"high_scores"`
}

// FileStore keeps high scores in a small YAML document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadHighScore(_ context.Context, namespace string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return 0, err
	}
	score, ok := f.HighScores[namespace]
	if !ok {
		return 0, ErrNotFound
	}
	return score, nil
}

func (s *FileStore) SaveHighScore(_ context.Context, namespace string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if cur, ok := f.HighScores[namespace]; ok && cur >= score {
		return nil
	}
	f.HighScores[namespace] = score
	return s.write(f)
}

// read returns ErrNotFound (with an empty, usable document) if the file does not exist yet.
func (s *FileStore) read() (scoreFile, error) {
	f := scoreFile{HighScores: map[string]int{}}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, ErrNotFound
	}
	if err != nil {
		return f, fmt.Errorf("read high scores %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse high scores %s: %w", s.path, err)
	}
	if f.HighScores == nil {
		f.HighScores = map[string]int{}
	}
	return f, nil
}

// write replaces the file atomically through a temporary sibling.
func (s *FileStore) write(f scoreFile) error {
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encode high scores: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write high scores %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace high scores %s: %w", s.path, err)
	}
	return nil
}
