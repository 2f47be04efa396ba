package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/meteorshtorm/internal/config"
	"github.com/tomz197/meteorshtorm/internal/loop"
)

func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.LoadHighScore(ctx, "fresh"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load of unknown namespace: err = %v, want ErrNotFound", err)
	}
	if !errors.Is(ErrNotFound, loop.ErrNoHighScore) {
		t.Fatal("ErrNotFound does not match loop.ErrNoHighScore")
	}

	for _, score := range []int{120, 80, 300} {
		if err := s.SaveHighScore(ctx, "ns", score); err != nil {
			t.Fatalf("save %d: %v", score, err)
		}
	}
	got, err := s.LoadHighScore(ctx, "ns")
	if err != nil {
		t.Fatal(err)
	}
	if got != 300 {
		t.Fatalf("high score = %d, want 300", got)
	}

	if err := s.SaveHighScore(ctx, "other", 5); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.LoadHighScore(ctx, "ns"); got != 300 {
		t.Fatalf("namespaces interfere: ns = %d", got)
	}
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores", "highscore.yaml")
	testStoreContract(t, NewFileStore(path))

	// A second store on the same file sees the saved values.
	got, err := NewFileStore(path).LoadHighScore(context.Background(), "ns")
	if err != nil || got != 300 {
		t.Fatalf("reopened store: %d, %v", got, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temporary file left behind")
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "highscore.yaml")
	if err := os.WriteFile(path, []byte("high_scores: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if _, err := s.LoadHighScore(context.Background(), "ns"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want a parse error", err)
	}
	if err := s.SaveHighScore(context.Background(), "ns", 10); err == nil {
		t.Fatal("save over a corrupt file should fail")
	}
}

type recordingStore struct {
	mu      sync.Mutex
	saves   []int
	gate    chan struct{}
	scores  map[string]int
	saveErr error
}

func (r *recordingStore) LoadHighScore(_ context.Context, ns string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.scores[ns]
	if !ok {
		return 0, ErrNotFound
	}
	return v, nil
}

func (r *recordingStore) SaveHighScore(_ context.Context, ns string, score int) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, score)
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.scores == nil {
		r.scores = map[string]int{}
	}
	if score > r.scores[ns] {
		r.scores[ns] = score
	}
	return nil
}

func TestAsyncStoreDoesNotBlock(t *testing.T) {
	backend := &recordingStore{gate: make(chan struct{})}
	s := NewAsyncStore(backend, 2, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		// The writer holds the first save at the gate; two more fill the queue.
		for i := 1; i <= 10; i++ {
			if err := s.SaveHighScore(context.Background(), "ns", i*10); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("save on a full queue: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SaveHighScore blocked on a slow backend")
	}

	close(backend.gate)
	s.Close()

	got, err := backend.LoadHighScore(context.Background(), "ns")
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Fatalf("persisted high score = %d, want 100", got)
	}
}

func TestAsyncStoreOverflowKeepsMaxPerNamespace(t *testing.T) {
	backend := &recordingStore{gate: make(chan struct{})}
	s := NewAsyncStore(backend, 1, nil)

	for i := 1; i <= 20; i++ {
		ns := "a"
		if i%2 == 0 {
			ns = "b"
		}
		if err := s.SaveHighScore(context.Background(), ns, i); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	close(backend.gate)
	s.Close()

	for ns, want := range map[string]int{"a": 19, "b": 20} {
		got, err := backend.LoadHighScore(context.Background(), ns)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%s: persisted high score = %d, want %d", ns, got, want)
		}
	}
}

func TestAsyncStoreOverflowFlushesWithoutClose(t *testing.T) {
	backend := &recordingStore{gate: make(chan struct{})}
	s := NewAsyncStore(backend, 1, nil)
	defer s.Close()

	for i := 1; i <= 5; i++ {
		if err := s.SaveHighScore(context.Background(), "ns", i*10); err != nil {
			t.Fatal(err)
		}
	}
	close(backend.gate)

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, _ := backend.LoadHighScore(context.Background(), "ns")
		if got == 50 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("persisted high score = %d, want 50 without waiting for Close", got)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAsyncStoreFlushesOnClose(t *testing.T) {
	backend := &recordingStore{}
	s := NewAsyncStore(backend, 16, nil)
	for _, v := range []int{10, 40, 25} {
		if err := s.SaveHighScore(context.Background(), "ns", v); err != nil {
			t.Fatal(err)
		}
	}
	s.Close()
	s.Close()

	if got, _ := s.LoadHighScore(context.Background(), "ns"); got != 40 {
		t.Fatalf("high score = %d, want 40", got)
	}
	if err := s.SaveHighScore(context.Background(), "ns", 99); !errors.Is(err, ErrClosed) {
		t.Fatalf("save after close: err = %v, want ErrClosed", err)
	}
}

func TestAsyncStoreSurvivesBackendErrors(t *testing.T) {
	backend := &recordingStore{saveErr: errors.New("db down")}
	s := NewAsyncStore(backend, 4, nil)
	if err := s.SaveHighScore(context.Background(), "ns", 10); err != nil {
		t.Fatal(err)
	}
	s.Close()
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.saves) != 1 {
		t.Fatalf("backend saw %d writes, want 1", len(backend.saves))
	}
}

func TestOpen(t *testing.T) {
	cfg := config.Defaults()
	ctx := context.Background()

	cfg.Store.Kind = "memory"
	s, closeFn, err := Open(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("memory kind built %T", s)
	}
	closeFn()

	cfg.Store.Kind = "file"
	cfg.Store.Path = filepath.Join(t.TempDir(), "hs.yaml")
	s, closeFn, err = Open(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveHighScore(ctx, "ns", 70); err != nil {
		t.Fatal(err)
	}
	closeFn()
	if got, _ := NewFileStore(cfg.Store.Path).LoadHighScore(ctx, "ns"); got != 70 {
		t.Fatalf("file store after close = %d, want 70", got)
	}

	cfg.Store.Kind = "floppy"
	if _, _, err := Open(ctx, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestHighScoreRepo(t *testing.T) {
	dsn := os.Getenv("METEOR_TEST_DSN")
	if dsn == "" {
		t.Skip("METEOR_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := RunMigrations(ctx, db.Pool); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM high_scores WHERE namespace IN ('ns', 'other', 'fresh')`); err != nil {
		t.Fatal(err)
	}
	testStoreContract(t, NewHighScoreRepo(db))
}
