package persist

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrClosed is returned by AsyncStore.SaveHighScore after Close.
var ErrClosed = errors.New("persist: store closed")

const writeTimeout = 5 * time.Second

type pendingWrite struct {
	namespace string
	score     int
}

// AsyncStore queues saves for a background writer so callers never wait on I/O.
// Loads go straight to the backend.
//
// Saves that find the queue full are folded into a per-namespace maximum the
// writer picks up next, so the highest score always reaches the backend.
type AsyncStore struct {
	backend Store
	log     *zap.Logger
	writes  chan pendingWrite
	wake    chan struct{}
	done    chan struct{}

	mu     sync.RWMutex
	closed bool

	overflowMu sync.Mutex
	overflow   map[string]int
}

// NewAsyncStore starts a writer goroutine in front of backend.
func NewAsyncStore(backend Store, queueSize int, log *zap.Logger) *AsyncStore {
	if queueSize <= 0 {
		queueSize = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &AsyncStore{
		backend: backend,
		log:     log,
		writes:   make(chan pendingWrite, queueSize),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		overflow: make(map[string]int),
	}
	go s.run()
	return s
}

func (s *AsyncStore) LoadHighScore(ctx context.Context, namespace string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return s.backend.LoadHighScore(ctx, namespace)
}

// SaveHighScore enqueues a write without blocking.
func (s *AsyncStore) SaveHighScore(_ context.Context, namespace string, score int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	select {
	case s.writes <- pendingWrite{namespace: namespace, score: score}:
	default:
		s.overflowMu.Lock()
		if cur, ok := s.overflow[namespace]; !ok || score > cur {
			s.overflow[namespace] = score
		}
		s.overflowMu.Unlock()
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
	return nil
}

func (s *AsyncStore) run() {
	defer close(s.done)
	for {
		select {
		case w, ok := <-s.writes:
			if !ok {
				s.flushOverflow()
				return
			}
			// Later writes for the same namespace supersede queued ones.
			s.flush(s.coalesce(w))
		case <-s.wake:
		}
		s.flushOverflow()
	}
}

func (s *AsyncStore) flushOverflow() {
	s.overflowMu.Lock()
	if len(s.overflow) == 0 {
		s.overflowMu.Unlock()
		return
	}
	pending := s.overflow
	s.overflow = make(map[string]int)
	s.overflowMu.Unlock()

	for ns, score := range pending {
		s.flush(pendingWrite{namespace: ns, score: score})
	}
}

// coalesce drains queued writes for w's namespace while they are the next in line.
func (s *AsyncStore) coalesce(w pendingWrite) pendingWrite {
	for {
		select {
		case next, ok := <-s.writes:
			if !ok {
				return w
			}
			if next.namespace != w.namespace {
				s.flush(w)
				w = next
				continue
			}
			if next.score > w.score {
				w.score = next.score
			}
		default:
			return w
		}
	}
}

func (s *AsyncStore) flush(w pendingWrite) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.backend.SaveHighScore(ctx, w.namespace, w.score); err != nil {
		s.log.Warn("high score write failed",
			zap.String("namespace", w.namespace),
			zap.Int("score", w.score),
			zap.Error(err))
	}
}

// Close stops accepting writes and waits until queued ones reach the backend.
func (s *AsyncStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	close(s.writes)
	s.mu.Unlock()
	<-s.done
}
