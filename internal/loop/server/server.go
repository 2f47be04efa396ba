// Package server is the hub shared by every terminal connected to one process.
// Each client plays its own Session; the hub hands sessions out, shares the
// high-score store between them and coordinates shutdown.
package server

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/meteorshtorm/internal/loop"
)

// GameServer is the interface clients use to talk to the hub.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	NewSession(clientID int) *loop.Session
	ReportScore(clientID int, score loop.ScoreState) bool
	Record() int
	Leaderboard(n int) []TopScoreEntry
	Players() int
}

// Server tracks connected clients.
type Server struct {
	cfg       loop.Config
	store     loop.HighScoreStore
	namespace string
	log       *zap.Logger

	clients      map[int]*ClientHandle
	nextClientID int
	record       int // Best score known to the hub, stored or reported
	mu           sync.RWMutex
	seed         atomic.Int64
	shuttingDown atomic.Bool
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID        int
	Username  string           // Display name for this client
	EventsCh  chan ClientEvent // Events sent to client (shutdown, records)
	BestScore int              // Best final score of this connection
	Games     int              // Finished sessions
	Joined    time.Time
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type     ClientEventType
	Username string // Record holder for EventNewRecord
	Score    int
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventNewRecord                      // Someone on this server beat the stored high score
)

// Options configures a Server. Every field but Config is optional.
type Options struct {
	Config    loop.Config
	Store     loop.HighScoreStore
	Namespace string
	Logger    *zap.Logger
	Seed      int64 // Base seed for per-session randomness; 0 uses the clock
}

// NewServer creates a hub that builds sessions with opts.Config.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ns := opts.Namespace
	if ns == "" {
		ns = loop.DefaultNamespace
	}
	s := &Server{
		cfg:          opts.Config,
		store:        opts.Store,
		namespace:    ns,
		log:          log,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.seed.Store(seed)
	s.record = s.loadRecord()
	return s
}

func (s *Server) loadRecord() int {
	if s.store == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	score, err := s.store.LoadHighScore(ctx, s.namespace)
	if err != nil {
		if !errors.Is(err, loop.ErrNoHighScore) {
			s.log.Warn("high score unavailable, starting from zero", zap.Error(err))
		}
		return 0
	}
	return score
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
		Joined:   time.Now(),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle

	s.log.Info("client registered",
		zap.Int("client", handle.ID),
		zap.String("user", username),
		zap.Int("players", len(s.clients)))

	if s.shuttingDown.Load() {
		handle.EventsCh <- ClientEvent{Type: EventServerShutdown}
	}
	return handle
}

// UnregisterClient removes a client and closes its event channel.
// Unknown IDs are ignored.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)

	s.log.Info("client unregistered",
		zap.Int("client", clientID),
		zap.Int("games", handle.Games),
		zap.Int("best", handle.BestScore),
		zap.Duration("connected", time.Since(handle.Joined)))
}

// NewSession builds an idle session for a client, sharing the hub's store.
// Every session gets its own random source.
func (s *Server) NewSession(clientID int) *loop.Session {
	log := s.log.With(zap.Int("client", clientID))
	s.mu.RLock()
	if handle, ok := s.clients[clientID]; ok && handle.Username != "" {
		log = log.With(zap.String("user", handle.Username))
	}
	s.mu.RUnlock()

	seed := s.seed.Add(1)
	return loop.NewSession(s.cfg, loop.Options{
		Logger:    log,
		Rand:      rand.New(rand.NewSource(seed)),
		Store:     s.store,
		Namespace: s.namespace,
	})
}

// ReportScore records the final scoreboard of a finished session and reports
// whether it beat the hub's record. A new record is announced to every other client.
//
// Sessions read the store once when built, so a session can hold a stale high
// score; only a score above the hub's record counts.
func (s *Server) ReportScore(clientID int, score loop.ScoreState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return false
	}
	handle.Games++
	if score.Score > handle.BestScore {
		handle.BestScore = score.Score
	}
	newRecord := score.NewHighScore() && score.Score > s.record
	s.record = max(s.record, score.Score, score.HighScore)
	if !newRecord {
		return false
	}

	s.log.Info("new high score", zap.Int("client", clientID), zap.String("user", handle.Username), zap.Int("score", score.Score))
	for id, other := range s.clients {
		if id == clientID {
			continue
		}
		select {
		case other.EventsCh <- ClientEvent{Type: EventNewRecord, Username: handle.Username, Score: score.Score}:
		default:
		}
	}
	return true
}

// Record returns the best score the hub knows of.
func (s *Server) Record() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
func (s *Server) Shutdown(timeout time.Duration) {
	s.shuttingDown.Store(true)

	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Players() == 0 {
			return
		}
		select {
		case <-deadline:
			s.log.Warn("shutdown timeout, clients still connected", zap.Int("players", s.Players()))
			return
		case <-ticker.C:
		}
	}
}
