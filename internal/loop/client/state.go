package client

import (
	"time"

	"github.com/tomz197/meteorshtorm/internal/loop"
)

// GameState represents the current screen of a client.
type GameState int

const (
	GameStateMenu     GameState = iota // Title screen
	GameStatePlaying                   // Session running (or dying)
	GameStateGameOver                  // Final score and restart prompt
	GameStateShutdown                  // Server is shutting down
)

func (g GameState) String() string {
	switch g {
	case GameStateMenu:
		return "menu"
	case GameStatePlaying:
		return "playing"
	case GameStateGameOver:
		return "game_over"
	case GameStateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Durations of transient HUD notices.
const (
	levelBannerTime  = 2 * time.Second
	recordNoticeTime = 4 * time.Second
	hitFlashTime     = 300 * time.Millisecond
)

// ClientState holds per-connection UI state. The game itself lives in the Session.
type ClientState struct {
	GameState     GameState
	prevGameState GameState
	Final         loop.ScoreState // Scoreboard of the last finished session
	newRecord     bool            // Final beat the hub's record
	survived      time.Duration   // Simulated length of the last finished session
	Running       bool            // Client loop running
	delta         time.Duration   // Frame delta time
	shutdownTimer float64         // Countdown before auto-disconnect on shutdown
	isInactive    bool            // Whether the client is in inactive warning state
	wasInactive   bool

	levelBanner  time.Duration
	bannerLevel  int
	hitFlash     time.Duration
	recordNotice time.Duration
	recordHolder string
	recordScore  int
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateMenu,
		Running:   true,
	}
}

// tick counts the transient notices down.
func (s *ClientState) tick(dt time.Duration) {
	s.levelBanner = max(s.levelBanner-dt, 0)
	s.hitFlash = max(s.hitFlash-dt, 0)
	s.recordNotice = max(s.recordNotice-dt, 0)
}
