package loop

import "time"

// SpawnState tracks meteor spawn timing and the difficulty curve of one session.
type SpawnState struct {
	SpawnTimer      time.Duration
	SpawnInterval   time.Duration
	DifficultyTimer time.Duration
	Step            int // Difficulty steps taken this session
}

func newSpawnState(cfg *Config) SpawnState {
	return SpawnState{SpawnInterval: cfg.InitialSpawnInterval}
}

// AdvanceDifficulty accumulates dt and shrinks the spawn interval once per
// difficulty interval. It reports whether a step was taken.
func (s *SpawnState) AdvanceDifficulty(dt time.Duration, cfg *Config) bool {
	s.DifficultyTimer += dt
	if cfg.DifficultyInterval <= 0 || s.DifficultyTimer < cfg.DifficultyInterval {
		return false
	}
	s.DifficultyTimer = 0
	s.Step++

	next := time.Duration(float64(s.SpawnInterval) * (1 - cfg.SpawnRateIncrease))
	if cfg.MinSpawnInterval > 0 && next < cfg.MinSpawnInterval {
		next = cfg.MinSpawnInterval
	}
	s.SpawnInterval = next
	return true
}

// AdvanceSpawn accumulates dt and reports whether a meteor is due.
// The timer restarts from zero, dropping any overshoot.
func (s *SpawnState) AdvanceSpawn(dt time.Duration) bool {
	s.SpawnTimer += dt
	if s.SpawnTimer < s.SpawnInterval {
		return false
	}
	s.SpawnTimer = 0
	return true
}
