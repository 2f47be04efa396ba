// Package loop runs the game simulation: one Session per player, advanced one
// tick at a time by the frame loop of a front-end.
package loop

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/meteorshtorm/internal/object"
	"github.com/tomz197/meteorshtorm/internal/pool"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseIdle    Phase = iota // Built, no session started yet
	PhaseRunning              // Simulation advancing
	PhaseDying                // Player dead, waiting out the game-over delay
	PhaseOver                 // Session finished, waiting for Start
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseDying:
		return "dying"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Options carries a Session's collaborators. Every field is optional.
type Options struct {
	Logger    *zap.Logger
	Rand      *rand.Rand
	Store     HighScoreStore
	Namespace string // Defaults to DefaultNamespace
}

type muzzle struct{ x, y float64 }

// Session is the frame orchestrator of one player's game. It is not safe for
// concurrent use; a single front-end goroutine drives it.
//
// Slices returned by Tick and SetKey are reused by the next call.
type Session struct {
	cfg           Config
	log           *zap.Logger
	rng           *rand.Rand
	meteorClasses object.MeteorClasses

	player    *object.Player
	bullets   *pool.Pool[*object.Bullet, muzzle]
	meteors   *pool.Pool[*object.Meteor, object.MeteorSpawn]
	detector  *Detector
	score     *ScoreTracker
	spawn     SpawnState
	particles *object.ParticleSystem
	stars     *object.Starfield

	running   bool
	phase     Phase
	overTimer time.Duration
	elapsed   time.Duration

	events    []Event
	bulletBuf []*object.Bullet
	meteorBuf []*object.Meteor
}

// NewSession builds a session in PhaseIdle. Call Start to begin playing.
func NewSession(cfg Config, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	s := &Session{
		cfg:           cfg,
		log:           log,
		rng:           rng,
		meteorClasses: cfg.Meteors,
		events:        make([]Event, 0, 32),
	}
	s.player = object.NewPlayer(cfg.Player, cfg.Arena)
	s.bullets = pool.New(
		func() *object.Bullet { return object.NewBullet(cfg.Bullet) },
		func(b *object.Bullet, at muzzle) { b.Reset(at.x, at.y) },
		cfg.BulletPrewarm,
	)
	s.meteors = pool.New(
		func() *object.Meteor { return object.NewMeteor(&s.meteorClasses, cfg.Arena) },
		func(m *object.Meteor, sp object.MeteorSpawn) { m.Reset(sp) },
		cfg.MeteorPrewarm,
	)
	s.detector = NewDetector(cfg.Arena, cfg.Bullet, &s.meteorClasses)
	s.score = NewScoreTracker(context.Background(), opts.Store, namespace, log)
	s.particles = object.NewParticleSystem(cfg.ParticleGravity, rng)
	s.stars = object.NewStarfield(cfg.Starfield, cfg.Arena, rng)
	s.spawn = newSpawnState(&s.cfg)
	return s
}

// Start begins a new session, returning every pooled entity and clearing effects.
// Presentation handles of entities still in play are dropped without release events.
func (s *Session) Start() {
	s.bullets.ReleaseAll()
	s.meteors.ReleaseAll()
	s.player.Reset()
	s.score.Reset()
	s.particles.Clear()
	s.spawn = newSpawnState(&s.cfg)
	s.overTimer = 0
	s.elapsed = 0
	s.running = true
	s.phase = PhaseRunning

	s.log.Info("session started", zap.Int("high_score", s.score.State().HighScore))
}

// Running reports whether the simulation is advancing.
func (s *Session) Running() bool {
	return s.running
}

// Phase returns the lifecycle stage.
func (s *Session) Phase() Phase {
	return s.phase
}

// Score returns the scoreboard.
func (s *Session) Score() ScoreState {
	return s.score.State()
}

// Player returns the ship. Callers must treat it as read-only.
func (s *Session) Player() *object.Player {
	return s.player
}

// Arena returns the playfield size.
func (s *Session) Arena() object.Arena {
	return s.cfg.Arena
}

// Elapsed returns the simulated time of the current session.
func (s *Session) Elapsed() time.Duration {
	return s.elapsed
}

// SpawnState returns the spawn and difficulty timers.
func (s *Session) SpawnState() SpawnState {
	return s.spawn
}

// SetKey forwards a key state change. Pressing fire shoots once if the cooldown allows.
func (s *Session) SetKey(k object.Key, pressed bool) []Event {
	s.events = s.events[:0]
	if !s.running {
		return s.events
	}
	s.player.SetKey(k, pressed)
	if k == object.KeyFire && pressed {
		s.fire()
	}
	return s.events
}

// Press is SetKey(k, true).
func (s *Session) Press(k object.Key) []Event {
	return s.SetKey(k, true)
}

// Release is SetKey(k, false).
func (s *Session) Release(k object.Key) []Event {
	return s.SetKey(k, false)
}

func (s *Session) fire() {
	x, y, ok := s.player.Shoot()
	if !ok {
		return
	}
	b := s.bullets.Acquire(muzzle{x, y})
	s.emit(Event{Type: EventBulletFired, X: x, Y: y, Bullet: b})
}

// Tick advances the session by dt: difficulty, spawning, movement, then collisions.
// Once the player is dead only the game-over delay and decorative effects advance.
func (s *Session) Tick(dt time.Duration) []Event {
	s.events = s.events[:0]
	if dt < 0 {
		dt = 0
	}

	switch s.phase {
	case PhaseRunning:
		s.elapsed += dt
		s.updateDifficulty(dt)
		s.updateSpawning(dt)
		s.updateEntities(dt)
		s.resolveCollisions()
	case PhaseDying:
		s.stars.Update()
		s.particles.Update(dt)
		s.overTimer -= dt
		if s.overTimer <= 0 {
			s.finish()
		}
	}
	return s.events
}

func (s *Session) updateDifficulty(dt time.Duration) {
	if s.spawn.AdvanceDifficulty(dt, &s.cfg) {
		s.log.Debug("difficulty increased",
			zap.Int("step", s.spawn.Step),
			zap.Duration("spawn_interval", s.spawn.SpawnInterval))
	}
}

func (s *Session) updateSpawning(dt time.Duration) {
	if !s.spawn.AdvanceSpawn(dt) {
		return
	}
	m := s.meteors.Acquire(object.RandomMeteorSpawn(s.rng, s.cfg.Arena, s.cfg.SpawnMargin))
	s.emit(Event{Type: EventMeteorSpawned, X: m.X, Y: m.Y, Size: m.Size, Meteor: m})
}

func (s *Session) updateEntities(dt time.Duration) {
	s.player.Update(dt)
	s.stars.Update()
	s.particles.Update(dt)

	s.bulletBuf = s.bullets.AppendActive(s.bulletBuf[:0])
	for _, b := range s.bulletBuf {
		if !b.Update() {
			s.releaseBullet(b)
		}
	}

	s.meteorBuf = s.meteors.AppendActive(s.meteorBuf[:0])
	for _, m := range s.meteorBuf {
		if !m.Update() {
			s.releaseMeteor(m)
		}
	}
}

func (s *Session) resolveCollisions() {
	s.bulletBuf = s.bullets.AppendActive(s.bulletBuf[:0])
	s.meteorBuf = s.meteors.AppendActive(s.meteorBuf[:0])

	for _, c := range s.detector.BulletMeteor(s.bulletBuf, s.meteorBuf) {
		s.resolveHit(c)
	}

	if hits := s.detector.PlayerMeteor(s.player, s.meteorBuf); len(hits) > 0 {
		s.resolvePlayerHit(hits)
	}
}

func (s *Session) resolveHit(c Collision) {
	m := c.Meteor
	res := m.TakeDamage(c.Bullet.Damage())
	switch {
	case res.Destroyed:
		before := s.score.State().Level
		state := s.score.AddScore(res.ScoreValue)
		s.particles.SpawnExplosion(m.X, m.Y, s.cfg.Explosions[m.Size])
		s.emit(Event{Type: EventMeteorDestroyed, X: m.X, Y: m.Y, Size: m.Size, Score: res.ScoreValue, Handle: m.Handle})
		if state.Level > before {
			s.log.Debug("level up", zap.Int("level", state.Level), zap.Int("score", state.Score))
			s.emit(Event{Type: EventLevelUp, Level: state.Level})
		}
		s.releaseMeteor(m)
	case res.Applied:
		s.emit(Event{Type: EventMeteorHit, X: m.X, Y: m.Y, Size: m.Size, Handle: m.Handle})
	}

	c.Bullet.Deactivate()
	s.releaseBullet(c.Bullet)
}

func (s *Session) resolvePlayerHit(hits []*object.Meteor) {
	p := s.player
	if !p.TakeDamage(s.cfg.ContactDamage) {
		s.emit(Event{Type: EventPlayerHit, X: p.X, Y: p.Y})
		for _, m := range hits {
			s.releaseMeteor(m)
		}
		return
	}

	s.running = false
	s.phase = PhaseDying
	s.overTimer = s.cfg.GameOverDelay
	s.particles.SpawnExplosion(p.X, p.Y, s.cfg.DeathExplosion)
	s.emit(Event{Type: EventPlayerDied, X: p.X, Y: p.Y})

	if s.overTimer <= 0 {
		s.finish()
	}
}

func (s *Session) finish() {
	state := s.score.State()
	s.phase = PhaseOver
	s.emit(Event{Type: EventSessionOver, Score: state.Score, Level: state.Level})
	s.log.Info("session over",
		zap.Int("score", state.Score),
		zap.Int("high_score", state.HighScore),
		zap.Int("meteors", state.MeteorsDestroyed),
		zap.Int("level", state.Level),
		zap.Duration("elapsed", s.elapsed))
}

func (s *Session) releaseBullet(b *object.Bullet) {
	if s.bullets.Release(b) {
		s.emit(Event{Type: EventBulletReleased, Handle: b.Handle, Bullet: b})
	}
}

func (s *Session) releaseMeteor(m *object.Meteor) {
	if s.meteors.Release(m) {
		s.emit(Event{Type: EventMeteorReleased, Handle: m.Handle, Meteor: m})
	}
}

func (s *Session) emit(ev Event) {
	s.events = append(s.events, ev)
}
