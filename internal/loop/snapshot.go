package loop

import "github.com/tomz197/meteorshtorm/internal/object"

// BulletView is what the presentation needs to draw a bullet.
type BulletView struct {
	X, Y          float64
	Width, Height float64
	Handle        object.Handle
}

// MeteorView is what the presentation needs to draw a meteor.
type MeteorView struct {
	X, Y          float64
	Width, Height float64
	Rotation      float64
	Size          object.MeteorSize
	Handle        object.Handle
}

// PlayerView is what the presentation needs to draw the ship.
type PlayerView struct {
	X, Y          float64
	Width, Height float64
	Health        int
	Alive         bool
	CanShoot      bool
}

// Snapshot is a copy of everything visible in one frame. Reuse a Snapshot
// across frames to avoid reallocating its slices.
type Snapshot struct {
	Phase     Phase
	Arena     object.Arena
	Player    PlayerView
	Bullets   []BulletView
	Meteors   []MeteorView
	Particles []object.Particle
	Stars     []object.Star
	Score     ScoreState
}

// Snapshot fills snap with the current visible state.
func (s *Session) Snapshot(snap *Snapshot) {
	snap.Phase = s.phase
	snap.Arena = s.cfg.Arena
	snap.Score = s.score.State()

	p := s.player
	pc := p.Config()
	snap.Player = PlayerView{
		X: p.X, Y: p.Y,
		Width: pc.Width, Height: pc.Height,
		Health:   p.Health,
		Alive:    p.Alive,
		CanShoot: p.CanShoot,
	}

	s.bulletBuf = s.bullets.AppendActive(s.bulletBuf[:0])
	snap.Bullets = snap.Bullets[:0]
	for _, b := range s.bulletBuf {
		snap.Bullets = append(snap.Bullets, BulletView{
			X: b.X, Y: b.Y,
			Width: s.cfg.Bullet.Width, Height: s.cfg.Bullet.Height,
			Handle: b.Handle,
		})
	}

	s.meteorBuf = s.meteors.AppendActive(s.meteorBuf[:0])
	snap.Meteors = snap.Meteors[:0]
	for _, m := range s.meteorBuf {
		mc := m.Config()
		snap.Meteors = append(snap.Meteors, MeteorView{
			X: m.X, Y: m.Y,
			Width: mc.Width, Height: mc.Height,
			Rotation: m.Rotation,
			Size:     m.Size,
			Handle:   m.Handle,
		})
	}

	snap.Particles = s.particles.AppendParticles(snap.Particles[:0])
	snap.Stars = s.stars.AppendStars(snap.Stars[:0])
}

// Counts reports pool occupancy, for diagnostics.
func (s *Session) Counts() (bullets, meteors, particles int) {
	return s.bullets.Active(), s.meteors.Active(), s.particles.Len()
}
