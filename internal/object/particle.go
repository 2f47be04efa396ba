package object

import (
	"math"
	"math/rand"
	"time"
)

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y    float64 // Position
	VX, VY  float64 // Velocity in units per tick
	Life    time.Duration
	MaxLife time.Duration // Initial lifetime (for fade calculation)
	Color   string        // "#rrggbb"
	Size    float64
}

// Fade returns the remaining fraction of the particle's lifetime in (0, 1].
func (p Particle) Fade() float64 {
	if p.MaxLife <= 0 {
		return 1
	}
	return float64(p.Life) / float64(p.MaxLife)
}

// ExplosionConfig describes a radial particle burst.
type ExplosionConfig struct {
	ParticleCount int           `yaml:"particle_count"`
	Speed         float64       `yaml:"speed"`     // Peak speed in units per tick
	SpeedMin      float64       `yaml:"speed_min"` // Lowest speed factor; factors are uniform in [SpeedMin, 1)
	Life          time.Duration `yaml:"life"`
	SizeMin       float64       `yaml:"size_min"`
	SizeSpread    float64       `yaml:"size_spread"`
	Colors        []string      `yaml:"colors"`
}

// ParticleSystem owns every live particle. Particles are plain values, created by
// bursts and dropped in place once their lifetime runs out.
type ParticleSystem struct {
	particles []Particle
	gravity   float64 // Downward velocity gained per tick
	rng       *rand.Rand
}

// NewParticleSystem creates an empty particle system.
func NewParticleSystem(gravity float64, rng *rand.Rand) *ParticleSystem {
	return &ParticleSystem{
		particles: make([]Particle, 0, 128),
		gravity:   gravity,
		rng:       rng,
	}
}

// SpawnExplosion creates a burst of particles at (x, y) with evenly spaced directions.
func (s *ParticleSystem) SpawnExplosion(x, y float64, cfg ExplosionConfig) {
	if cfg.ParticleCount <= 0 {
		return
	}
	for i := 0; i < cfg.ParticleCount; i++ {
		angle := 2 * math.Pi * float64(i) / float64(cfg.ParticleCount)
		speed := cfg.Speed * (cfg.SpeedMin + s.rng.Float64()*(1-cfg.SpeedMin))

		color := "#ffffff"
		if len(cfg.Colors) > 0 {
			color = cfg.Colors[s.rng.Intn(len(cfg.Colors))]
		}

		s.particles = append(s.particles, Particle{
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    cfg.Life,
			MaxLife: cfg.Life,
			Color:   color,
			Size:    cfg.SizeMin + s.rng.Float64()*cfg.SizeSpread,
		})
	}
}

// Update moves every particle one tick, applies gravity and drops expired ones.
func (s *ParticleSystem) Update(dt time.Duration) {
	alive := s.particles[:0]
	for _, p := range s.particles {
		p.X += p.VX
		p.Y += p.VY
		p.Life -= dt
		p.VY += s.gravity
		if p.Life > 0 {
			alive = append(alive, p)
		}
	}
	clear(s.particles[len(alive):])
	s.particles = alive
}

// Clear drops every particle.
func (s *ParticleSystem) Clear() {
	clear(s.particles)
	s.particles = s.particles[:0]
}

// Len returns the number of live particles.
func (s *ParticleSystem) Len() int {
	return len(s.particles)
}

// AppendParticles appends copies of the live particles to dst.
func (s *ParticleSystem) AppendParticles(dst []Particle) []Particle {
	return append(dst, s.particles...)
}
