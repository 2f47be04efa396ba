package object

import (
	"time"

	"github.com/tomz197/meteorshtorm/internal/physics"
)

// PlayerConfig tunes the player ship.
type PlayerConfig struct {
	Speed        float64       `toml:"speed"`         // Horizontal units per tick
	HitPoints    int           `toml:"hit_points"`
	FireInterval time.Duration `toml:"fire_interval"` // Cooldown after each shot
	Width        float64       `toml:"width"`
	Height       float64       `toml:"height"`
	BottomOffset float64       `toml:"bottom_offset"` // Distance of the ship center above the arena bottom
}

// Player is the ship at the bottom of the arena.
type Player struct {
	X, Y     float64
	Health   int
	Alive    bool
	CanShoot bool

	cfg      PlayerConfig
	arena    Arena
	cooldown time.Duration
	keys     [keyCount]bool
}

// NewPlayer creates a player centered at the bottom of the arena.
func NewPlayer(cfg PlayerConfig, arena Arena) *Player {
	p := &Player{cfg: cfg, arena: arena}
	p.Reset()
	return p
}

// Reset restores the spawn state for a new session and forgets held keys.
func (p *Player) Reset() {
	p.X = p.arena.Width / 2
	p.Y = p.arena.Height - p.cfg.BottomOffset
	p.Health = p.cfg.HitPoints
	p.Alive = true
	p.CanShoot = true
	p.cooldown = 0
	p.keys = [keyCount]bool{}
}

// SetKey records the held state of a key.
func (p *Player) SetKey(k Key, pressed bool) {
	if k < 0 || k >= keyCount {
		return
	}
	p.keys[k] = pressed
}

// Held reports whether a key is currently held.
func (p *Player) Held(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	return p.keys[k]
}

// Update moves the ship by the held direction keys and advances the fire cooldown.
// Left is applied before right, so holding both leaves the ship in place.
func (p *Player) Update(dt time.Duration) {
	if !p.Alive {
		return
	}

	x := p.X
	if p.keys[KeyLeft] {
		x -= p.cfg.Speed
	}
	if p.keys[KeyRight] {
		x += p.cfg.Speed
	}
	half := p.cfg.Width / 2
	p.X = physics.Clamp(x, half, p.arena.Width-half)

	if p.cooldown > 0 {
		p.cooldown -= dt
	}
	p.CanShoot = p.cooldown <= 0
}

// Shoot returns the muzzle position and starts the cooldown.
// It reports ok=false without side effects while reloading or dead.
func (p *Player) Shoot() (x, y float64, ok bool) {
	if !p.Alive || p.cooldown > 0 {
		return 0, 0, false
	}
	p.cooldown = p.cfg.FireInterval
	p.CanShoot = false
	return p.X, p.Y - p.cfg.Height/2, true
}

// TakeDamage subtracts damage from health and reports whether the ship died.
func (p *Player) TakeDamage(damage int) (dead bool) {
	p.Health -= damage
	if p.Health <= 0 {
		p.Health = 0
		p.Alive = false
	}
	return !p.Alive
}

// Bounds returns the ship's collision box.
func (p *Player) Bounds() physics.Box {
	return physics.CenteredBox(p.X, p.Y, p.cfg.Width, p.cfg.Height)
}

// Config returns the tuning the player was built with.
func (p *Player) Config() PlayerConfig {
	return p.cfg
}
