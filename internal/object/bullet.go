package object

import "github.com/tomz197/meteorshtorm/internal/physics"

// BulletConfig tunes player bullets.
type BulletConfig struct {
	Speed  float64 `toml:"speed"` // Upward units per tick
	Damage int     `toml:"damage"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Bullet travels straight up until it leaves the top of the arena.
type Bullet struct {
	X, Y   float64
	VY     float64
	Active bool
	Handle Handle

	cfg BulletConfig
}

// NewBullet creates an inactive bullet, ready to be reset by a pool.
func NewBullet(cfg BulletConfig) *Bullet {
	return &Bullet{cfg: cfg}
}

// Reset places the bullet at the muzzle position and activates it.
func (b *Bullet) Reset(x, y float64) {
	b.X = x
	b.Y = y
	b.VY = -b.cfg.Speed
	b.Active = true
	b.Handle = 0
}

// Update advances the bullet one tick and reports whether it is still active.
func (b *Bullet) Update() bool {
	if !b.Active {
		return false
	}
	b.Y += b.VY
	if b.Y < -b.cfg.Height {
		b.Active = false
	}
	return b.Active
}

// Deactivate marks the bullet spent.
func (b *Bullet) Deactivate() {
	b.Active = false
}

// Damage returns the damage dealt on impact.
func (b *Bullet) Damage() int {
	return b.cfg.Damage
}

// Bounds returns the bullet's collision box.
func (b *Bullet) Bounds() physics.Box {
	return physics.CenteredBox(b.X, b.Y, b.cfg.Width, b.cfg.Height)
}
