package object

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tomz197/meteorshtorm/internal/physics"
)

// MeteorSize is the size class of a meteor.
type MeteorSize int

const (
	MeteorSmall MeteorSize = iota
	MeteorMedium
	MeteorLarge

	MeteorSizeCount = 3
)

// MeteorSizes lists every size class in ascending order.
var MeteorSizes = [MeteorSizeCount]MeteorSize{MeteorSmall, MeteorMedium, MeteorLarge}

func (s MeteorSize) String() string {
	switch s {
	case MeteorSmall:
		return "small"
	case MeteorMedium:
		return "medium"
	case MeteorLarge:
		return "large"
	default:
		return fmt.Sprintf("MeteorSize(%d)", int(s))
	}
}

// ParseMeteorSize converts a size name back into a MeteorSize.
func ParseMeteorSize(name string) (MeteorSize, error) {
	for _, s := range MeteorSizes {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown meteor size %q", name)
}

// MeteorConfig tunes one meteor size class.
type MeteorConfig struct {
	HitPoints     int     `yaml:"hit_points"`
	Speed         float64 `yaml:"speed"` // Units per tick along the drift direction
	ScoreValue    int     `yaml:"score_value"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	RotationSpeed float64 `yaml:"rotation_speed"` // Radians per tick
}

// MeteorClasses holds the configuration of every size class, indexed by MeteorSize.
type MeteorClasses [MeteorSizeCount]MeteorConfig

// Get returns the configuration for size, falling back to the small class.
func (c *MeteorClasses) Get(size MeteorSize) MeteorConfig {
	if size < 0 || int(size) >= len(c) {
		return c[MeteorSmall]
	}
	return c[size]
}

// MaxExtent returns the largest width or height of any class.
func (c *MeteorClasses) MaxExtent() float64 {
	var m float64
	for _, cfg := range c {
		m = math.Max(m, math.Max(cfg.Width, cfg.Height))
	}
	return m
}

// maxDrift is the largest deviation from straight down, in radians.
const maxDrift = 10 * math.Pi / 180

// MeteorSpawn carries the parameters a pooled meteor is reset with.
type MeteorSpawn struct {
	Size  MeteorSize
	X     float64
	Drift float64 // Radians off vertical, positive drifts right
}

// RandomMeteorSpawn rolls a size, a horizontal position at least margin away from
// either side, and a drift angle.
func RandomMeteorSpawn(rng *rand.Rand, arena Arena, margin float64) MeteorSpawn {
	span := arena.Width - 2*margin
	if span < 0 {
		span = 0
	}
	return MeteorSpawn{
		Size:  MeteorSizes[rng.Intn(MeteorSizeCount)],
		X:     rng.Float64()*span + margin,
		Drift: (rng.Float64()*2 - 1) * maxDrift,
	}
}

// DamageResult is the outcome of a hit on a meteor.
type DamageResult struct {
	Applied    bool // False if the meteor was already destroyed
	Destroyed  bool
	ScoreValue int // Non-zero only when Destroyed
}

// Meteor falls from the top of the arena and rotates as it goes.
type Meteor struct {
	X, Y     float64
	VX, VY   float64
	Rotation float64
	Health   int
	Size     MeteorSize
	Active   bool
	Handle   Handle

	classes *MeteorClasses
	cfg     MeteorConfig
	arena   Arena
}

// NewMeteor creates an inactive meteor, ready to be reset by a pool.
func NewMeteor(classes *MeteorClasses, arena Arena) *Meteor {
	return &Meteor{classes: classes, arena: arena}
}

// Reset re-rolls the meteor from a spawn description, just above the top edge.
func (m *Meteor) Reset(s MeteorSpawn) {
	m.cfg = m.classes.Get(s.Size)
	m.Size = s.Size
	m.X = s.X
	m.Y = -m.cfg.Height
	m.VX = math.Sin(s.Drift) * m.cfg.Speed
	m.VY = math.Cos(s.Drift) * m.cfg.Speed
	m.Rotation = 0
	m.Health = m.cfg.HitPoints
	m.Active = true
	m.Handle = 0
}

// Update advances the meteor one tick and reports whether it is still active.
// A meteor leaving any edge by more than its own size is deactivated.
func (m *Meteor) Update() bool {
	if !m.Active {
		return false
	}
	m.X += m.VX
	m.Y += m.VY
	m.Rotation += m.cfg.RotationSpeed

	if m.Y > m.arena.Height+m.cfg.Height ||
		m.Y < -m.cfg.Height ||
		m.X < -m.cfg.Width ||
		m.X > m.arena.Width+m.cfg.Width {
		m.Active = false
	}
	return m.Active
}

// TakeDamage applies a hit. Hits on an already destroyed meteor are ignored.
func (m *Meteor) TakeDamage(damage int) DamageResult {
	if !m.Active {
		return DamageResult{}
	}
	m.Health -= damage
	if m.Health > 0 {
		return DamageResult{Applied: true}
	}
	m.Active = false
	return DamageResult{Applied: true, Destroyed: true, ScoreValue: m.cfg.ScoreValue}
}

// Bounds returns the meteor's collision box.
func (m *Meteor) Bounds() physics.Box {
	return physics.CenteredBox(m.X, m.Y, m.cfg.Width, m.cfg.Height)
}

// Config returns the class configuration the meteor was last reset with.
func (m *Meteor) Config() MeteorConfig {
	return m.cfg
}
