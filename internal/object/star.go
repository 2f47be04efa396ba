package object

import "math/rand"

// Star is one point of the scrolling backdrop.
type Star struct {
	X, Y       float64
	Speed      float64 // Units per tick
	Brightness float64 // 0..1
	Size       float64
}

// StarfieldConfig tunes the backdrop.
type StarfieldConfig struct {
	Count            int     `toml:"count"`
	SpeedMin         float64 `toml:"speed_min"`
	SpeedSpread      float64 `toml:"speed_spread"`
	BrightnessMin    float64 `toml:"brightness_min"`
	BrightnessSpread float64 `toml:"brightness_spread"`
	SizeMin          float64 `toml:"size_min"`
	SizeSpread       float64 `toml:"size_spread"`
	Margin           float64 `toml:"margin"` // Distance past the bottom edge before a star respawns above the top
}

// Starfield scrolls stars downward and recycles those that leave the bottom.
type Starfield struct {
	stars []Star
	cfg   StarfieldConfig
	arena Arena
	rng   *rand.Rand
}

// NewStarfield scatters cfg.Count stars across the arena.
func NewStarfield(cfg StarfieldConfig, arena Arena, rng *rand.Rand) *Starfield {
	f := &Starfield{
		stars: make([]Star, cfg.Count),
		cfg:   cfg,
		arena: arena,
		rng:   rng,
	}
	for i := range f.stars {
		f.stars[i] = f.roll(rng.Float64() * arena.Height)
	}
	return f
}

func (f *Starfield) roll(y float64) Star {
	return Star{
		X:          f.rng.Float64() * f.arena.Width,
		Y:          y,
		Speed:      f.cfg.SpeedMin + f.rng.Float64()*f.cfg.SpeedSpread,
		Brightness: f.cfg.BrightnessMin + f.rng.Float64()*f.cfg.BrightnessSpread,
		Size:       f.cfg.SizeMin + f.rng.Float64()*f.cfg.SizeSpread,
	}
}

// Update scrolls every star one tick.
func (f *Starfield) Update() {
	limit := f.arena.Height + f.cfg.Margin
	for i := range f.stars {
		s := &f.stars[i]
		s.Y += s.Speed
		if s.Y > limit {
			*s = f.roll(-f.cfg.Margin)
		}
	}
}

// Len returns the number of stars.
func (f *Starfield) Len() int {
	return len(f.stars)
}

// AppendStars appends copies of the stars to dst.
func (f *Starfield) AppendStars(dst []Star) []Star {
	return append(dst, f.stars...)
}
