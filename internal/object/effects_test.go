package object

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestExplosionSpawnsEvenlySpacedParticles(t *testing.T) {
	ps := NewParticleSystem(0.1, rand.New(rand.NewSource(1)))
	cfg := ExplosionConfig{
		ParticleCount: 8,
		Speed:         3,
		SpeedMin:      0.5,
		Life:          time.Second,
		SizeMin:       2,
		SizeSpread:    3,
		Colors:        []string{"#ffaa00", "#ff6600"},
	}
	ps.SpawnExplosion(100, 200, cfg)

	got := ps.AppendParticles(nil)
	if len(got) != 8 {
		t.Fatalf("particles = %d, want 8", len(got))
	}
	for i, p := range got {
		speed := math.Hypot(p.VX, p.VY)
		if speed < 1.5 || speed >= 3 {
			t.Errorf("particle %d speed %v outside [1.5, 3)", i, speed)
		}
		want := 2 * math.Pi * float64(i) / 8
		angle := math.Atan2(p.VY, p.VX)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		if math.Abs(angle-want) > 1e-9 {
			t.Errorf("particle %d angle %v, want %v", i, angle, want)
		}
		if p.Size < 2 || p.Size >= 5 {
			t.Errorf("particle %d size %v outside [2, 5)", i, p.Size)
		}
		if p.Color != "#ffaa00" && p.Color != "#ff6600" {
			t.Errorf("particle %d color %q not from palette", i, p.Color)
		}
	}
}

func TestParticlesAgeOutAndFall(t *testing.T) {
	ps := NewParticleSystem(0.1, rand.New(rand.NewSource(1)))
	ps.SpawnExplosion(0, 0, ExplosionConfig{ParticleCount: 4, Speed: 1, SpeedMin: 1, Life: 100 * time.Millisecond})

	ps.Update(50 * time.Millisecond)
	if ps.Len() != 4 {
		t.Fatalf("after 50ms: %d particles, want 4", ps.Len())
	}
	p := ps.AppendParticles(nil)[0]
	// Particle 0 flies along +x; gravity is applied after the move.
	if p.X != 1 || p.Y != 0 || math.Abs(p.VY-0.1) > 1e-12 {
		t.Fatalf("particle after one tick = %+v", p)
	}
	if p.Fade() != 0.5 {
		t.Fatalf("fade = %v, want 0.5", p.Fade())
	}

	ps.Update(50 * time.Millisecond)
	if ps.Len() != 0 {
		t.Fatalf("after 100ms: %d particles, want 0", ps.Len())
	}
}

func TestParticleClear(t *testing.T) {
	ps := NewParticleSystem(0, rand.New(rand.NewSource(1)))
	ps.SpawnExplosion(0, 0, ExplosionConfig{ParticleCount: 10, Life: time.Second})
	ps.Clear()
	if ps.Len() != 0 {
		t.Fatalf("len = %d after Clear", ps.Len())
	}
}

func TestStarfieldRecyclesStars(t *testing.T) {
	cfg := StarfieldConfig{
		Count:            200,
		SpeedMin:         0.5,
		SpeedSpread:      2,
		BrightnessMin:    0.3,
		BrightnessSpread: 0.7,
		SizeMin:          1,
		SizeSpread:       2,
		Margin:           10,
	}
	f := NewStarfield(cfg, testArena, rand.New(rand.NewSource(5)))
	if f.Len() != 200 {
		t.Fatalf("stars = %d, want 200", f.Len())
	}

	for i := 0; i < 3000; i++ {
		f.Update()
		for _, s := range f.AppendStars(nil) {
			if s.Y > testArena.Height+cfg.Margin || s.Y < -cfg.Margin {
				t.Fatalf("tick %d: star y = %v escaped the field", i, s.Y)
			}
			if s.Speed < 0.5 || s.Speed >= 2.5 || s.Brightness < 0.3 || s.Brightness >= 1 {
				t.Fatalf("star attributes out of range: %+v", s)
			}
		}
	}
}
