package loop

import (
	"math/rand"
	"testing"

	"github.com/tomz197/meteorshtorm/internal/object"
)

func newTestDetector(cfg *Config) *Detector {
	return NewDetector(cfg.Arena, cfg.Bullet, &cfg.Meteors)
}

func placeBullet(cfg *Config, x, y float64) *object.Bullet {
	b := object.NewBullet(cfg.Bullet)
	b.Reset(x, y)
	return b
}

func placeMeteor(cfg *Config, size object.MeteorSize, x, y float64) *object.Meteor {
	m := object.NewMeteor(&cfg.Meteors, cfg.Arena)
	m.Reset(object.MeteorSpawn{Size: size, X: x})
	m.Y = y
	return m
}

func TestBulletMeteorMultiHit(t *testing.T) {
	cfg := DefaultConfig()
	d := newTestDetector(&cfg)

	// One bullet between two overlapping small meteors, a second bullet on the right one.
	b1 := placeBullet(&cfg, 500, 500)
	b2 := placeBullet(&cfg, 520, 500)
	m1 := placeMeteor(&cfg, object.MeteorSmall, 485, 500)
	m2 := placeMeteor(&cfg, object.MeteorSmall, 515, 500)

	got := d.BulletMeteor([]*object.Bullet{b1, b2}, []*object.Meteor{m1, m2})
	want := []Collision{{b1, m1}, {b1, m2}, {b2, m2}}
	if len(got) != len(want) {
		t.Fatalf("collisions = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("collision %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBulletMeteorSkipsInactiveBullets(t *testing.T) {
	cfg := DefaultConfig()
	d := newTestDetector(&cfg)
	b := placeBullet(&cfg, 500, 500)
	b.Deactivate()
	m := placeMeteor(&cfg, object.MeteorLarge, 500, 500)
	if got := d.BulletMeteor([]*object.Bullet{b}, []*object.Meteor{m}); len(got) != 0 {
		t.Fatalf("inactive bullet collided: %+v", got)
	}
}

func TestBulletMeteorTouchingEdgesDoNotCollide(t *testing.T) {
	cfg := DefaultConfig()
	d := newTestDetector(&cfg)
	// Bullet half width 4 plus small meteor half width 20.
	b := placeBullet(&cfg, 524, 500)
	m := placeMeteor(&cfg, object.MeteorSmall, 500, 500)
	if got := d.BulletMeteor([]*object.Bullet{b}, []*object.Meteor{m}); len(got) != 0 {
		t.Fatal("edge contact reported as collision")
	}
	b.X = 523.9
	if got := d.BulletMeteor([]*object.Bullet{b}, []*object.Meteor{m}); len(got) != 1 {
		t.Fatal("overlap not reported")
	}
}

func TestBulletMeteorMatchesBruteForce(t *testing.T) {
	cfg := DefaultConfig()
	d := newTestDetector(&cfg)
	rng := rand.New(rand.NewSource(99))

	for round := 0; round < 50; round++ {
		var bullets []*object.Bullet
		var meteors []*object.Meteor
		for i := 0; i < 40; i++ {
			b := placeBullet(&cfg, rng.Float64()*2000-40, rng.Float64()*1200-60)
			if rng.Intn(10) == 0 {
				b.Deactivate()
			}
			bullets = append(bullets, b)
		}
		for i := 0; i < 60; i++ {
			size := object.MeteorSizes[rng.Intn(object.MeteorSizeCount)]
			meteors = append(meteors, placeMeteor(&cfg, size, rng.Float64()*2000-40, rng.Float64()*1200-60))
		}

		var want []Collision
		for _, b := range bullets {
			if !b.Active {
				continue
			}
			for _, m := range meteors {
				if b.Bounds().Overlaps(m.Bounds()) {
					want = append(want, Collision{b, m})
				}
			}
		}

		got := d.BulletMeteor(bullets, meteors)
		if len(got) != len(want) {
			t.Fatalf("round %d: %d collisions, brute force found %d", round, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("round %d: collision %d differs from brute force", round, i)
			}
		}
	}
}

func TestPlayerMeteor(t *testing.T) {
	cfg := DefaultConfig()
	d := newTestDetector(&cfg)
	p := object.NewPlayer(cfg.Player, cfg.Arena)
	hit := placeMeteor(&cfg, object.MeteorMedium, p.X+20, p.Y)
	miss := placeMeteor(&cfg, object.MeteorMedium, p.X+500, p.Y)
	gone := placeMeteor(&cfg, object.MeteorMedium, p.X, p.Y)
	gone.TakeDamage(10)

	got := d.PlayerMeteor(p, []*object.Meteor{hit, miss, gone})
	if len(got) != 1 || got[0] != hit {
		t.Fatalf("player hits = %v, want only the overlapping active meteor", got)
	}

	p.TakeDamage(1)
	if got := d.PlayerMeteor(p, []*object.Meteor{hit}); len(got) != 0 {
		t.Fatal("dead player still collides")
	}
}
