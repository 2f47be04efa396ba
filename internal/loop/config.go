package loop

import (
	"time"

	"github.com/tomz197/meteorshtorm/internal/object"
)

// DefaultNamespace is the key the high score is persisted under.
const DefaultNamespace = "meteor-shtorm-highscore"

// Config tunes a game session. A Session copies it on construction and never mutates it.
type Config struct {
	Arena object.Arena `toml:"arena"`

	InitialSpawnInterval time.Duration `toml:"initial_spawn_interval"`
	SpawnRateIncrease    float64       `toml:"spawn_rate_increase"` // Fraction the spawn interval shrinks by per difficulty step
	DifficultyInterval   time.Duration `toml:"difficulty_interval"`
	MinSpawnInterval     time.Duration `toml:"min_spawn_interval"` // 0 disables the floor
	SpawnMargin          float64       `toml:"spawn_margin"`       // Horizontal keep-out at both sides for new meteors

	GameOverDelay   time.Duration `toml:"game_over_delay"` // Time between player death and session end; 0 ends immediately
	ContactDamage   int           `toml:"contact_damage"`  // Damage the player takes from a meteor
	ParticleGravity float64       `toml:"particle_gravity"`

	BulletPrewarm int `toml:"bullet_prewarm"`
	MeteorPrewarm int `toml:"meteor_prewarm"`

	Player    object.PlayerConfig    `toml:"player"`
	Bullet    object.BulletConfig    `toml:"bullet"`
	Starfield object.StarfieldConfig `toml:"starfield"`

	// Tuning tables, loaded from YAML rather than TOML.
	Meteors        object.MeteorClasses                           `toml:"-"`
	Explosions     [object.MeteorSizeCount]object.ExplosionConfig `toml:"-"`
	DeathExplosion object.ExplosionConfig                         `toml:"-"`
}

var (
	meteorColors = []string{"#ffaa00", "#ff6600", "#ff0000", "#ffffff", "#ffff00"}
	shipColors   = []string{"#00ffff", "#0099ff", "#ffffff", "#ffaa00"}
)

// DefaultConfig returns the stock game tuning.
func DefaultConfig() Config {
	return Config{
		Arena: object.Arena{Width: 1920, Height: 1080},

		InitialSpawnInterval: 1200 * time.Millisecond,
		SpawnRateIncrease:    0.05,
		DifficultyInterval:   20 * time.Second,
		MinSpawnInterval:     200 * time.Millisecond,
		SpawnMargin:          50,

		GameOverDelay:   2 * time.Second,
		ContactDamage:   1,
		ParticleGravity: 0.1,

		BulletPrewarm: 20,
		MeteorPrewarm: 15,

		Player: object.PlayerConfig{
			Speed:        8,
			HitPoints:    1,
			FireInterval: 250 * time.Millisecond,
			Width:        60,
			Height:       80,
			BottomOffset: 100,
		},
		Bullet: object.BulletConfig{
			Speed:  15,
			Damage: 1,
			Width:  8,
			Height: 20,
		},
		Starfield: object.StarfieldConfig{
			Count:            200,
			SpeedMin:         0.5,
			SpeedSpread:      2,
			BrightnessMin:    0.3,
			BrightnessSpread: 0.7,
			SizeMin:          1,
			SizeSpread:       2,
			Margin:           10,
		},

		Meteors: object.MeteorClasses{
			object.MeteorSmall:  {HitPoints: 1, Speed: 2.5, ScoreValue: 10, Width: 40, Height: 40, RotationSpeed: 0.02},
			object.MeteorMedium: {HitPoints: 2, Speed: 2, ScoreValue: 25, Width: 70, Height: 70, RotationSpeed: 0.015},
			object.MeteorLarge:  {HitPoints: 3, Speed: 1.5, ScoreValue: 50, Width: 100, Height: 100, RotationSpeed: 0.01},
		},
		Explosions: [object.MeteorSizeCount]object.ExplosionConfig{
			object.MeteorSmall: {
				ParticleCount: 8, Speed: 3, SpeedMin: 0.5, Life: time.Second,
				SizeMin: 2, SizeSpread: 3, Colors: meteorColors[:3],
			},
			object.MeteorMedium: {
				ParticleCount: 12, Speed: 4, SpeedMin: 0.5, Life: 1500 * time.Millisecond,
				SizeMin: 2, SizeSpread: 3, Colors: meteorColors[:4],
			},
			object.MeteorLarge: {
				ParticleCount: 20, Speed: 5, SpeedMin: 0.5, Life: 2 * time.Second,
				SizeMin: 2, SizeSpread: 3, Colors: meteorColors,
			},
		},
		DeathExplosion: object.ExplosionConfig{
			ParticleCount: 25, Speed: 6, SpeedMin: 0.3, Life: 2500 * time.Millisecond,
			SizeMin: 3, SizeSpread: 4, Colors: shipColors,
		},
	}
}
