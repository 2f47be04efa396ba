package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/meteorshtorm/internal/loop"
	"github.com/tomz197/meteorshtorm/internal/object"
)

// tuningFile is the YAML layout of the tuning tables. Entries are keyed by
// meteor size name and only override the fields they set.
type tuningFile struct {
	Meteors     map[string]yaml.Node `yaml:"meteors"`
	Explosions  map[string]yaml.Node `yaml:"explosions"`
	PlayerDeath *yaml.Node           `yaml:"player_death"`
}

// LoadTuning overlays the meteor classes and explosion presets of game with the
// tables in a YAML file.
func LoadTuning(path string, game *loop.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tuning %s: %w", path, err)
	}
	var f tuningFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse tuning %s: %w", path, err)
	}

	meteors := game.Meteors
	for name, node := range f.Meteors {
		size, err := object.ParseMeteorSize(name)
		if err != nil {
			return fmt.Errorf("tuning %s: meteors: %w", path, err)
		}
		if err := node.Decode(&meteors[size]); err != nil {
			return fmt.Errorf("tuning %s: meteors.%s: %w", path, name, err)
		}
	}

	explosions := game.Explosions
	for name, node := range f.Explosions {
		size, err := object.ParseMeteorSize(name)
		if err != nil {
			return fmt.Errorf("tuning %s: explosions: %w", path, err)
		}
		if err := node.Decode(&explosions[size]); err != nil {
			return fmt.Errorf("tuning %s: explosions.%s: %w", path, name, err)
		}
	}

	death := game.DeathExplosion
	if f.PlayerDeath != nil {
		if err := f.PlayerDeath.Decode(&death); err != nil {
			return fmt.Errorf("tuning %s: player_death: %w", path, err)
		}
	}

	for _, size := range object.MeteorSizes {
		m := meteors[size]
		if m.HitPoints <= 0 || m.Width <= 0 || m.Height <= 0 {
			return fmt.Errorf("tuning %s: meteor %s needs positive hit_points, width and height", path, size)
		}
	}

	game.Meteors = meteors
	game.Explosions = explosions
	game.DeathExplosion = death
	return nil
}
