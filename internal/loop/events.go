package loop

import "github.com/tomz197/meteorshtorm/internal/object"

// EventType identifies something the presentation may want to react to.
type EventType int

const (
	EventBulletFired     EventType = iota // Bullet set, X/Y is the muzzle
	EventBulletReleased                   // Handle of the bullet returned to its pool
	EventMeteorSpawned                    // Meteor set
	EventMeteorHit                        // A hit that did not destroy the meteor
	EventMeteorDestroyed                  // X/Y, Size and Score of the destroyed meteor
	EventMeteorReleased                   // Handle of the meteor returned to its pool
	EventPlayerHit                        // The ship survived a meteor contact
	EventPlayerDied                       // X/Y is the wreck position
	EventLevelUp                          // Level is the new level
	EventSessionOver                      // Score is the final score
)

var eventNames = [...]string{
	EventBulletFired:     "bullet_fired",
	EventBulletReleased:  "bullet_released",
	EventMeteorSpawned:   "meteor_spawned",
	EventMeteorHit:       "meteor_hit",
	EventMeteorDestroyed: "meteor_destroyed",
	EventMeteorReleased:  "meteor_released",
	EventPlayerHit:       "player_hit",
	EventPlayerDied:      "player_died",
	EventLevelUp:         "level_up",
	EventSessionOver:     "session_over",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[t]
}

// Event is a discrete notification produced by a tick or a key press.
type Event struct {
	Type   EventType
	X, Y   float64
	Size   object.MeteorSize
	Score  int
	Level  int
	Handle object.Handle

	// Set on spawn and release events. A handle attached to an entity that is
	// released in the tick it spawned is only reachable through these.
	Bullet *object.Bullet
	Meteor *object.Meteor
}
