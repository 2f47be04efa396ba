// Package config holds the fixed timing and layout constants of the terminal front-end.
// Game tuning lives in loop.Config.
package config

import "time"

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Largest render area in terminal cells. Bigger terminals get a centered,
// bordered play field.
const (
	MaxTermWidth  = 240
	MaxTermHeight = 68
)

// Minimum terminal size the game screens are laid out for.
const (
	MinTermWidth  = 60
	MinTermHeight = 18
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Blink period of prompts on the menu and game-over screens.
const PromptBlinkPeriod = 600 * time.Millisecond

// Meteor outlines
const (
	MeteorVertices  = 9
	MeteorRoughness = 0.3 // Max relative deviation of a vertex from the circle
)
