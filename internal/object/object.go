// Package object holds the simulation state of every in-game entity.
//
// Entities are plain values mutated only by their own update step or by
// collision resolution. They never reference presentation state beyond the
// opaque Handle token, which the presentation assigns and reads back.
package object

// Arena is the fixed-size playfield in logical units. Nothing wraps around.
type Arena struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Key identifies a simulation input.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyFire

	keyCount
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyFire:
		return "fire"
	default:
		return "unknown"
	}
}

// Handle is an opaque presentation token attached to pooled entities.
// Zero means no handle. The simulation stores and reports it but never interprets it.
type Handle uint32
