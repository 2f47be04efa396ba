package loop

import (
	"math"
	"slices"

	"github.com/tomz197/meteorshtorm/internal/object"
	"github.com/tomz197/meteorshtorm/internal/physics"
)

// Collision pairs a bullet with a meteor it overlaps.
type Collision struct {
	Bullet *object.Bullet
	Meteor *object.Meteor
}

// Detector finds overlapping entities. It holds no game state, only scratch
// buffers reused between frames; results are valid until the next call.
type Detector struct {
	grid       *physics.SpatialGrid
	candidates []int
	bulletHits []Collision
	playerHits []*object.Meteor
}

// NewDetector sizes the broad-phase grid so any overlapping bullet/meteor pair
// lies in neighboring cells.
func NewDetector(arena object.Arena, bullet object.BulletConfig, meteors *object.MeteorClasses) *Detector {
	extent := meteors.MaxExtent()
	cell := math.Max((bullet.Width+extent)/2, (bullet.Height+extent)/2)
	return &Detector{
		grid: physics.NewSpatialGrid(arena.Width, arena.Height, cell),
	}
}

// BulletMeteor reports every overlapping (active bullet, meteor) pair. Pairs come
// out ordered by bullet, then by meteor, as in the input slices. A bullet touching
// two meteors yields two collisions and so does a meteor touched by two bullets.
func (d *Detector) BulletMeteor(bullets []*object.Bullet, meteors []*object.Meteor) []Collision {
	d.bulletHits = d.bulletHits[:0]
	if len(bullets) == 0 || len(meteors) == 0 {
		return d.bulletHits
	}

	d.grid.Clear()
	for i, m := range meteors {
		d.grid.Insert(m.X, m.Y, i)
	}

	for _, b := range bullets {
		if !b.Active {
			continue
		}
		box := b.Bounds()
		d.candidates = d.candidates[:0]
		d.grid.QueryAround(b.X, b.Y, func(i int) bool {
			if box.Overlaps(meteors[i].Bounds()) {
				d.candidates = append(d.candidates, i)
			}
			return false
		})
		slices.Sort(d.candidates)
		for _, i := range d.candidates {
			d.bulletHits = append(d.bulletHits, Collision{Bullet: b, Meteor: meteors[i]})
		}
	}
	return d.bulletHits
}

// PlayerMeteor returns the active meteors overlapping the player, or nothing if the
// player is dead.
func (d *Detector) PlayerMeteor(p *object.Player, meteors []*object.Meteor) []*object.Meteor {
	d.playerHits = d.playerHits[:0]
	if !p.Alive {
		return d.playerHits
	}
	box := p.Bounds()
	for _, m := range meteors {
		if m.Active && box.Overlaps(m.Bounds()) {
			d.playerHits = append(d.playerHits, m)
		}
	}
	return d.playerHits
}
