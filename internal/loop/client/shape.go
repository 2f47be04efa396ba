package client

import (
	"math"
	"math/rand"

	"github.com/tomz197/meteorshtorm/internal/draw"
	"github.com/tomz197/meteorshtorm/internal/loop"
	"github.com/tomz197/meteorshtorm/internal/loop/config"
	"github.com/tomz197/meteorshtorm/internal/object"
)

// meteorShape is an irregular outline around the unit circle.
type meteorShape struct {
	angles []float64
	radii  []float64 // Fraction of the half extent, in [1-roughness, 1]
}

func newMeteorShape(rng *rand.Rand, vertices int, roughness float64) meteorShape {
	s := meteorShape{
		angles: make([]float64, vertices),
		radii:  make([]float64, vertices),
	}
	step := 2 * math.Pi / float64(vertices)
	for i := range vertices {
		s.angles[i] = float64(i)*step + (rng.Float64()-0.5)*step*0.5
		s.radii[i] = 1 - rng.Float64()*roughness
	}
	return s
}

// outline writes the rotated, scaled outline of m into dst.
func (s meteorShape) outline(m loop.MeteorView, dst []draw.Point) []draw.Point {
	dst = dst[:0]
	hw, hh := m.Width/2, m.Height/2
	for i, a := range s.angles {
		a += m.Rotation
		dst = append(dst, draw.Point{
			X: m.X + math.Cos(a)*s.radii[i]*hw,
			Y: m.Y + math.Sin(a)*s.radii[i]*hh,
		})
	}
	return dst
}

// shapes maps presentation handles of live meteors to their outlines.
type shapes struct {
	rng    *rand.Rand
	next   object.Handle
	byID   map[object.Handle]meteorShape
	points []draw.Point
}

func newShapes(rng *rand.Rand) *shapes {
	return &shapes{
		rng:  rng,
		byID: make(map[object.Handle]meteorShape),
	}
}

// assign gives a fresh handle. Meteors also get an outline.
func (s *shapes) assign(withOutline bool) object.Handle {
	s.next++
	if s.next == 0 {
		s.next++
	}
	if withOutline {
		s.byID[s.next] = newMeteorShape(s.rng, config.MeteorVertices, config.MeteorRoughness)
	}
	return s.next
}

func (s *shapes) release(h object.Handle) {
	delete(s.byID, h)
}

func (s *shapes) reset() {
	clear(s.byID)
}

func (s *shapes) len() int {
	return len(s.byID)
}

// outline returns the points of a meteor, or nil when it has no outline yet.
// The slice is reused by the next call.
func (s *shapes) outline(m loop.MeteorView) []draw.Point {
	shape, ok := s.byID[m.Handle]
	if !ok {
		return nil
	}
	s.points = shape.outline(m, s.points)
	return s.points
}
