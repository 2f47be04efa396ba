// Package physics provides axis-aligned box overlap tests and a broad-phase grid.
package physics

// Box is an axis-aligned bounding box given by its top-left corner and size.
type Box struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
}

// CenteredBox builds a box of the given size centered on (cx, cy).
func CenteredBox(cx, cy, width, height float64) Box {
	return Box{
		X:      cx - width/2,
		Y:      cy - height/2,
		Width:  width,
		Height: height,
	}
}

// MaxX returns the x-coordinate of the right edge.
func (b Box) MaxX() float64 {
	return b.X + b.Width
}

// MaxY returns the y-coordinate of the bottom edge.
func (b Box) MaxY() float64 {
	return b.Y + b.Height
}

// Overlaps reports whether two boxes share interior area.
// Boxes that only touch along an edge or corner do not overlap.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.MaxX() &&
		o.X < b.MaxX() &&
		b.Y < o.MaxY() &&
		o.Y < b.MaxY()
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
