package geo

import "math"

// Rect is an axis-aligned rectangle anchored at its lower-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// R is a shorthand constructor for Rect.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{r.X + r.W*0.5, r.Y + r.H*0.5}
}

// Area returns w * h.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// MaxX returns the right edge coordinate.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the top edge coordinate.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Overlaps reports whether r and o share interior area.
// Rectangles that merely touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.MaxX() <= o.X || o.MaxX() <= r.X || r.MaxY() <= o.Y || o.MaxY() <= r.Y)
}

// ContainedIn reports whether r lies entirely within the closed bounds
// [minX, maxX] x [minY, maxY]. Touching a bound counts as contained.
func (r Rect) ContainedIn(minX, minY, maxX, maxY float64) bool {
	return r.X >= minX && r.Y >= minY && r.MaxX() <= maxX && r.MaxY() <= maxY
}

// EdgeDistance returns the Euclidean distance between the nearest edges of
// two rectangles: the hypotenuse of the per-axis gaps, each clamped to >= 0.
// Overlapping or touching rectangles have distance 0. Symmetric in its
// arguments.
func EdgeDistance(r1, r2 Rect) float64 {
	dx := math.Max(0, math.Max(r2.X-r1.MaxX(), r1.X-r2.MaxX()))
	dy := math.Max(0, math.Max(r2.Y-r1.MaxY(), r1.Y-r2.MaxY()))
	return math.Hypot(dx, dy)
}
