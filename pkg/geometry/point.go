package geometry

import "math"

// Point represents a 2D position in display space (origin top-left)
type Point struct {
	X, Y float64
}

// NewPoint creates a new 2D point
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Mul multiplies the point by a scalar
func (p Point) Mul(scalar float64) Point {
	return Point{X: p.X * scalar, Y: p.Y * scalar}
}

// Distance returns the euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return math.Hypot(other.X-p.X, other.Y-p.Y)
}

// IsFinite reports whether both coordinates are finite numbers
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Segment is a straight line between two points
type Segment struct {
	Start Point
	End   Point
}

// NewSegment creates a segment from raw coordinates
func NewSegment(x1, y1, x2, y2 float64) Segment {
	return Segment{Start: NewPoint(x1, y1), End: NewPoint(x2, y2)}
}

// Length returns the length of the segment
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Midpoint returns the point halfway between start and end
func (s Segment) Midpoint() Point {
	return s.Start.Add(s.End).Mul(0.5)
}
