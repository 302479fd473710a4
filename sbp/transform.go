package sbp

import "math"

// Point is an (X, Y) coordinate pair acted on by the transformation library
// (§4.8). Transforms are pure functions: each returns a new Point rather
// than mutating its argument.
type Point struct {
	X, Y float64
}

// Rotate rotates p by angle degrees about the origin, counterclockwise for
// positive angle (§4.8).
func Rotate(p Point, angleDeg float64) Point {
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return Point{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// ShearX shears p along X in proportion to its Y coordinate.
func ShearX(p Point, factor float64) Point {
	return Point{X: p.X + factor*p.Y, Y: p.Y}
}

// ShearY shears p along Y in proportion to its X coordinate.
func ShearY(p Point, factor float64) Point {
	return Point{X: p.X, Y: p.Y + factor*p.X}
}

// Scale scales p about the origin by independent X and Y factors.
func Scale(p Point, sx, sy float64) Point {
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// Translate offsets p by (dx, dy).
func Translate(p Point, dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}
