// pkg/physics/collision.go
package physics

import "math"

// Circle represents a circular shape such as the pocket or a ball footprint.
type Circle struct {
	Center Vector2D `json:"center"`
	Radius float64  `json:"radius"`
}

// Collides checks if two circles overlap
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Contains reports whether point lies inside or on the circle:
// |point - center|² <= radius².
func (c Circle) Contains(point Vector2D) bool {
	return point.Sub(c.Center).LengthSquared() <= c.Radius*c.Radius
}

// CollisionResult describes the outcome of Obstacle.Collide.
type CollisionResult struct {
	Hit bool
	// Point is the contact point on the obstacle surface.
	Point Vector2D
	// EdgeIndex is the edge that produced the contact. Edge i joins
	// vertices[i-1] and vertices[i].
	EdgeIndex int
	// Vertex is set when the contact is an edge endpoint rather than the
	// interior of the edge.
	Vertex bool
	// Normal points from the surface toward the resolved ball center.
	Normal Vector2D
	// Depth is how far the ball had penetrated before resolution.
	Depth float64
}

// Rect is an axis-aligned rectangle given by its center and size.
type Rect struct {
	Center Vector2D
	Width  float64
	Height float64
}

// RectFromPoints returns the smallest Rect enclosing all points.
func RectFromPoints(points ...Vector2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{
		Center: Vector2D{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Min returns the corner with the smallest coordinates.
func (r Rect) Min() Vector2D {
	return Vector2D{X: r.Center.X - r.Width/2, Y: r.Center.Y - r.Height/2}
}

// Max returns the corner with the largest coordinates.
func (r Rect) Max() Vector2D {
	return Vector2D{X: r.Center.X + r.Width/2, Y: r.Center.Y + r.Height/2}
}

// Contains reports whether point lies inside the rectangle, edges included.
func (r Rect) Contains(point Vector2D) bool {
	lo, hi := r.Min(), r.Max()
	return point.X >= lo.X && point.X <= hi.X &&
		point.Y >= lo.Y && point.Y <= hi.Y
}

// Expand grows the rectangle by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{Center: r.Center, Width: r.Width + 2*margin, Height: r.Height + 2*margin}
}

// Intersects reports whether two rectangles overlap, touching included.
func (r Rect) Intersects(other Rect) bool {
	return !(other.Center.X-other.Width/2 > r.Center.X+r.Width/2 ||
		other.Center.X+other.Width/2 < r.Center.X-r.Width/2 ||
		other.Center.Y-other.Height/2 > r.Center.Y+r.Height/2 ||
		other.Center.Y+other.Height/2 < r.Center.Y-r.Height/2)
}
