// pkg/physics/obstacle.go
package physics

import (
	"errors"
	"fmt"
	"math"
)

// Geometry precondition errors returned by NewObstacle.
var (
	ErrTooFewVertices     = errors.New("obstacle needs at least 2 vertices")
	ErrDuplicateVertex    = errors.New("obstacle has consecutive duplicate vertices")
	ErrNonFiniteVertex    = errors.New("obstacle vertex is not finite")
	ErrInvalidRestitution = errors.New("restitution coefficients must be non-negative")
)

// Obstacle is a static polygon the ball bounces off. The table boundary is
// an Obstacle too.
//
// Edge i is the segment vertices[i-1] → vertices[i], wrapping at i = 0.
// tangents[i] is the unit vector from vertices[i] toward vertices[i-1] and
// normals[i] is tangents[i] rotated by -90°.
type Obstacle struct {
	vertices []Vector2D
	tangents []Vector2D
	normals  []Vector2D
	lengths  []float64
	// offsets[i] is the perimeter distance from vertices[0] to vertices[i-1],
	// walking vertices[0] → vertices[1] → ... → vertices[0].
	offsets   []float64
	perimeter float64
	bounds    Rect

	restPerpendicular float64
	restParallel      float64
}

// ObstacleOption customizes an Obstacle at construction.
type ObstacleOption func(*Obstacle)

// WithRestitution sets the factors applied to the normal and tangential
// velocity components on a bounce. 1/1 is a perfectly elastic mirror.
func WithRestitution(perpendicular, parallel float64) ObstacleOption {
	return func(o *Obstacle) {
		o.restPerpendicular = perpendicular
		o.restParallel = parallel
	}
}

// NewObstacle validates vertices and precomputes per-edge geometry.
func NewObstacle(vertices []Vector2D, opts ...ObstacleOption) (*Obstacle, error) {
	n := len(vertices)
	if n < 2 {
		return nil, ErrTooFewVertices
	}

	o := &Obstacle{
		vertices:          append([]Vector2D(nil), vertices...),
		tangents:          make([]Vector2D, n),
		normals:           make([]Vector2D, n),
		lengths:           make([]float64, n),
		offsets:           make([]float64, n),
		restPerpendicular: 1,
		restParallel:      1,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.restPerpendicular < 0 || o.restParallel < 0 {
		return nil, ErrInvalidRestitution
	}

	for i, v := range o.vertices {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return nil, fmt.Errorf("vertex %d: %w", i, ErrNonFiniteVertex)
		}
	}

	for i := range o.vertices {
		edge := o.vertices[o.prev(i)].Sub(o.vertices[i])
		length := edge.Length()
		if length == 0 {
			return nil, fmt.Errorf("vertices %d and %d: %w", o.prev(i), i, ErrDuplicateVertex)
		}
		o.lengths[i] = length
		o.tangents[i] = edge.Scale(1 / length)
		o.normals[i] = o.tangents[i].Perp()
	}

	// Walk the perimeter starting at vertices[0]: edges 1..n-1, then edge 0.
	walked := 0.0
	for i := 1; i < n; i++ {
		o.offsets[i] = walked
		walked += o.lengths[i]
	}
	o.offsets[0] = walked
	o.perimeter = walked + o.lengths[0]

	o.bounds = RectFromPoints(o.vertices...)
	return o, nil
}

func (o *Obstacle) prev(i int) int {
	if i == 0 {
		return len(o.vertices) - 1
	}
	return i - 1
}

// Len returns the number of vertices, which is also the number of edges.
func (o *Obstacle) Len() int { return len(o.vertices) }

// Vertices returns a copy of the polygon.
func (o *Obstacle) Vertices() []Vector2D {
	return append([]Vector2D(nil), o.vertices...)
}

// Edge returns the endpoints of edge i.
func (o *Obstacle) Edge(i int) (from, to Vector2D) {
	return o.vertices[o.prev(i)], o.vertices[i]
}

// Tangent returns the unit tangent of edge i.
func (o *Obstacle) Tangent(i int) Vector2D { return o.tangents[i] }

// Normal returns the unit normal of edge i.
func (o *Obstacle) Normal(i int) Vector2D { return o.normals[i] }

// EdgeLength returns the length of edge i.
func (o *Obstacle) EdgeLength(i int) float64 { return o.lengths[i] }

// Perimeter returns the total length of all edges.
func (o *Obstacle) Perimeter() float64 { return o.perimeter }

// Bounds returns the axis-aligned bounding rectangle.
func (o *Obstacle) Bounds() Rect { return o.bounds }

// PerimeterCoordinate returns the distance along the perimeter from
// vertices[0] to point, where point lies on edge i. Points off the segment
// are projected onto it.
func (o *Obstacle) PerimeterCoordinate(edge int, point Vector2D) float64 {
	start := o.vertices[o.prev(edge)]
	along := point.Sub(start).Dot(o.tangents[edge].Neg())
	return o.offsets[edge] + clamp(along, 0, o.lengths[edge])
}

// Contains reports whether point is strictly inside a closed polygon
// (even-odd rule). Two-vertex obstacles contain nothing.
func (o *Obstacle) Contains(point Vector2D) bool {
	if len(o.vertices) < 3 || !o.bounds.Contains(point) {
		return false
	}
	inside := false
	for i := range o.vertices {
		a, b := o.Edge(i)
		if (a.Y > point.Y) != (b.Y > point.Y) {
			x := a.X + (point.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if point.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Overlaps reports whether a disc of radius r at center touches any edge.
func (o *Obstacle) Overlaps(center Vector2D, r float64) bool {
	probe := Ball{Radius: r, Pos: center, PrevPos: center}
	_, ok := o.nearest(&probe)
	return ok
}

// contact is the nearest feature of the obstacle to a ball.
type contact struct {
	edge   int
	vertex bool
	// dist is the signed distance of the ball center from the edge line for
	// face contacts, negative once the center has crossed it, and the
	// distance to the vertex otherwise.
	dist float64
	// point is the vertex, or the foot of the perpendicular on the edge line.
	point Vector2D
	// normal is the unit separating axis pointing toward the ball side.
	normal Vector2D
}

// Collide finds the nearest overlapping edge or vertex, moves the ball back
// onto the surface and reflects its velocity. The ball is left untouched when
// nothing is within its radius.
func (o *Obstacle) Collide(b *Ball) CollisionResult {
	c, ok := o.nearest(b)
	if !ok {
		return CollisionResult{}
	}

	point, vel := o.resolve(b, c)
	b.Pos = point.Add(c.normal.Scale(b.Radius))
	b.Vel = vel

	return CollisionResult{
		Hit:       true,
		Point:     point,
		EdgeIndex: c.edge,
		Vertex:    c.vertex,
		Normal:    c.normal,
		Depth:     b.Radius - c.dist,
	}
}

func (o *Obstacle) nearest(b *Ball) (contact, bool) {
	swept := RectFromPoints(b.PrevPos, b.Pos).Expand(b.Radius)
	if !o.bounds.Intersects(swept) {
		return contact{}, false
	}

	var best contact
	found := false
	for i := range o.vertices {
		c, ok := o.edgeContact(i, b)
		if !ok {
			continue
		}
		if !found || c.dist < best.dist {
			best, found = c, true
		}
	}
	return best, found
}

func (o *Obstacle) edgeContact(i int, b *Ball) (contact, bool) {
	end, start := o.vertices[i], o.vertices[o.prev(i)]
	r1 := end.Sub(b.Pos)
	r2 := start.Sub(b.Pos)
	t := o.tangents[i]

	if r1.Dot(t)*r2.Dot(t) < 0 {
		n := o.normals[i]
		// Orient the normal toward the side the ball came from so a center
		// that crossed the line during the last step is pushed back.
		side := n.Dot(end.Sub(b.PrevPos))
		if side == 0 {
			side = n.Dot(r1)
		}
		out := n
		if side > 0 {
			out = n.Neg()
		}
		dist := b.Pos.Sub(end).Dot(out)
		if dist >= b.Radius {
			return contact{}, false
		}
		return contact{
			edge:   i,
			dist:   dist,
			point:  b.Pos.Sub(out.Scale(dist)),
			normal: out,
		}, true
	}

	vertex, d := end, r1.Length()
	if d2 := r2.Length(); d2 < d {
		vertex, d = start, d2
	}
	if d >= b.Radius {
		return contact{}, false
	}
	// A center that swept past the corner is pushed back the way it came.
	axis := b.Pos.Sub(vertex)
	if back := b.PrevPos.Sub(vertex); axis.IsZero() || axis.Dot(back) < 0 {
		axis = back
	}
	axis = axis.Normalize()
	if axis.IsZero() {
		axis = o.normals[i]
	}
	return contact{
		edge:   i,
		vertex: true,
		dist:   d,
		point:  vertex,
		normal: axis,
	}, true
}

// resolve returns the contact point on the surface and the outgoing velocity.
// Face contacts are backtracked along the arc, then the straight line, of the
// last step; when neither touch point lies within that step the ball is pushed
// straight out of the face.
func (o *Obstacle) resolve(b *Ball, c contact) (Vector2D, Vector2D) {
	switch {
	case b.Vel.IsZero():
		return c.point, Vector2D{}
	case c.vertex:
		return c.point, o.reflect(b.Vel, c.normal)
	}

	if point, vel, ok := arcContact(b, c.point, c.normal); ok {
		return point, o.reflect(vel, c.normal)
	}
	if point, ok := linearContact(b, c.point, c.normal); ok {
		return point, o.reflect(b.Vel, c.normal)
	}
	return c.point, o.reflect(b.Vel, c.normal)
}

// reflect mirrors v across the surface with normal n when v points into the
// surface, scaling the normal and tangential parts by the restitution
// coefficients.
func (o *Obstacle) reflect(v, n Vector2D) Vector2D {
	vn := v.Dot(n)
	if vn >= 0 {
		return v
	}
	tangential := v.Sub(n.Scale(vn))
	return tangential.Scale(o.restParallel).Sub(n.Scale(vn * o.restPerpendicular))
}
