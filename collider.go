package reach

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// --- Shapes ---

// Shape is a collision volume in a node's local space. Implementations
// answer queries in world space given the node that carries them.
type Shape interface {
	// Center returns the shape's world-space center.
	Center(n *Node) mgl64.Vec3
	// ClosestPoint returns the point of the shape closest to p (p itself if
	// inside).
	ClosestPoint(n *Node, p mgl64.Vec3) mgl64.Vec3
	// Contains reports whether p lies inside or on the shape.
	Contains(n *Node, p mgl64.Vec3) bool
	// Raycast returns the distance along the ray to the first surface hit.
	// A ray starting inside the shape hits at distance 0.
	Raycast(n *Node, ray Ray, maxDistance float64) (float64, bool)
}

// Sphere is a spherical volume in local coordinates. The world radius uses
// the largest absolute world scale component.
type Sphere struct {
	Offset mgl64.Vec3
	Radius float64
}

func (s Sphere) worldRadius(n *Node) float64 {
	sc := n.WorldScale()
	m := math.Max(math.Abs(sc[0]), math.Max(math.Abs(sc[1]), math.Abs(sc[2])))
	return s.Radius * m
}

// Center returns the sphere's world-space center.
func (s Sphere) Center(n *Node) mgl64.Vec3 {
	return n.TransformPoint(s.Offset)
}

// ClosestPoint returns the point on or in the sphere closest to p.
func (s Sphere) ClosestPoint(n *Node, p mgl64.Vec3) mgl64.Vec3 {
	c := s.Center(n)
	r := s.worldRadius(n)
	d := p.Sub(c)
	l := d.Len()
	if l <= r {
		return p
	}
	return c.Add(d.Mul(r / l))
}

// Contains reports whether p lies inside or on the sphere.
func (s Sphere) Contains(n *Node, p mgl64.Vec3) bool {
	r := s.worldRadius(n)
	d := p.Sub(s.Center(n))
	return d.Dot(d) <= r*r
}

// Raycast intersects the ray with the sphere.
func (s Sphere) Raycast(n *Node, ray Ray, maxDistance float64) (float64, bool) {
	dir := ray.Direction.Normalize()
	c := s.Center(n)
	r := s.worldRadius(n)
	oc := ray.Origin.Sub(c)
	if oc.Dot(oc) <= r*r {
		return 0, true
	}
	b := oc.Dot(dir)
	disc := b*b - (oc.Dot(oc) - r*r)
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 || t > maxDistance {
		return 0, false
	}
	return t, true
}

// Box is an oriented box in local coordinates.
type Box struct {
	Offset      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

func (b Box) worldHalf(n *Node) mgl64.Vec3 {
	sc := n.WorldScale()
	return mgl64.Vec3{
		math.Abs(b.HalfExtents[0] * sc[0]),
		math.Abs(b.HalfExtents[1] * sc[1]),
		math.Abs(b.HalfExtents[2] * sc[2]),
	}
}

// toBox converts a world point into the box's unscaled, centered frame.
func (b Box) toBox(n *Node, p mgl64.Vec3) mgl64.Vec3 {
	return n.WorldRotation().Inverse().Rotate(p.Sub(b.Center(n)))
}

// Center returns the box's world-space center.
func (b Box) Center(n *Node) mgl64.Vec3 {
	return n.TransformPoint(b.Offset)
}

// ClosestPoint clamps p to the box.
func (b Box) ClosestPoint(n *Node, p mgl64.Vec3) mgl64.Vec3 {
	half := b.worldHalf(n)
	d := b.toBox(n, p)
	for i := range d {
		d[i] = mgl64.Clamp(d[i], -half[i], half[i])
	}
	return b.Center(n).Add(n.WorldRotation().Rotate(d))
}

// Contains reports whether p lies inside or on the box.
func (b Box) Contains(n *Node, p mgl64.Vec3) bool {
	half := b.worldHalf(n)
	d := b.toBox(n, p)
	for i := range d {
		if math.Abs(d[i]) > half[i] {
			return false
		}
	}
	return true
}

// Raycast intersects the ray with the box using the slab method.
func (b Box) Raycast(n *Node, ray Ray, maxDistance float64) (float64, bool) {
	half := b.worldHalf(n)
	inv := n.WorldRotation().Inverse()
	o := inv.Rotate(ray.Origin.Sub(b.Center(n)))
	d := inv.Rotate(ray.Direction.Normalize())

	tmin, tmax := 0.0, maxDistance
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < -half[i] || o[i] > half[i] {
				return 0, false
			}
			continue
		}
		t1 := (-half[i] - o[i]) / d[i]
		t2 := (half[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// --- Collider ---

// TriggerListener receives overlap transitions for a trigger collider.
type TriggerListener interface {
	OnTriggerEnter(other *Collider)
	OnTriggerExit(other *Collider)
}

// Collider attaches a Shape to a Node. Owner is set when the collider is
// attached to an Interactable, so acquisition resolves the interactable
// without walking the hierarchy.
type Collider struct {
	Node  *Node
	Shape Shape
	Layer int

	// Trigger colliders report overlaps with colliders whose layer is in Mask.
	IsTrigger bool
	Mask      LayerMask
	Listener  TriggerListener

	Enabled bool
	Owner   *Interactable
}

// NewCollider creates an enabled collider on node using node.Layer.
func NewCollider(node *Node, shape Shape) *Collider {
	return &Collider{Node: node, Shape: shape, Layer: node.Layer, Enabled: true}
}

// NewTrigger creates a trigger collider that reports overlaps with mask.
func NewTrigger(node *Node, shape Shape, mask LayerMask, l TriggerListener) *Collider {
	c := NewCollider(node, shape)
	c.IsTrigger = true
	c.Mask = mask
	c.Listener = l
	return c
}

// Center returns the collider's world-space center.
func (c *Collider) Center() mgl64.Vec3 {
	return c.Shape.Center(c.Node)
}

// ClosestPoint returns the point of the collider closest to p.
func (c *Collider) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	return c.Shape.ClosestPoint(c.Node, p)
}

// active reports whether the collider takes part in queries.
func (c *Collider) active() bool {
	return c.Enabled && c.Node != nil && !c.Node.disposed
}

// Overlaps reports whether two colliders intersect, ignoring layers.
// The test is exact for sphere pairs and conservative for boxes.
func Overlaps(a, b *Collider) bool {
	if !a.active() || !b.active() {
		return false
	}
	if a.Shape.Contains(a.Node, b.ClosestPoint(a.Center())) {
		return true
	}
	return b.Shape.Contains(b.Node, a.ClosestPoint(b.Center()))
}

// RaycastHit describes one collider hit by a raycast.
type RaycastHit struct {
	Collider *Collider
	Distance float64
	Point    mgl64.Vec3
}
