package reach

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Drawer slides its Object along Axis (in the object's parent space) between
// the closed position and Length. ValueChanged reports how far open it is,
// 0..1.
type Drawer struct {
	*Constrained

	Axis   mgl64.Vec3
	Length float64

	ValueChanged Signal[float64]

	offset       float64
	closed       mgl64.Vec3
	tracking     bool
	grabProj     float64
	startOffset  float64
	lastReported float64
}

// NewDrawer creates a drawer on node sliding object along its parent's +Z
// axis by up to length.
func NewDrawer(node, object *Node, length float64, colliders ...*Collider) *Drawer {
	d := &Drawer{
		Axis:         mgl64.Vec3{0, 0, 1},
		Length:       length,
		lastReported: math.NaN(),
	}
	d.Constrained = NewConstrained(node, object, d)
	for _, c := range colliders {
		d.AddCollider(c)
	}
	d.closed = object.Position
	return d
}

// Offset returns how far the drawer is open.
func (d *Drawer) Offset() float64 {
	return d.offset
}

// Value returns the open fraction.
func (d *Drawer) Value() float64 {
	if d.Length <= 0 {
		return 0
	}
	return clamp01(d.offset / d.Length)
}

// SetOffset moves the drawer, clamped to [0, Length].
func (d *Drawer) SetOffset(o float64) {
	d.offset = mgl64.Clamp(o, 0, math.Max(d.Length, 0))
	d.Object.SetPosition(d.closed.Add(d.Axis.Normalize().Mul(d.offset)))
	if v := d.Value(); v != d.lastReported {
		d.lastReported = v
		d.ValueChanged.Emit(v)
	}
}

func (d *Drawer) HandleObjectMovement(c *Constrained) {
	i := c.Interactor()
	if i == nil {
		return
	}
	proj := handLocal(i, d.Object).Sub(d.closed).Dot(d.Axis.Normalize())
	if !d.tracking {
		d.tracking = true
		d.grabProj = proj
		d.startOffset = d.offset
	}
	d.SetOffset(d.startOffset + proj - d.grabProj)
}

func (d *Drawer) HandleObjectDeselection(*Constrained) {
	d.tracking = false
}
