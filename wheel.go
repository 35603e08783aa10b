package reach

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Wheel spins its Object about Axis (in the object's parent space) by the
// hand's angular travel around the hub. The angle accumulates across turns.
// With Limited set it stays within [MinAngle, MaxAngle] and ValueChanged
// reports 0..1 across that range; otherwise it reports the fraction of the
// current turn.
type Wheel struct {
	*Constrained

	Axis               mgl64.Vec3
	Limited            bool
	MinAngle, MaxAngle float64

	ValueChanged Signal[float64]

	angle        float64
	base         mgl64.Quat
	tracking     bool
	last         float64
	lastReported float64
}

// NewWheel creates an unlimited wheel on node spinning object about its
// parent's Z axis.
func NewWheel(node, object *Node, colliders ...*Collider) *Wheel {
	w := &Wheel{
		Axis:         mgl64.Vec3{0, 0, 1},
		lastReported: math.NaN(),
	}
	w.Constrained = NewConstrained(node, object, w)
	for _, c := range colliders {
		w.AddCollider(c)
	}
	w.base = object.Rotation
	return w
}

// Angle returns the accumulated angle in radians.
func (w *Wheel) Angle() float64 {
	return w.angle
}

// Value returns the normalized wheel value.
func (w *Wheel) Value() float64 {
	if w.Limited {
		if w.MaxAngle == w.MinAngle {
			return 0
		}
		return clamp01((w.angle - w.MinAngle) / (w.MaxAngle - w.MinAngle))
	}
	turns := w.angle / (2 * math.Pi)
	return turns - math.Floor(turns)
}

// SetAngle sets the accumulated angle, clamped when Limited.
func (w *Wheel) SetAngle(a float64) {
	if w.Limited {
		a = mgl64.Clamp(a, w.MinAngle, w.MaxAngle)
	}
	w.angle = a
	w.Object.SetRotation(mgl64.QuatRotate(w.angle, w.Axis.Normalize()).Mul(w.base))
	if v := w.Value(); v != w.lastReported {
		w.lastReported = v
		w.ValueChanged.Emit(v)
	}
}

func (w *Wheel) HandleObjectMovement(c *Constrained) {
	i := c.Interactor()
	if i == nil {
		return
	}
	axis := w.Axis.Normalize()
	d := projectOnPlane(handLocal(i, w.Object).Sub(w.Object.Position), axis)
	if d.Len() < 1e-6 {
		return
	}
	cur := signedAngle(perpendicular(axis), d, axis)
	if !w.tracking {
		w.tracking = true
		w.last = cur
		return
	}
	delta := wrapAngle(cur - w.last)
	w.last = cur
	if delta != 0 {
		w.SetAngle(w.angle + delta)
	}
}

func (w *Wheel) HandleObjectDeselection(*Constrained) {
	w.tracking = false
}
