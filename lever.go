package reach

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

// Lever rotates its Object about Axis (in the object's parent space) within
// [MinAngle, MaxAngle] radians, following the hand's angle around the pivot.
// ValueChanged reports the angle normalized to 0..1.
type Lever struct {
	*Constrained

	Axis               mgl64.Vec3
	MinAngle, MaxAngle float64
	// ReturnToRest tweens the lever back to RestAngle on release.
	ReturnToRest   bool
	RestAngle      float64
	ReturnDuration float64

	ValueChanged Signal[float64]

	angle        float64
	base         mgl64.Quat
	tracking     bool
	grabAngle    float64
	startAngle   float64
	restore      *TweenGroup
	lastReported float64
}

// NewLever creates a lever on node rotating object about its parent's X
// axis within ±45°.
func NewLever(node, object *Node, colliders ...*Collider) *Lever {
	l := &Lever{
		Axis:           mgl64.Vec3{1, 0, 0},
		MinAngle:       -math.Pi / 4,
		MaxAngle:       math.Pi / 4,
		ReturnDuration: 0.3,
		lastReported:   math.NaN(),
	}
	l.Constrained = NewConstrained(node, object, l)
	for _, c := range colliders {
		l.AddCollider(c)
	}
	l.base = object.Rotation
	return l
}

// Angle returns the current angle in radians.
func (l *Lever) Angle() float64 {
	return l.angle
}

// Value returns the angle normalized to 0..1.
func (l *Lever) Value() float64 {
	if l.MaxAngle == l.MinAngle {
		return 0
	}
	return clamp01((l.angle - l.MinAngle) / (l.MaxAngle - l.MinAngle))
}

// SetAngle moves the lever, clamped to its limits.
func (l *Lever) SetAngle(a float64) {
	l.angle = mgl64.Clamp(a, l.MinAngle, l.MaxAngle)
	l.apply()
}

func (l *Lever) HandleObjectMovement(c *Constrained) {
	i := c.Interactor()
	if i == nil {
		return
	}
	l.restore = nil
	cur := l.handAngle(i)
	if !l.tracking {
		l.tracking = true
		l.grabAngle = cur
		l.startAngle = l.angle
	}
	l.SetAngle(l.startAngle + wrapAngle(cur-l.grabAngle))
}

func (l *Lever) HandleObjectDeselection(*Constrained) {
	l.tracking = false
	if l.ReturnToRest {
		l.restore = TweenValue(l.Object, &l.angle, l.RestAngle, l.ReturnDuration, ease.OutCubic)
	}
}

// Update runs the constrained update and, once released, any return-to-rest
// tween.
func (l *Lever) Update(dt float64) {
	l.Constrained.Update(dt)
	if l.restore == nil || l.IsSelected() {
		return
	}
	l.restore.Update(dt)
	l.apply()
	if l.restore.Done {
		l.restore = nil
	}
}

// handAngle is the hand's angle around the axis relative to the object's
// rest orientation.
func (l *Lever) handAngle(i *Interactor) float64 {
	axis := l.Axis.Normalize()
	d := projectOnPlane(handLocal(i, l.Object).Sub(l.Object.Position), axis)
	ref := projectOnPlane(l.base.Rotate(perpendicular(axis)), axis)
	return signedAngle(ref, d, axis)
}

func (l *Lever) apply() {
	l.Object.SetRotation(mgl64.QuatRotate(l.angle, l.Axis.Normalize()).Mul(l.base))
	if v := l.Value(); v != l.lastReported {
		l.lastReported = v
		l.ValueChanged.Emit(v)
	}
}

// perpendicular returns a unit vector orthogonal to the unit vector axis.
func perpendicular(axis mgl64.Vec3) mgl64.Vec3 {
	up := mgl64.Vec3{0, 1, 0}
	if math.Abs(axis.Dot(up)) > 0.99 {
		up = mgl64.Vec3{0, 0, 1}
	}
	return projectOnPlane(up, axis).Normalize()
}
