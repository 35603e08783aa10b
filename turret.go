package reach

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Turret aims its Object's +Z axis at the hand, yawing about the parent's Y
// axis and pitching about its own X axis, each within limits (radians).
// ValueChanged reports the yaw normalized to 0..1; PitchChanged the pitch.
type Turret struct {
	*Constrained

	MinYaw, MaxYaw     float64
	MinPitch, MaxPitch float64

	ValueChanged Signal[float64]
	PitchChanged Signal[float64]

	yaw, pitch float64
	base       mgl64.Quat
}

// NewTurret creates a turret on node aiming object, with ±90° yaw and ±30°
// pitch.
func NewTurret(node, object *Node, colliders ...*Collider) *Turret {
	t := &Turret{
		MinYaw:   -math.Pi / 2,
		MaxYaw:   math.Pi / 2,
		MinPitch: -math.Pi / 6,
		MaxPitch: math.Pi / 6,
	}
	t.Constrained = NewConstrained(node, object, t)
	for _, c := range colliders {
		t.AddCollider(c)
	}
	t.base = object.Rotation
	return t
}

// Yaw returns the current yaw in radians.
func (t *Turret) Yaw() float64 { return t.yaw }

// Pitch returns the current pitch in radians.
func (t *Turret) Pitch() float64 { return t.pitch }

// Aim sets yaw and pitch, clamped to the limits.
func (t *Turret) Aim(yaw, pitch float64) {
	yaw = mgl64.Clamp(yaw, t.MinYaw, t.MaxYaw)
	pitch = mgl64.Clamp(pitch, t.MinPitch, t.MaxPitch)
	yawChanged, pitchChanged := yaw != t.yaw, pitch != t.pitch
	t.yaw, t.pitch = yaw, pitch
	rot := mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0}).
		Mul(mgl64.QuatRotate(pitch, mgl64.Vec3{1, 0, 0})).
		Mul(t.base)
	t.Object.SetRotation(rot)
	if yawChanged {
		t.ValueChanged.Emit(normalize(t.yaw, t.MinYaw, t.MaxYaw))
	}
	if pitchChanged {
		t.PitchChanged.Emit(normalize(t.pitch, t.MinPitch, t.MaxPitch))
	}
}

func (t *Turret) HandleObjectMovement(c *Constrained) {
	i := c.Interactor()
	if i == nil {
		return
	}
	d := handLocal(i, t.Object).Sub(t.Object.Position)
	horiz := math.Hypot(d[0], d[2])
	if horiz < 1e-6 && math.Abs(d[1]) < 1e-6 {
		return
	}
	t.Aim(math.Atan2(d[0], d[2]), math.Atan2(-d[1], horiz))
}

func (t *Turret) HandleObjectDeselection(*Constrained) {}

func normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return clamp01((v - lo) / (hi - lo))
}
