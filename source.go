package reach

import "github.com/go-gl/mathgl/mgl64"

// PoseSource supplies one tracked hand: its pose, per-finger curl and button
// edge streams. Implementations must return the same Signal for a button
// every time.
type PoseSource interface {
	Pose() Pose
	Curl(f Finger) float64
	Button(b Button) *Signal[ButtonEdge]
}

// Controller is a settable PoseSource. Press and Release emit edges
// synchronously, so a test or an input backend can drive an Interactor
// without a headset.
type Controller struct {
	pose    Pose
	curls   [FingerCount]float64
	buttons [buttonCount]Signal[ButtonEdge]
	held    [buttonCount]bool
}

// NewController creates a controller at the identity pose with open fingers.
func NewController() *Controller {
	return &Controller{pose: PoseIdentity}
}

// Pose returns the current pose.
func (c *Controller) Pose() Pose {
	return c.pose
}

// SetPose moves the controller.
func (c *Controller) SetPose(p Pose) {
	c.pose = p
}

// SetPosition moves the controller keeping its rotation.
func (c *Controller) SetPosition(p mgl64.Vec3) {
	c.pose.Position = p
}

// SetRotation rotates the controller keeping its position.
func (c *Controller) SetRotation(q mgl64.Quat) {
	c.pose.Rotation = q
}

// Curl returns the curl of finger f in [0, 1].
func (c *Controller) Curl(f Finger) float64 {
	if int(f) >= FingerCount {
		return 0
	}
	return c.curls[f]
}

// SetCurl sets the curl of finger f, clamped to [0, 1].
func (c *Controller) SetCurl(f Finger, v float64) {
	if int(f) >= FingerCount {
		return
	}
	c.curls[f] = clamp01(v)
}

// Button returns the edge stream of b.
func (c *Controller) Button(b Button) *Signal[ButtonEdge] {
	return &c.buttons[b]
}

// IsPressed reports whether b is held.
func (c *Controller) IsPressed(b Button) bool {
	return c.held[b]
}

// Press emits EdgeDown on b. Pressing a held button is a no-op.
func (c *Controller) Press(b Button) {
	if c.held[b] {
		return
	}
	c.held[b] = true
	c.buttons[b].Emit(EdgeDown)
}

// Release emits EdgeUp on b. Releasing an idle button is a no-op.
func (c *Controller) Release(b Button) {
	if !c.held[b] {
		return
	}
	c.held[b] = false
	c.buttons[b].Emit(EdgeUp)
}

// Click is a convenience that presses and releases b.
func (c *Controller) Click(b Button) {
	c.Press(b)
	c.Release(b)
}
