package reach

import "github.com/go-gl/mathgl/mgl64"

// Body is a simulated rigid body driving a Node. Kinematic bodies are moved
// only through their node; dynamic bodies are integrated by World.Step.
type Body struct {
	Node            *Node
	Kinematic       bool
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Mass            float64
	Drag            float64
	AngularDrag     float64
	UseGravity      bool
}

// NewBody creates a dynamic body with unit mass on node.
func NewBody(node *Node) *Body {
	return &Body{Node: node, Mass: 1}
}

// SetKinematic toggles simulation. Switching to kinematic clears velocities.
func (b *Body) SetKinematic(k bool) {
	b.Kinematic = k
	if k {
		b.Velocity = mgl64.Vec3{}
		b.AngularVelocity = mgl64.Vec3{}
	}
}

// Teleport snaps the body to p and zeroes both velocities.
func (b *Body) Teleport(p Pose) {
	b.Node.SetWorldPose(p)
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
}

// integrate advances a dynamic body by dt seconds. Contacts are not resolved.
func (b *Body) integrate(dt float64, gravity mgl64.Vec3) {
	if b.Kinematic || b.Node == nil || b.Node.disposed {
		return
	}
	if b.UseGravity {
		b.Velocity = b.Velocity.Add(gravity.Mul(dt))
	}
	if b.Drag > 0 {
		b.Velocity = b.Velocity.Mul(1 / (1 + b.Drag*dt))
	}
	if b.AngularDrag > 0 {
		b.AngularVelocity = b.AngularVelocity.Mul(1 / (1 + b.AngularDrag*dt))
	}

	pose := b.Node.WorldPose()
	pose.Position = pose.Position.Add(b.Velocity.Mul(dt))
	if b.AngularVelocity.Dot(b.AngularVelocity) > 0 {
		// q' = q + 0.5 * (0, w) * q * dt
		spin := mgl64.Quat{W: 0, V: b.AngularVelocity.Mul(0.5 * dt)}.Mul(pose.Rotation)
		pose.Rotation = pose.Rotation.Add(spin).Normalize()
	}
	b.Node.SetWorldPose(pose)
}
