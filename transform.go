package reach

import "github.com/go-gl/mathgl/mgl64"

// updateWorld recomputes the cached world transform if the node is dirty.
// Parents are refreshed first, so a lookup anywhere in the tree is valid.
//
// Composition order (child of parent p):
//
//	worldPos   = p.worldPos + p.worldRot * (p.worldScale ⊙ Position)
//	worldRot   = p.worldRot * Rotation
//	worldScale = p.worldScale ⊙ Scale
func (n *Node) updateWorld() {
	if n.Parent != nil {
		n.Parent.updateWorld()
	}
	if !n.transformDirty {
		return
	}
	if n.Parent == nil {
		n.worldPos = n.Position
		n.worldRot = n.Rotation.Normalize()
		n.worldScale = n.Scale
	} else {
		p := n.Parent
		n.worldPos = p.worldPos.Add(p.worldRot.Rotate(mulVec(p.worldScale, n.Position)))
		n.worldRot = p.worldRot.Mul(n.Rotation).Normalize()
		n.worldScale = mulVec(p.worldScale, n.Scale)
	}
	n.transformDirty = false
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(p mgl64.Vec3) {
	n.Position = p
	markSubtreeDirty(n)
}

// SetRotation sets the node's local rotation and marks it dirty.
func (n *Node) SetRotation(r mgl64.Quat) {
	n.Rotation = r.Normalize()
	markSubtreeDirty(n)
}

// SetScale sets the node's local scale and marks it dirty.
func (n *Node) SetScale(s mgl64.Vec3) {
	n.Scale = s
	markSubtreeDirty(n)
}

// SetLocalPose sets local position and rotation together.
func (n *Node) SetLocalPose(p Pose) {
	n.Position = p.Position
	n.Rotation = p.Rotation.Normalize()
	markSubtreeDirty(n)
}

// LocalPose returns the local position and rotation.
func (n *Node) LocalPose() Pose {
	return Pose{Position: n.Position, Rotation: n.Rotation}
}

// MarkDirty marks the node's transform as dirty, forcing recomputation on
// the next world lookup. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	markSubtreeDirty(n)
}

// --- World-space accessors ---

// WorldPose returns the node's world position and rotation.
func (n *Node) WorldPose() Pose {
	n.updateWorld()
	return Pose{Position: n.worldPos, Rotation: n.worldRot}
}

// WorldPosition returns the node's world position.
func (n *Node) WorldPosition() mgl64.Vec3 {
	n.updateWorld()
	return n.worldPos
}

// WorldRotation returns the node's world rotation.
func (n *Node) WorldRotation() mgl64.Quat {
	n.updateWorld()
	return n.worldRot
}

// WorldScale returns the node's lossy world scale.
func (n *Node) WorldScale() mgl64.Vec3 {
	n.updateWorld()
	return n.worldScale
}

// SetWorldPose moves the node so that its world pose equals p.
func (n *Node) SetWorldPose(p Pose) {
	if n.Parent == nil {
		n.SetLocalPose(p)
		return
	}
	n.SetLocalPose(n.Parent.InverseTransformPose(p))
}

// SetWorldPosition moves the node so that its world position equals p.
func (n *Node) SetWorldPosition(p mgl64.Vec3) {
	if n.Parent == nil {
		n.SetPosition(p)
		return
	}
	n.SetPosition(n.Parent.InverseTransformPoint(p))
}

// --- Coordinate conversion ---

// TransformPoint converts a point in this node's local space to world space.
func (n *Node) TransformPoint(local mgl64.Vec3) mgl64.Vec3 {
	n.updateWorld()
	return n.worldPos.Add(n.worldRot.Rotate(mulVec(n.worldScale, local)))
}

// InverseTransformPoint converts a world-space point to this node's local space.
func (n *Node) InverseTransformPoint(world mgl64.Vec3) mgl64.Vec3 {
	n.updateWorld()
	return mulVec(invVec(n.worldScale), n.worldRot.Inverse().Rotate(world.Sub(n.worldPos)))
}

// TransformDirection rotates a local direction into world space (no scale).
func (n *Node) TransformDirection(local mgl64.Vec3) mgl64.Vec3 {
	n.updateWorld()
	return n.worldRot.Rotate(local)
}

// TransformPose converts a pose expressed in this node's local space into
// world space.
func (n *Node) TransformPose(local Pose) Pose {
	n.updateWorld()
	return Pose{
		Position: n.TransformPoint(local.Position),
		Rotation: n.worldRot.Mul(local.Rotation).Normalize(),
	}
}

// InverseTransformPose converts a world pose into this node's local space.
func (n *Node) InverseTransformPose(world Pose) Pose {
	n.updateWorld()
	return Pose{
		Position: n.InverseTransformPoint(world.Position),
		Rotation: n.worldRot.Inverse().Mul(world.Rotation).Normalize(),
	}
}
