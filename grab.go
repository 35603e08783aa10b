package reach

import "github.com/go-gl/mathgl/mgl64"

// GrabStrategy is the per-object policy for attaching a grabbed node to the
// hand and restoring it on release.
type GrabStrategy interface {
	// Initialize moves the node and its colliders to the interactor's layer
	// and prepares the object for holding.
	Initialize(i *Interactor)
	// Grab parents the node to attach at the local offset.
	Grab(attach *Node, offset Pose)
	// UnGrab restores layers and the original parent, keeping the world pose.
	UnGrab()
	// Ready reports whether a new grab may start.
	Ready() bool
	FixedUpdate(dt float64)
}

// NewGrabStrategy picks RigidBodyGrab when body is non-nil, TransformGrab
// otherwise. The choice is made once.
func NewGrabStrategy(node *Node, body *Body, colliders []*Collider) GrabStrategy {
	if body != nil {
		return NewRigidBodyGrab(node, body, colliders)
	}
	return NewTransformGrab(node, colliders)
}

// grabState is the bookkeeping shared by both strategies: the layers
// captured at construction and the parent captured at grab time.
type grabState struct {
	node           *Node
	colliders      []*Collider
	nodeLayer      int
	colliderLayers []int

	parent     *Node
	interactor *Interactor
}

func newGrabState(node *Node, colliders []*Collider) grabState {
	g := grabState{
		node:           node,
		colliders:      colliders,
		nodeLayer:      node.Layer,
		colliderLayers: make([]int, len(colliders)),
	}
	for i, c := range colliders {
		g.colliderLayers[i] = c.Layer
	}
	return g
}

func (g *grabState) setLayer(layer int) {
	g.node.Layer = layer
	for _, c := range g.colliders {
		c.Layer = layer
	}
}

func (g *grabState) restoreLayers() {
	g.node.Layer = g.nodeLayer
	for i, c := range g.colliders {
		c.Layer = g.colliderLayers[i]
	}
}

func (g *grabState) attach(attach *Node, offset Pose) {
	if attach == nil {
		logSkip("grab", ErrNoNode, "node", g.node.Name)
		return
	}
	g.parent = g.node.Parent
	attach.AddChildKeepWorld(g.node)
	g.node.SetLocalPose(offset)
}

func (g *grabState) detach() {
	if g.parent != nil && !g.parent.IsDisposed() {
		g.parent.AddChildKeepWorld(g.node)
	} else {
		g.node.DetachKeepWorld()
	}
	g.parent = nil
}

// --- TransformGrab ---

// TransformGrab holds an object with no physics body by reparenting alone.
type TransformGrab struct {
	grabState
}

// NewTransformGrab captures node's and colliders' current layers.
func NewTransformGrab(node *Node, colliders []*Collider) *TransformGrab {
	return &TransformGrab{grabState: newGrabState(node, colliders)}
}

func (g *TransformGrab) Initialize(i *Interactor) {
	g.interactor = i
	g.setLayer(i.Layer)
}

func (g *TransformGrab) Grab(attach *Node, offset Pose) {
	g.attach(attach, offset)
}

func (g *TransformGrab) UnGrab() {
	g.restoreLayers()
	g.detach()
	g.interactor = nil
}

func (g *TransformGrab) Ready() bool          { return true }
func (g *TransformGrab) FixedUpdate(float64) {}

// --- RigidBodyGrab ---

// RigidBodyGrab makes the body kinematic while held. On release, dynamic
// simulation resumes only after ReleaseDelay so the body does not collide
// with the hand on the release step; until then Ready is false. The hand's
// velocity at release is handed to the body.
type RigidBodyGrab struct {
	grabState

	Body         *Body
	ReleaseDelay float64

	wasKinematic bool
	pending      bool
	remaining    float64

	releaseVelocity        mgl64.Vec3
	releaseAngularVelocity mgl64.Vec3
}

// NewRigidBodyGrab captures layers and the body's kinematic flag.
func NewRigidBodyGrab(node *Node, body *Body, colliders []*Collider) *RigidBodyGrab {
	return &RigidBodyGrab{
		grabState:    newGrabState(node, colliders),
		Body:         body,
		ReleaseDelay: DefaultConfig().Interaction.ReleaseDelay,
		wasKinematic: body.Kinematic,
	}
}

func (g *RigidBodyGrab) Initialize(i *Interactor) {
	g.interactor = i
	g.setLayer(i.Layer)
	g.Body.SetKinematic(true)
}

func (g *RigidBodyGrab) Grab(attach *Node, offset Pose) {
	g.attach(attach, offset)
}

func (g *RigidBodyGrab) UnGrab() {
	g.restoreLayers()
	g.detach()
	if i := g.interactor; i != nil {
		g.releaseVelocity = i.Velocity()
		g.releaseAngularVelocity = i.AngularVelocity()
	}
	g.interactor = nil
	g.pending = true
	g.remaining = g.ReleaseDelay
	if g.remaining <= 0 {
		g.restore()
	}
}

// Ready is false while dynamic simulation restoration is pending.
func (g *RigidBodyGrab) Ready() bool {
	return !g.pending
}

// FixedUpdate counts down the release delay.
func (g *RigidBodyGrab) FixedUpdate(dt float64) {
	if !g.pending {
		return
	}
	g.remaining -= dt
	if g.remaining <= 1e-9 {
		g.restore()
	}
}

func (g *RigidBodyGrab) restore() {
	g.pending = false
	g.Body.SetKinematic(g.wasKinematic)
	if !g.wasKinematic {
		g.Body.Velocity = g.releaseVelocity
		g.Body.AngularVelocity = g.releaseAngularVelocity
	}
}
