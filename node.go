package reach

import "github.com/go-gl/mathgl/mgl64"

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic: reach is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element: a named transform with a
// physics layer. Hands, attach points, interactable objects, manipulated
// sub-objects and synthetic hands are all Nodes.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Write through the setters, or call MarkDirty after
	// writing fields directly.
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3

	// Computed world transform (lossy scale: no shear)
	worldPos       mgl64.Vec3
	worldRot       mgl64.Quat
	worldScale     mgl64.Vec3
	transformDirty bool

	// Physics layer of the node itself. Colliders carry their own layer.
	Layer int

	// Visible hides the node and its subtree. Hand models are toggled here.
	Visible bool

	// Metadata
	UserData any
	EntityID uint32

	disposed bool
}

// NewNode creates a node with identity transform and unit scale.
func NewNode(name string) *Node {
	return &Node{
		ID:             nextNodeID(),
		Name:           name,
		Rotation:       mgl64.QuatIdent(),
		Scale:          mgl64.Vec3{1, 1, 1},
		Visible:        true,
		transformDirty: true,
	}
}

// --- Tree manipulation ---

// AddChild appends child to this node's children, keeping the child's local
// transform. If child already has a parent, it is removed from that parent
// first. Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("reach: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("reach: adding child would create a cycle")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild")
		debugCheckDisposed(child, "AddChild")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
}

// AddChildKeepWorld reparents child under n while preserving its world pose.
// World scale is preserved as far as a TRS transform allows.
func (n *Node) AddChildKeepWorld(child *Node) {
	pose := child.WorldPose()
	scale := child.WorldScale()
	n.AddChild(child)
	child.SetWorldPose(pose)
	child.SetScale(mulVec(scale, invVec(n.WorldScale())))
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("reach: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent. The local transform
// becomes the world transform, so the node jumps unless the parent was at
// identity. No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// DetachKeepWorld removes the node from its parent and keeps its world pose.
func (n *Node) DetachKeepWorld() {
	if n.Parent == nil {
		return
	}
	pose := n.WorldPose()
	scale := n.WorldScale()
	n.Parent.RemoveChild(n)
	n.Position = pose.Position
	n.Rotation = pose.Rotation
	n.Scale = scale
	markSubtreeDirty(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// FindChild returns the first direct child with the given name, or nil.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// IsAncestorOf reports whether n is other or one of its ancestors.
func (n *Node) IsAncestorOf(other *Node) bool {
	return isAncestor(n, other)
}

// VisibleInHierarchy reports whether n and all of its ancestors are visible.
func (n *Node) VisibleInHierarchy() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
