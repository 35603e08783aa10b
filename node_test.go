package reach

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("test")
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != "test" {
		t.Errorf("Name = %q, want %q", n.Name, "test")
	}
	if n.Scale != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("Scale = %v, want (1, 1, 1)", n.Scale)
	}
	if n.Rotation != mgl64.QuatIdent() {
		t.Errorf("Rotation = %v, want identity", n.Rotation)
	}
	if !n.Visible {
		t.Error("Visible should default to true")
	}
}

func TestNodeIDsUnique(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	if a.ID == b.ID {
		t.Errorf("IDs collide: %d", a.ID)
	}
}

// --- Tree manipulation ---

func TestAddChildReparents(t *testing.T) {
	p1, p2, c := NewNode("p1"), NewNode("p2"), NewNode("c")
	p1.AddChild(c)
	p2.AddChild(c)
	if c.Parent != p2 {
		t.Error("parent should be p2")
	}
	if p1.NumChildren() != 0 {
		t.Errorf("p1 children = %d, want 0", p1.NumChildren())
	}
	if p2.ChildAt(0) != c {
		t.Error("p2 should hold c")
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on cycle")
		}
	}()
	b.AddChild(a)
}

func TestAddChildKeepWorld(t *testing.T) {
	a := NewNode("a")
	a.SetPosition(mgl64.Vec3{1, 0, 0})
	b := NewNode("b")
	b.SetPosition(mgl64.Vec3{0, 0, 5})
	b.SetRotation(yaw(90))
	b.SetScale(mgl64.Vec3{2, 2, 2})

	c := NewNode("c")
	c.SetPosition(mgl64.Vec3{0, 1, 0})
	a.AddChild(c)
	before := c.WorldPose()

	b.AddChildKeepWorld(c)
	after := c.WorldPose()
	assertVec(t, "position", after.Position, before.Position)
	if !after.Rotation.ApproxEqualThreshold(before.Rotation, 1e-9) {
		t.Errorf("rotation = %v, want %v", after.Rotation, before.Rotation)
	}
	assertVec(t, "scale", c.WorldScale(), mgl64.Vec3{1, 1, 1})
}

func TestDetachKeepWorld(t *testing.T) {
	p := NewNode("p")
	p.SetPosition(mgl64.Vec3{3, 0, 0})
	c := NewNode("c")
	c.SetPosition(mgl64.Vec3{1, 0, 0})
	p.AddChild(c)

	c.DetachKeepWorld()
	if c.Parent != nil {
		t.Fatal("should have no parent")
	}
	assertVec(t, "position", c.WorldPosition(), mgl64.Vec3{4, 0, 0})
}

func TestRemoveFromParentNoParent(t *testing.T) {
	n := NewNode("n")
	n.RemoveFromParent() // must not panic
}

func TestFindChild(t *testing.T) {
	p := NewNode("p")
	p.AddChild(NewNode("x"))
	y := NewNode("y")
	p.AddChild(y)
	if got := p.FindChild("y"); got != y {
		t.Errorf("FindChild = %v, want y", got)
	}
	if p.FindChild("z") != nil {
		t.Error("FindChild should return nil for missing name")
	}
}

func TestIsAncestorOf(t *testing.T) {
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	a.AddChild(b)
	b.AddChild(c)
	if !a.IsAncestorOf(c) {
		t.Error("a should be ancestor of c")
	}
	if c.IsAncestorOf(a) {
		t.Error("c should not be ancestor of a")
	}
}

func TestVisibleInHierarchy(t *testing.T) {
	p, c := NewNode("p"), NewNode("c")
	p.AddChild(c)
	p.Visible = false
	if c.VisibleInHierarchy() {
		t.Error("child of hidden parent should not be visible")
	}
}

func TestDisposeRecursive(t *testing.T) {
	root, p, c := NewNode("root"), NewNode("p"), NewNode("c")
	root.AddChild(p)
	p.AddChild(c)

	p.Dispose()
	if !p.IsDisposed() || !c.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed node should be removed from parent")
	}
	p.Dispose() // second call is a no-op
}

func TestDebugAddChildDisposedPanics(t *testing.T) {
	globalDebug = true
	defer func() { globalDebug = false }()

	p, c := NewNode("p"), NewNode("c")
	c.Dispose()
	defer func() {
		if recover() == nil {
			t.Error("expected panic adding a disposed node in debug mode")
		}
	}()
	p.AddChild(c)
}
