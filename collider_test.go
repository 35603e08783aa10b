package reach

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func nodeAt(name string, p mgl64.Vec3) *Node {
	n := NewNode(name)
	n.SetPosition(p)
	return n
}

func TestSphereContainsAndClosestPoint(t *testing.T) {
	n := nodeAt("s", mgl64.Vec3{1, 0, 0})
	s := Sphere{Radius: 0.5}
	if !s.Contains(n, mgl64.Vec3{1.4, 0, 0}) {
		t.Error("point inside should be contained")
	}
	if s.Contains(n, mgl64.Vec3{2, 0, 0}) {
		t.Error("point outside should not be contained")
	}
	assertVec(t, "closest", s.ClosestPoint(n, mgl64.Vec3{3, 0, 0}), mgl64.Vec3{1.5, 0, 0})
}

func TestSphereRadiusUsesWorldScale(t *testing.T) {
	n := NewNode("s")
	n.SetScale(mgl64.Vec3{1, 3, 1})
	if !(Sphere{Radius: 1}).Contains(n, mgl64.Vec3{2.5, 0, 0}) {
		t.Error("radius should scale by the largest scale component")
	}
}

func TestBoxClosestPointRotated(t *testing.T) {
	n := NewNode("b")
	n.SetRotation(yaw(90))
	b := Box{HalfExtents: mgl64.Vec3{2, 1, 0.5}}
	// yaw 90° swaps the long X extent onto Z.
	if !b.Contains(n, mgl64.Vec3{0, 0, 1.5}) {
		t.Error("rotated box should contain (0,0,1.5)")
	}
	if b.Contains(n, mgl64.Vec3{1.5, 0, 0}) {
		t.Error("rotated box should not contain (1.5,0,0)")
	}
}

func TestRaycastSphere(t *testing.T) {
	n := nodeAt("s", mgl64.Vec3{0, 0, -5})
	s := Sphere{Radius: 1}
	d, ok := s.Raycast(n, Ray{Direction: mgl64.Vec3{0, 0, -1}}, 10)
	if !ok {
		t.Fatal("expected hit")
	}
	assertNear(t, "distance", d, 4)

	if _, ok := s.Raycast(n, Ray{Direction: mgl64.Vec3{0, 0, -1}}, 3); ok {
		t.Error("hit beyond max distance should be rejected")
	}
	if _, ok := s.Raycast(n, Ray{Direction: mgl64.Vec3{0, 0, 1}}, 10); ok {
		t.Error("ray pointing away should miss")
	}
}

func TestRaycastBox(t *testing.T) {
	n := nodeAt("b", mgl64.Vec3{3, 0, 0})
	b := Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}
	d, ok := b.Raycast(n, Ray{Direction: mgl64.Vec3{1, 0, 0}}, 10)
	if !ok {
		t.Fatal("expected hit")
	}
	assertNear(t, "distance", d, 2.5)
}

func TestRaycastFromInside(t *testing.T) {
	n := NewNode("s")
	d, ok := (Sphere{Radius: 1}).Raycast(n, Ray{Direction: mgl64.Vec3{1, 0, 0}}, 10)
	if !ok || d != 0 {
		t.Errorf("ray from inside = (%v, %v), want (0, true)", d, ok)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl64.Vec3
		want bool
	}{
		{"touching", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.9, 0, 0}, true},
		{"apart", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1.1, 0, 0}, false},
		{"same center", mgl64.Vec3{2, 2, 2}, mgl64.Vec3{2, 2, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewCollider(nodeAt("a", tt.a), Sphere{Radius: 0.5})
			b := NewCollider(nodeAt("b", tt.b), Sphere{Radius: 0.5})
			if got := Overlaps(a, b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapsSphereBox(t *testing.T) {
	s := NewCollider(nodeAt("s", mgl64.Vec3{0, 0, 0}), Sphere{Radius: 0.3})
	b := NewCollider(nodeAt("b", mgl64.Vec3{0.7, 0, 0}), Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}})
	if !Overlaps(s, b) {
		t.Error("sphere reaching into box should overlap")
	}
}

func TestOverlapsDisabled(t *testing.T) {
	a := NewCollider(NewNode("a"), Sphere{Radius: 1})
	b := NewCollider(NewNode("b"), Sphere{Radius: 1})
	b.Enabled = false
	if Overlaps(a, b) {
		t.Error("disabled collider should not overlap")
	}
}

func TestLayerMask(t *testing.T) {
	m := MaskOf(3, 10, 40)
	if !m.Has(3) || !m.Has(10) {
		t.Error("mask should contain 3 and 10")
	}
	if m.Has(4) || m.Has(40) || m.Has(-1) {
		t.Error("mask should not contain 4, 40 or -1")
	}
	if !LayerMaskAll.Has(31) {
		t.Error("LayerMaskAll should contain 31")
	}
}
