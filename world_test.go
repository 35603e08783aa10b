package reach

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type countTicker struct {
	frames, steps int
	dts           []float64
}

func (c *countTicker) Update(dt float64)      { c.frames++ }
func (c *countTicker) FixedUpdate(dt float64) { c.steps++; c.dts = append(c.dts, dt) }

type panicTicker struct{}

func (panicTicker) Update(float64) { panic("boom") }

type recordListener struct {
	events []string
}

func (r *recordListener) OnTriggerEnter(c *Collider) { r.events = append(r.events, "enter:"+c.Node.Name) }
func (r *recordListener) OnTriggerExit(c *Collider)  { r.events = append(r.events, "exit:"+c.Node.Name) }

func testWorld() *World {
	SetLogger(nil)
	return NewWorld(DefaultConfig())
}

func TestUpdateRunsFixedSteps(t *testing.T) {
	w := testWorld()
	c := &countTicker{}
	w.Add(c)

	w.Update(0.05) // 2 steps of 0.02, 0.01 left over
	if c.steps != 2 {
		t.Errorf("steps = %d, want 2", c.steps)
	}
	if c.frames != 1 {
		t.Errorf("frames = %d, want 1", c.frames)
	}
	w.Update(0.015) // leftover plus this frame covers a third step
	if c.steps != 3 {
		t.Errorf("steps = %d, want 3", c.steps)
	}
	for _, dt := range c.dts {
		assertNear(t, "fixed dt", dt, w.Config().Physics.FixedStep)
	}
}

func TestUpdateCapsSteps(t *testing.T) {
	w := testWorld()
	c := &countTicker{}
	w.Add(c)
	w.Update(10)
	if c.steps != w.Config().Physics.MaxStepsPerFrame {
		t.Errorf("steps = %d, want %d", c.steps, w.Config().Physics.MaxStepsPerFrame)
	}
	w.Update(0)
	if c.steps != w.Config().Physics.MaxStepsPerFrame {
		t.Error("backlog should be dropped after hitting the cap")
	}
}

func TestUpdateRecoversPanics(t *testing.T) {
	w := testWorld()
	after := &countTicker{}
	w.Add(panicTicker{})
	w.Add(after)
	w.Update(0.001)
	if after.frames != 1 {
		t.Error("tickers after a panicking one should still run")
	}
}

func TestRemoveTicker(t *testing.T) {
	w := testWorld()
	c := &countTicker{}
	w.Add(c)
	w.Remove(c)
	w.Update(0.1)
	if c.frames != 0 || c.steps != 0 {
		t.Error("removed ticker should not run")
	}
}

func TestBodyIntegration(t *testing.T) {
	w := testWorld()
	n := NewNode("ball")
	b := NewBody(n)
	b.Velocity = mgl64.Vec3{1, 0, 0}
	w.AddBody(b)
	w.AddBody(b) // duplicates ignored
	w.Step(0.5)
	assertVec(t, "position", n.WorldPosition(), mgl64.Vec3{0.5, 0, 0})

	b.SetKinematic(true)
	w.Step(0.5)
	assertVec(t, "kinematic position", n.WorldPosition(), mgl64.Vec3{0.5, 0, 0})
	if b.Velocity != (mgl64.Vec3{}) {
		t.Error("kinematic switch should zero velocity")
	}
}

func TestBodyGravity(t *testing.T) {
	w := testWorld()
	b := NewBody(NewNode("ball"))
	b.UseGravity = true
	w.AddBody(b)
	w.Step(1)
	assertNear(t, "vy", b.Velocity[1], w.Config().Physics.Gravity)
}

func TestTriggerEnterExit(t *testing.T) {
	w := testWorld()
	l := &recordListener{}
	trig := NewTrigger(NewNode("trigger"), Sphere{Radius: 0.5}, MaskOf(3), l)
	w.AddCollider(trig)

	other := NewNode("box")
	other.Layer = 3
	other.SetPosition(mgl64.Vec3{5, 0, 0})
	w.AddCollider(NewCollider(other, Sphere{Radius: 0.5}))

	ignored := NewNode("ignored")
	ignored.Layer = 4
	w.AddCollider(NewCollider(ignored, Sphere{Radius: 0.5}))

	w.Step(0.02)
	if len(l.events) != 0 {
		t.Fatalf("unexpected events %v", l.events)
	}

	other.SetPosition(mgl64.Vec3{0.5, 0, 0})
	w.Step(0.02)
	w.Step(0.02) // staying inside fires nothing new
	other.SetPosition(mgl64.Vec3{5, 0, 0})
	w.Step(0.02)

	want := []string{"enter:box", "exit:box"}
	if len(l.events) != len(want) || l.events[0] != want[0] || l.events[1] != want[1] {
		t.Errorf("events = %v, want %v", l.events, want)
	}
}

func TestTriggerExitsBeforeEnters(t *testing.T) {
	w := testWorld()
	l := &recordListener{}
	trigNode := NewNode("trigger")
	w.AddCollider(NewTrigger(trigNode, Sphere{Radius: 0.5}, LayerMaskAll, l))
	a := nodeAt("a", mgl64.Vec3{0, 0, 0})
	b := nodeAt("b", mgl64.Vec3{10, 0, 0})
	w.AddCollider(NewCollider(a, Sphere{Radius: 0.1}))
	w.AddCollider(NewCollider(b, Sphere{Radius: 0.1}))
	w.Step(0.02)

	trigNode.SetPosition(mgl64.Vec3{10, 0, 0})
	w.Step(0.02)

	want := []string{"enter:a", "exit:a", "enter:b"}
	if len(l.events) != 3 {
		t.Fatalf("events = %v, want %v", l.events, want)
	}
	for i := range want {
		if l.events[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, l.events[i], want[i])
		}
	}
}

func TestTriggerIgnoresOwnHierarchy(t *testing.T) {
	w := testWorld()
	l := &recordListener{}
	hand := NewNode("hand")
	child := NewNode("child")
	hand.AddChild(child)
	w.AddCollider(NewCollider(hand, Sphere{Radius: 0.5}))
	w.AddCollider(NewTrigger(child, Sphere{Radius: 0.5}, LayerMaskAll, l))
	w.Step(0.02)
	if len(l.events) != 0 {
		t.Errorf("trigger should ignore colliders on its ancestors, got %v", l.events)
	}
}

func TestRaycastClosest(t *testing.T) {
	w := testWorld()
	for _, d := range []float64{5, 2, 8} {
		n := nodeAt("at", mgl64.Vec3{0, 0, -d})
		n.Name = map[float64]string{5: "five", 2: "two", 8: "eight"}[d]
		w.AddCollider(NewCollider(n, Sphere{Radius: 0.1}))
	}
	hit, ok := w.Raycast(Ray{Direction: mgl64.Vec3{0, 0, -1}}, 20, LayerMaskAll)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Collider.Node.Name != "two" {
		t.Errorf("closest = %s, want two", hit.Collider.Node.Name)
	}
	assertNear(t, "distance", hit.Distance, 1.9)
}

func TestRaycastAllBoundedBuffer(t *testing.T) {
	w := testWorld()
	for i := 4; i >= 1; i-- {
		w.AddCollider(NewCollider(nodeAt("n", mgl64.Vec3{0, 0, -float64(i)}), Sphere{Radius: 0.1}))
	}
	buf := make([]RaycastHit, 2)
	n := w.RaycastAll(Ray{Direction: mgl64.Vec3{0, 0, -1}}, 20, LayerMaskAll, buf)
	if n != 2 {
		t.Fatalf("hits = %d, want 2", n)
	}
	// Registered farthest first; the buffer keeps the two nearest.
	sum := buf[0].Distance + buf[1].Distance
	assertNear(t, "kept distances", sum, 0.9+1.9)

	if n := w.RaycastAll(Ray{Direction: mgl64.Vec3{0, 0, -1}}, 20, LayerMaskAll, nil); n != 0 {
		t.Errorf("empty buffer hits = %d, want 0", n)
	}
}

func TestRaycastClosestBeyondHitLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Interaction.RayMaxHits = 1
	SetLogger(nil)
	w := NewWorld(cfg)
	w.AddCollider(NewCollider(nodeAt("far", mgl64.Vec3{0, 0, -6}), Sphere{Radius: 0.1}))
	w.AddCollider(NewCollider(nodeAt("near", mgl64.Vec3{0, 0, -3}), Sphere{Radius: 0.1}))
	hit, ok := w.Raycast(Ray{Direction: mgl64.Vec3{0, 0, -1}}, 20, LayerMaskAll)
	if !ok || hit.Collider.Node.Name != "near" {
		t.Errorf("hit = %v, want near", hit.Collider)
	}
}

func TestRaycastRespectsMaskAndTriggers(t *testing.T) {
	w := testWorld()
	n := nodeAt("n", mgl64.Vec3{0, 0, -2})
	n.Layer = 5
	w.AddCollider(NewCollider(n, Sphere{Radius: 0.5}))
	w.AddCollider(NewTrigger(nodeAt("t", mgl64.Vec3{0, 0, -1}), Sphere{Radius: 0.5}, LayerMaskAll, nil))

	if _, ok := w.Raycast(Ray{Direction: mgl64.Vec3{0, 0, -1}}, 20, MaskOf(6)); ok {
		t.Error("collider outside mask should be ignored")
	}
	hit, ok := w.Raycast(Ray{Direction: mgl64.Vec3{0, 0, -1}}, 20, MaskOf(5))
	if !ok || hit.Collider.Node != n {
		t.Error("trigger should be ignored and the layer-5 collider hit")
	}
}

func TestSetLayer(t *testing.T) {
	w := testWorld()
	n := NewNode("n")
	c := NewCollider(n, Sphere{Radius: 1})
	w.AddCollider(c)
	w.SetLayer(n, 7)
	if n.Layer != 7 || c.Layer != 7 {
		t.Errorf("layers = (%d, %d), want 7", n.Layer, c.Layer)
	}
}

func TestInstantiate(t *testing.T) {
	w := testWorld()
	w.RegisterPrefab("hand", func() *Node { return NewNode("hand") })
	n, err := w.Instantiate("hand")
	if err != nil || n == nil || n.Name != "hand" {
		t.Fatalf("Instantiate = (%v, %v)", n, err)
	}
	if _, err := w.Instantiate("missing"); err == nil {
		t.Error("expected error for unknown prefab")
	}
}
