package reach

import (
	"fmt"
	"log/slog"
)

// Grabable is an object that follows the hand while selected. It holds the
// object through a GrabStrategy chosen from whether it has a Body.
type Grabable struct {
	*Interactable

	Body     *Body
	Strategy GrabStrategy
	// GripPoint, when set, is the child node aligned with the attach point.
	GripPoint *Node
}

// NewGrabable creates a grabable on node. body may be nil.
func NewGrabable(node *Node, body *Body, colliders ...*Collider) *Grabable {
	g := &Grabable{Body: body}
	g.Interactable = NewInteractable(node, g)
	for _, c := range colliders {
		g.AddCollider(c)
	}
	g.Strategy = NewGrabStrategy(node, body, colliders)
	return g
}

func (g *Grabable) configure(cfg Config) {
	if rb, ok := g.Strategy.(*RigidBodyGrab); ok {
		rb.ReleaseDelay = cfg.Interaction.ReleaseDelay
	}
}

// Bodies returns the body so World.Add registers it.
func (g *Grabable) Bodies() []*Body {
	if g.Body == nil {
		return nil
	}
	return []*Body{g.Body}
}

// Select refuses the grab while the strategy is still restoring a previous
// release.
func (g *Grabable) Select(i *Interactor) (bool, error) {
	if !g.Strategy.Ready() {
		if globalDebug {
			logger.Debug("grab refused", slog.String("interactable", g.Name()), slog.Any("err", ErrGrabNotAllowed))
		}
		return true, nil
	}
	g.Strategy.Initialize(i)
	g.Strategy.Grab(i.AttachPoint, g.gripOffset())
	return false, nil
}

// DeSelected releases the object.
func (g *Grabable) DeSelected() {
	g.Strategy.UnGrab()
}

// FixedUpdate drives the strategy's release timer.
func (g *Grabable) FixedUpdate(dt float64) {
	g.Strategy.FixedUpdate(dt)
}

// gripOffset returns the local pose under the attach point that brings
// GripPoint onto it.
func (g *Grabable) gripOffset() Pose {
	if g.GripPoint == nil {
		return PoseIdentity
	}
	local := g.Node.InverseTransformPose(g.GripPoint.WorldPose())
	inv := local.Rotation.Inverse()
	return Pose{
		Position: inv.Rotate(local.Position).Mul(-1),
		Rotation: inv,
	}
}

// Spawner is an interactable that never gets selected itself: selecting it
// creates a new Grabable and redirects the interactor onto it.
type Spawner struct {
	*Interactable

	// Spawn builds the object handed to the interactor.
	Spawn func() *Grabable
	// Spawned fires after each new object is selected.
	Spawned Signal[*Grabable]
}

// NewSpawner creates a spawner on node.
func NewSpawner(node *Node, spawn func() *Grabable, colliders ...*Collider) *Spawner {
	s := &Spawner{Spawn: spawn}
	s.Interactable = NewInteractable(node, s)
	for _, c := range colliders {
		s.AddCollider(c)
	}
	return s
}

// Select spawns a copy at the spawner's pose, adds it to the world and
// redirects i onto it. It always reports redirected.
func (s *Spawner) Select(i *Interactor) (bool, error) {
	if s.Spawn == nil {
		return true, fmt.Errorf("spawn %q: %w", s.Name(), ErrSpawnFailed)
	}
	g := s.Spawn()
	if g == nil || g.Node == nil {
		return true, fmt.Errorf("spawn %q: %w", s.Name(), ErrSpawnFailed)
	}
	g.Node.SetWorldPose(s.Node.WorldPose())
	if w := s.World(); w != nil {
		if g.Node.Parent == nil {
			w.Root().AddChild(g.Node)
		}
		w.Add(g)
	}
	if i.Redirect(g.Interactable) {
		s.Spawned.Emit(g)
	}
	return true, nil
}

func (s *Spawner) DeSelected() {}
