package reach

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

// PoseMode selects how the hand is presented while a Constrained
// interactable is held.
type PoseMode uint8

const (
	// PoseConstrained hides the real hand and shows a synthetic hand locked
	// to the object.
	PoseConstrained PoseMode = iota
	// PoseUnconstrained keeps the real hand and applies the hand pose to it.
	PoseUnconstrained
)

// TransitionMode selects how the synthetic hand travels to its target.
type TransitionMode uint8

const (
	TransitionInstant   TransitionMode = iota // jump to the target
	TransitionLinear                          // lerp position, nlerp rotation
	TransitionSpherical                       // arc around the object
)

// HandPose is a hand target relative to the manipulated object.
type HandPose struct {
	Offset Pose
	Curls  [FingerCount]float64
}

// Manipulator supplies the object movement of a Constrained interactable.
// HandleObjectMovement runs on select and every frame while selected.
type Manipulator interface {
	HandleObjectMovement(c *Constrained)
	HandleObjectDeselection(c *Constrained)
}

// Constrained is an interactable whose Object moves under a manipulator's
// rules instead of following the hand. Lever, Drawer, Wheel and Turret embed
// it.
type Constrained struct {
	*Interactable

	// Object is the manipulated sub-object.
	Object      *Node
	Manipulator Manipulator

	Mode               PoseMode
	Transition         TransitionMode
	TransitionDuration float64
	Ease               ease.TweenFunc
	// SnapDistance is how far the hand may drift from its target before the
	// grab breaks. Zero disables it.
	SnapDistance float64

	HandPoses [handCount]HandPose
	// HandFactory builds synthetic hands. When nil the world's hand prefab
	// is instantiated.
	HandFactory func(h Hand) *Node

	fakeHands      [handCount]*Node
	blend          *PoseBlend
	handModelLocal Pose
	compensator    *Node
}

// NewConstrained creates a constrained interactable on node manipulating
// object. When object's parent has a non-unit world scale, a
// "scale_compensator" node is inserted above object so manipulator offsets
// are in unit scale.
func NewConstrained(node, object *Node, m Manipulator) *Constrained {
	cfg := DefaultConfig().Interaction
	c := &Constrained{
		Object:             object,
		Manipulator:        m,
		Transition:         TransitionLinear,
		TransitionDuration: cfg.TransitionDuration,
		Ease:               ease.OutQuad,
		SnapDistance:       cfg.SnapDistance,
	}
	for h := range c.HandPoses {
		c.HandPoses[h].Offset = PoseIdentity
	}
	c.Interactable = NewInteractable(node, c)
	c.compensateScale()
	return c
}

func (c *Constrained) configure(cfg Config) {
	c.TransitionDuration = cfg.Interaction.TransitionDuration
	c.SnapDistance = cfg.Interaction.SnapDistance
}

func (c *Constrained) compensateScale() {
	if c.Object == nil || c.Object.Parent == nil {
		return
	}
	p := c.Object.Parent
	s := p.WorldScale()
	if math.Abs(s[0]-1) < 1e-6 && math.Abs(s[1]-1) < 1e-6 && math.Abs(s[2]-1) < 1e-6 {
		return
	}
	comp := NewNode("scale_compensator")
	comp.Layer = c.Object.Layer
	comp.SetScale(invVec(s))
	p.AddChild(comp)
	comp.AddChildKeepWorld(c.Object)
	c.compensator = comp
}

// Compensator returns the inserted scale compensator, or nil.
func (c *Constrained) Compensator() *Node {
	return c.compensator
}

// FakeHand returns the synthetic hand for h, or nil if none was created.
func (c *Constrained) FakeHand(h Hand) *Node {
	return c.fakeHands[h]
}

// HandTarget returns the world pose the hand of h is held at.
func (c *Constrained) HandTarget(h Hand) Pose {
	return c.Object.TransformPose(c.HandPoses[h].Offset)
}

// Select presents the hand and runs the first movement step. It never
// aborts.
func (c *Constrained) Select(i *Interactor) (bool, error) {
	h := i.Hand
	switch c.Mode {
	case PoseConstrained:
		if fake := c.fakeHand(h); fake != nil {
			i.ToggleHandModel(false)
			fake.Visible = true
			c.startBlend(i, fake)
		}
		i.SetHandConstraint(&c.HandPoses[h])
	case PoseUnconstrained:
		if i.HandModel != nil {
			c.handModelLocal = i.HandModel.LocalPose()
		}
		i.SetHandConstraint(&c.HandPoses[h])
	}
	c.move()
	return false, nil
}

// DeSelected restores the real hand, hides the synthetic one and lets the
// manipulator settle.
func (c *Constrained) DeSelected() {
	if i := c.Interactor(); i != nil {
		i.ToggleHandModel(true)
		i.SetHandConstraint(nil)
		if c.Mode == PoseUnconstrained && i.HandModel != nil {
			i.HandModel.SetLocalPose(c.handModelLocal)
		}
		if fake := c.fakeHands[i.Hand]; fake != nil {
			fake.Visible = false
		}
	}
	c.blend = nil
	if c.Manipulator == nil {
		logSkip("deselection", ErrNoManipulator, slog.String("interactable", c.Name()))
		return
	}
	m := c.Manipulator
	c.hook("handle deselection", func() { m.HandleObjectDeselection(c) })
}

// Update runs while selected: advance the hand blend, move the object, and
// break the grab when the hand drifts beyond SnapDistance.
func (c *Constrained) Update(dt float64) {
	if !c.IsSelected() {
		return
	}
	i := c.Interactor()
	c.move()
	if !c.IsSelected() {
		return
	}
	target := c.HandTarget(i.Hand)
	switch c.Mode {
	case PoseConstrained:
		if fake := c.fakeHands[i.Hand]; fake != nil {
			if c.blend != nil {
				fake.SetWorldPose(c.blend.Update(dt, target))
			} else {
				fake.SetWorldPose(target)
			}
		}
	case PoseUnconstrained:
		if i.HandModel != nil {
			i.HandModel.SetWorldPose(target)
		}
	}
	if c.SnapDistance > 0 && i.WorldPosition().Sub(target.Position).Len() > c.SnapDistance {
		i.ForceRelease()
	}
}

// Dispose destroys the synthetic hand pool, then releases the interactable.
func (c *Constrained) Dispose() {
	c.Interactable.Dispose()
	for h, fake := range c.fakeHands {
		if fake != nil {
			fake.Dispose()
			c.fakeHands[h] = nil
		}
	}
}

func (c *Constrained) move() {
	if c.Manipulator == nil {
		logSkip("movement", ErrNoManipulator, slog.String("interactable", c.Name()))
		return
	}
	m := c.Manipulator
	c.hook("handle movement", func() { m.HandleObjectMovement(c) })
}

func (c *Constrained) startBlend(i *Interactor, fake *Node) {
	from := i.Node.WorldPose()
	if i.HandModel != nil {
		from = i.HandModel.WorldPose()
	}
	if c.Transition == TransitionInstant {
		c.blend = nil
		fake.SetWorldPose(c.HandTarget(i.Hand))
		return
	}
	c.blend = NewPoseBlend(from, c.TransitionDuration, c.Ease)
	if c.Transition == TransitionSpherical {
		c.blend.Spherical = true
		c.blend.Pivot = c.Object.WorldPosition()
	}
	fake.SetWorldPose(from)
}

// fakeHand returns the pooled synthetic hand for h, creating it on first
// use. Hands are hidden on release, never destroyed until Dispose.
func (c *Constrained) fakeHand(h Hand) *Node {
	if c.fakeHands[h] != nil {
		return c.fakeHands[h]
	}
	var n *Node
	switch {
	case c.HandFactory != nil:
		n = c.HandFactory(h)
	case c.World() != nil:
		w := c.World()
		var err error
		n, err = w.Instantiate(w.cfg.Prefabs.HandPrefab(h))
		if err != nil {
			logSkip("synthetic hand", err, slog.String("interactable", c.Name()))
			return nil
		}
	}
	if n == nil {
		logSkip("synthetic hand", ErrNoHandFactory, slog.String("interactable", c.Name()), slog.String("hand", h.String()))
		return nil
	}
	n.Visible = false
	if n.Parent == nil {
		if w := c.World(); w != nil {
			w.Root().AddChild(n)
		}
	}
	c.fakeHands[h] = n
	return n
}

// handLocal returns the interactor's hand position in the local space of
// ref's parent, or of ref itself when it has no parent.
func handLocal(i *Interactor, ref *Node) mgl64.Vec3 {
	if ref.Parent == nil {
		return i.WorldPosition()
	}
	return ref.Parent.InverseTransformPoint(i.WorldPosition())
}
