package reach

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// rangeChecker lets an acquisition strategy veto the re-hover that follows a
// deselect when the target is no longer reachable.
type rangeChecker interface {
	InRange(ib *Interactable) bool
}

// Interactor orchestrates one hand's relationship to at most one
// Interactable at a time. Acquisition strategies (TriggerInteractor,
// RaycastInteractor) choose the target; the Interactor turns button edges
// into state transitions.
type Interactor struct {
	Hand   Hand
	Source PoseSource

	// Node is the hand body carrying the acquisition volumes.
	Node *Node
	// AttachPoint is the child of Node that grabbed objects are parented to.
	AttachPoint *Node
	// HandModel is the visible hand, hidden while a synthetic hand stands in.
	HandModel *Node
	// Layer is the physics layer held objects are moved to.
	Layer int
	// Track copies the source pose onto Node every frame. Disable it when a
	// HandFollower drives Node.
	Track bool

	current     *Interactable
	interacting bool

	selectionSub  Subscription
	activationSub Subscription

	handPose *HandPose
	ranges   rangeChecker
	world    *World

	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3
	lastPose        Pose
	hasLastPose     bool
}

// NewInteractor creates an interactor for hand reading src and moving node.
// An "attach" child is created as the attachment point.
func NewInteractor(hand Hand, src PoseSource, node *Node) *Interactor {
	attach := NewNode("attach")
	attach.Layer = node.Layer
	node.AddChild(attach)
	return &Interactor{
		Hand:        hand,
		Source:      src,
		Node:        node,
		AttachPoint: attach,
		Layer:       node.Layer,
		Track:       true,
	}
}

// Base returns i. Acquisition strategies embedding *Interactor inherit it,
// which is how World.Add recognizes them.
func (i *Interactor) Base() *Interactor {
	return i
}

// Current returns the hovered or selected interactable, or nil.
func (i *Interactor) Current() *Interactable {
	return i.current
}

// IsInteracting reports whether the interactor holds its current target.
func (i *Interactor) IsInteracting() bool {
	return i.interacting
}

// WorldPosition returns the hand node's world position.
func (i *Interactor) WorldPosition() mgl64.Vec3 {
	return i.Node.WorldPosition()
}

// Velocity returns the hand's linear velocity estimated from frame deltas.
func (i *Interactor) Velocity() mgl64.Vec3 {
	return i.velocity
}

// AngularVelocity returns the hand's angular velocity (axis * rad/s).
func (i *Interactor) AngularVelocity() mgl64.Vec3 {
	return i.angularVelocity
}

// SyncPose copies the source pose onto Node.
func (i *Interactor) SyncPose() {
	if i.Source == nil {
		return
	}
	i.Node.SetWorldPose(i.Source.Pose())
}

// Update tracks the source pose and the hand velocity.
func (i *Interactor) Update(dt float64) {
	if i.Track {
		i.SyncPose()
	}
	pose := i.Node.WorldPose()
	if i.hasLastPose && dt > 0 {
		i.velocity = pose.Position.Sub(i.lastPose.Position).Mul(1 / dt)
		rot := pose.Rotation
		if rot.Dot(i.lastPose.Rotation) < 0 {
			rot = rot.Scale(-1)
		}
		angle, axis := quatToAngleAxis(rot.Mul(i.lastPose.Rotation.Inverse()))
		i.angularVelocity = axis.Mul(angle / dt)
	}
	i.lastPose = pose
	i.hasLastPose = true
}

// --- Hover ---

// OnHoverStart moves the current target into StateHovering and subscribes to
// its selection button. Ineligible hands and already selected targets are
// ignored.
func (i *Interactor) OnHoverStart() {
	t := i.current
	if t == nil || !t.IsValidHand(i.Hand) || t.IsSelected() {
		return
	}
	if i.Source == nil {
		logSkip("hover start", ErrNoSource, slog.String("hand", i.Hand.String()))
		return
	}
	t.OnStateChanged(StateHovering, i)
	i.selectionSub.Dispose()
	i.selectionSub = i.stream(t, RoleSelection).Subscribe(i.onSelectionEdge)
}

// OnHoverEnd drops the selection subscription and returns a target hovered
// by this interactor to StateNone. The current target is kept; callers
// replace it.
func (i *Interactor) OnHoverEnd() {
	i.selectionSub.Dispose()
	t := i.current
	if t == nil {
		return
	}
	if t.IsHovered() && t.interactor == i {
		t.OnStateChanged(StateNone, i)
	}
}

// rehover restarts hover on the current target when it dropped back to
// StateNone while this interactor still points at it. That happens when
// two hands share a target and the one that owned the hover leaves.
func (i *Interactor) rehover() {
	t := i.current
	if t == nil || i.interacting || t.state != StateNone {
		return
	}
	if err := safeCall("hover start", i.OnHoverStart); err != nil {
		logger.Error("hover start failed", slog.String("interactable", t.Name()), slog.Any("err", err))
	}
}

// switchTo runs the exit-then-enter hover sequence onto t (nil clears).
// Failures are logged per object so a broken interactable cannot stall
// acquisition.
func (i *Interactor) switchTo(t *Interactable) {
	if i.current != nil {
		if err := safeCall("hover end", i.OnHoverEnd); err != nil {
			logger.Error("hover end failed", slog.String("interactable", i.current.Name()), slog.Any("err", err))
		}
	}
	i.current = t
	if t == nil {
		return
	}
	if err := safeCall("hover start", i.OnHoverStart); err != nil {
		logger.Error("hover start failed", slog.String("interactable", t.Name()), slog.Any("err", err))
	}
}

// --- Selection ---

func (i *Interactor) onSelectionEdge(edge ButtonEdge) {
	switch edge {
	case EdgeDown:
		if !i.interacting {
			i.OnSelect()
		}
	case EdgeUp:
		if i.interacting && i.current != nil && i.current.interactor == i {
			i.OnDeSelect()
		}
	}
}

// OnSelect selects the hovered target and subscribes to its activation
// button. An already selected target is rejected.
func (i *Interactor) OnSelect() {
	t := i.current
	if t == nil || i.interacting || !t.IsHovered() || !t.IsValidHand(i.Hand) {
		return
	}
	i.interacting = true
	t.OnStateChanged(StateSelected, i)
	if i.current != t {
		t.detach(i)
	}
	cur := i.current
	if cur == nil || !cur.IsSelected() || cur.interactor != i {
		i.interacting = false
		return
	}
	i.activationSub.Dispose()
	i.activationSub = i.stream(cur, RoleActivation).Subscribe(i.onActivationEdge)
}

// OnDeSelect releases the held target, then re-hovers it if it is still in
// range.
func (i *Interactor) OnDeSelect() {
	if !i.interacting {
		return
	}
	i.interacting = false
	i.activationSub.Dispose()
	t := i.current
	if t == nil {
		return
	}
	if t.IsSelected() && t.interactor == i {
		t.OnStateChanged(StateNone, i)
	}
	if i.ranges != nil && !i.ranges.InRange(t) {
		i.selectionSub.Dispose()
		i.current = nil
		return
	}
	i.OnHoverStart()
}

// ForceRelease deselects the held target as if the button was released.
func (i *Interactor) ForceRelease() {
	i.OnDeSelect()
}

// Redirect makes t the current target and selects it directly from
// StateNone. A Select hook calls this before returning redirected=true to
// hand the interactor a different object.
func (i *Interactor) Redirect(t *Interactable) bool {
	if t == nil || t.IsSelected() || !t.IsValidHand(i.Hand) {
		return false
	}
	i.current = t
	t.OnStateChanged(StateSelected, i)
	i.selectionSub.Dispose()
	i.selectionSub = i.stream(t, RoleSelection).Subscribe(i.onSelectionEdge)
	return t.IsSelected() && t.interactor == i
}

// --- Activation ---

func (i *Interactor) onActivationEdge(edge ButtonEdge) {
	t := i.current
	if t == nil || !t.IsSelected() || t.interactor != i {
		return
	}
	switch edge {
	case EdgeDown:
		t.StartUsing(i)
	case EdgeUp:
		t.StopUsing(i)
	}
}

func (i *Interactor) stream(t *Interactable, role ButtonRole) *Signal[ButtonEdge] {
	return i.Source.Button(ResolveButton(t.SelectionButton, role))
}

// --- Hand presentation ---

// ToggleHandModel shows or hides the real hand model.
func (i *Interactor) ToggleHandModel(visible bool) {
	if i.HandModel != nil {
		i.HandModel.Visible = visible
	}
}

// SetHandConstraint overrides the finger curls reported by Curl.
func (i *Interactor) SetHandConstraint(p *HandPose) {
	i.handPose = p
}

// HandConstraint returns the active constraint, or nil.
func (i *Interactor) HandConstraint() *HandPose {
	return i.handPose
}

// Curl returns the presented curl of finger f: the constraint when one is
// set, otherwise the tracked value.
func (i *Interactor) Curl(f Finger) float64 {
	if i.handPose != nil {
		return i.handPose.Curls[f]
	}
	if i.Source == nil {
		return 0
	}
	return i.Source.Curl(f)
}

// --- Teardown ---

// Dispose releases or un-hovers the current target and drops every
// subscription.
func (i *Interactor) Dispose() {
	if i.interacting {
		i.interacting = false
		i.activationSub.Dispose()
		if t := i.current; t != nil && t.IsSelected() && t.interactor == i {
			t.OnStateChanged(StateNone, i)
		}
	} else {
		i.OnHoverEnd()
	}
	i.selectionSub.Dispose()
	i.activationSub.Dispose()
	i.current = nil
}

// drop forgets ib without running its transitions; the interactable is
// being destroyed and runs them itself.
func (i *Interactor) drop(ib *Interactable) {
	if i.current != ib {
		return
	}
	i.selectionSub.Dispose()
	i.activationSub.Dispose()
	i.interacting = false
	i.current = nil
}
