package reach

import "log/slog"

// Behavior supplies the per-kind hooks of an Interactable.
//
// Select runs when the interactable is about to enter StateSelected.
// Returning redirected=true aborts the transition: the state is left
// unchanged and no selected event fires. Spawners use this to hand the
// interactor a fresh copy instead. A non-nil error (or a panic) is logged and
// treated the same as redirected.
//
// DeSelected runs when the interactable leaves StateSelected.
type Behavior interface {
	Select(i *Interactor) (redirected bool, err error)
	DeSelected()
}

// BaseBehavior is a Behavior whose Select always accepts and whose hooks do
// nothing. Embed it to implement only the hooks you need.
type BaseBehavior struct{}

func (BaseBehavior) Select(*Interactor) (bool, error) { return false, nil }
func (BaseBehavior) DeSelected()                        {}
func (BaseBehavior) StartHover()                        {}
func (BaseBehavior) EndHover()                          {}
func (BaseBehavior) UseStarted()                        {}
func (BaseBehavior) UseEnded()                          {}

// HoverBehavior is an optional Behavior extension notified on hover changes.
type HoverBehavior interface {
	StartHover()
	EndHover()
}

// UseBehavior is an optional Behavior extension notified on use changes.
type UseBehavior interface {
	UseStarted()
	UseEnded()
}

// InteractableEvents groups the signals an Interactable fires. Delivery is
// synchronous: listeners run before the transition call returns.
type InteractableEvents struct {
	HoverStarted Signal[InteractionEvent]
	HoverEnded   Signal[InteractionEvent]
	Selected     Signal[InteractionEvent]
	Deselected   Signal[InteractionEvent]
	UseStarted   Signal[InteractionEvent]
	UseEnded     Signal[InteractionEvent]
}

// Interactable is the per-object interaction state machine. Concrete kinds
// (Grabable, Constrained manipulators, Spawner) embed it and supply a
// Behavior.
//
// Invariants: Interactor() != nil whenever State() != StateNone, and
// IsUsing() implies State() == StateSelected.
type Interactable struct {
	Node *Node

	// Hands restricts which hands may hover or select.
	Hands HandMask
	// SelectionButton selects; the other button activates (see ResolveButton).
	SelectionButton Button
	// InteractionPoint, when set, is the point used for proximity ranking.
	InteractionPoint *Node

	Events InteractableEvents

	behavior   Behavior
	colliders  []*Collider
	state      InteractionState
	interactor *Interactor
	using      bool
	hoverEnded bool
	world      *World
}

// NewInteractable creates an interactable for node driven by b. Both hands
// are eligible and grip selects.
func NewInteractable(node *Node, b Behavior) *Interactable {
	return &Interactable{
		Node:            node,
		Hands:           HandMaskBoth,
		SelectionButton: ButtonGrip,
		behavior:        b,
	}
}

// Base returns ib. Types embedding *Interactable inherit it, which is how
// World.Add recognizes them.
func (ib *Interactable) Base() *Interactable {
	return ib
}

// Name returns the owning node's name.
func (ib *Interactable) Name() string {
	if ib.Node == nil {
		return ""
	}
	return ib.Node.Name
}

// World returns the world the interactable was added to, or nil.
func (ib *Interactable) World() *World {
	return ib.world
}

// AddCollider attaches c and records ib as its owner.
func (ib *Interactable) AddCollider(c *Collider) {
	c.Owner = ib
	ib.colliders = append(ib.colliders, c)
	if ib.world != nil {
		ib.world.AddCollider(c)
	}
}

// Colliders returns the attached colliders. The returned slice MUST NOT be mutated.
func (ib *Interactable) Colliders() []*Collider {
	return ib.colliders
}

// State returns the current interaction state.
func (ib *Interactable) State() InteractionState {
	return ib.state
}

// Interactor returns the associated interactor, or nil in StateNone.
func (ib *Interactable) Interactor() *Interactor {
	return ib.interactor
}

// IsHovered reports whether the state is StateHovering.
func (ib *Interactable) IsHovered() bool {
	return ib.state == StateHovering
}

// IsSelected reports whether the state is StateSelected.
func (ib *Interactable) IsSelected() bool {
	return ib.state == StateSelected
}

// IsUsing reports whether the activation button is held while selected.
func (ib *Interactable) IsUsing() bool {
	return ib.using
}

// IsValidHand reports whether hand may interact with ib.
func (ib *Interactable) IsValidHand(hand Hand) bool {
	return ib.Hands&hand.Mask() != 0
}

// OnStateChanged drives the state machine:
//
//	None -> Hovering -> Selected -> {Hovering | None}
//	Hovering -> None
//
// Calling it with the current state is a no-op.
func (ib *Interactable) OnStateChanged(state InteractionState, i *Interactor) {
	if state == ib.state {
		return
	}
	from := ib.state

	switch state {
	case StateNone:
		switch from {
		case StateSelected:
			ib.deselect()
		case StateHovering:
			ib.endHover()
		}
		ib.state = StateNone
		ib.interactor = nil

	case StateHovering:
		if from == StateSelected {
			// Selection lost while still in range (released, or taken by
			// another interactor).
			ib.deselect()
		}
		ib.state = StateHovering
		ib.interactor = i
		ib.hoverEnded = false
		if h, ok := ib.behavior.(HoverBehavior); ok {
			ib.hook("start hover", h.StartHover)
		}
		ib.fire(&ib.Events.HoverStarted, EventHoverStart)

	case StateSelected:
		if from == StateHovering {
			ib.endHover()
		}
		prev := ib.interactor
		ib.interactor = i
		if ib.callSelect(i) {
			ib.interactor = prev
			// Hover-end already fired; the next exit must not repeat it.
			ib.hoverEnded = from == StateHovering
			debugTransition(ib, from, from, i)
			return
		}
		ib.state = StateSelected
		ib.fire(&ib.Events.Selected, EventSelect)
	}
	debugTransition(ib, from, ib.state, i)
}

// callSelect runs the Select hook and reports whether the transition must
// be aborted.
func (ib *Interactable) callSelect(i *Interactor) bool {
	var redirected bool
	var hookErr error
	err := safeCall("select", func() {
		redirected, hookErr = ib.behavior.Select(i)
	})
	if err == nil {
		err = hookErr
	}
	if err != nil {
		logger.Error("select failed", slog.String("interactable", ib.Name()), slog.Any("err", err))
		return true
	}
	return redirected
}

// deselect runs the Selected->None sequence without touching state.
func (ib *Interactable) deselect() {
	if ib.using {
		ib.using = false
		if u, ok := ib.behavior.(UseBehavior); ok {
			ib.hook("use ended", u.UseEnded)
		}
		ib.fire(&ib.Events.UseEnded, EventUseEnd)
	}
	ib.hook("deselected", ib.behavior.DeSelected)
	ib.fire(&ib.Events.Deselected, EventDeselect)
}

// endHover runs the Hovering->(anything) exit sequence.
func (ib *Interactable) endHover() {
	if ib.hoverEnded {
		ib.hoverEnded = false
		return
	}
	if h, ok := ib.behavior.(HoverBehavior); ok {
		ib.hook("end hover", h.EndHover)
	}
	ib.fire(&ib.Events.HoverEnded, EventHoverEnd)
}

// StartUsing begins the use sub-protocol. Only legal while selected by i.
func (ib *Interactable) StartUsing(i *Interactor) {
	if ib.state != StateSelected || ib.interactor != i || ib.using {
		return
	}
	ib.using = true
	if u, ok := ib.behavior.(UseBehavior); ok {
		ib.hook("use started", u.UseStarted)
	}
	ib.fire(&ib.Events.UseStarted, EventUseStart)
}

// StopUsing ends the use sub-protocol.
func (ib *Interactable) StopUsing(i *Interactor) {
	if !ib.using || ib.interactor != i {
		return
	}
	ib.using = false
	if u, ok := ib.behavior.(UseBehavior); ok {
		ib.hook("use ended", u.UseEnded)
	}
	ib.fire(&ib.Events.UseEnded, EventUseEnd)
}

// Dispose releases ib from its interactor and clears every listener.
func (ib *Interactable) Dispose() {
	if ib.interactor != nil {
		ib.interactor.drop(ib)
	}
	ib.OnStateChanged(StateNone, nil)
	ib.Events = InteractableEvents{}
}

// detach silently returns a hovering interactable to StateNone after its
// selection was redirected elsewhere. Hover-end already fired on the way
// into Select.
func (ib *Interactable) detach(i *Interactor) {
	if ib.state == StateHovering && ib.interactor == i {
		ib.state = StateNone
		ib.interactor = nil
		ib.hoverEnded = false
		debugTransition(ib, StateHovering, StateNone, i)
	}
}

// hook runs a behavior hook, logging instead of propagating a panic.
func (ib *Interactable) hook(op string, fn func()) {
	if err := safeCall(op, fn); err != nil {
		logger.Error("interactable hook failed", slog.String("interactable", ib.Name()), slog.Any("err", err))
	}
}

// fire emits ev on sig and forwards it to the world's event sink.
func (ib *Interactable) fire(sig *Signal[InteractionEvent], typ EventType) {
	ev := InteractionEvent{
		Type:         typ,
		Interactable: ib,
		Interactor:   ib.interactor,
		State:        ib.state,
	}
	if ib.interactor != nil {
		ev.Hand = ib.interactor.Hand
	}
	if ib.Node != nil {
		ev.EntityID = ib.Node.EntityID
	}
	sig.Emit(ev)
	ib.world.emit(ev)
}
