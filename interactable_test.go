package reach

import (
	"errors"
	"testing"
)

type recBehavior struct {
	BaseBehavior
	calls    []string
	redirect bool
	err      error
	panics   bool
}

func (b *recBehavior) Select(*Interactor) (bool, error) {
	b.calls = append(b.calls, "select")
	if b.panics {
		panic("boom")
	}
	return b.redirect, b.err
}

func (b *recBehavior) DeSelected() { b.calls = append(b.calls, "deselected") }
func (b *recBehavior) StartHover() { b.calls = append(b.calls, "start-hover") }
func (b *recBehavior) EndHover()   { b.calls = append(b.calls, "end-hover") }
func (b *recBehavior) UseStarted() { b.calls = append(b.calls, "use-started") }
func (b *recBehavior) UseEnded()   { b.calls = append(b.calls, "use-ended") }

func newRecInteractable() (*Interactable, *recBehavior) {
	b := &recBehavior{}
	return NewInteractable(NewNode("obj"), b), b
}

// recordEvents subscribes to every signal of ib and returns the event log.
func recordEvents(ib *Interactable) *[]string {
	var log []string
	rec := func(ev InteractionEvent) { log = append(log, ev.Type.String()) }
	ib.Events.HoverStarted.Subscribe(rec)
	ib.Events.HoverEnded.Subscribe(rec)
	ib.Events.Selected.Subscribe(rec)
	ib.Events.Deselected.Subscribe(rec)
	ib.Events.UseStarted.Subscribe(rec)
	ib.Events.UseEnded.Subscribe(rec)
	return &log
}

func assertStrings(t *testing.T, name string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", name, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

func assertInvariants(t *testing.T, ib *Interactable) {
	t.Helper()
	if ib.State() != StateNone && ib.Interactor() == nil {
		t.Errorf("state %v with nil interactor", ib.State())
	}
	if ib.State() == StateNone && ib.Interactor() != nil {
		t.Error("interactor should be nil in StateNone")
	}
	if ib.IsUsing() && ib.State() != StateSelected {
		t.Errorf("using in state %v", ib.State())
	}
}

// --- State machine ---

func TestStateRoundTrip(t *testing.T) {
	ib, b := newRecInteractable()
	events := recordEvents(ib)
	i := newTestInteractor(HandRight).Interactor

	ib.OnStateChanged(StateHovering, i)
	assertInvariants(t, ib)
	ib.OnStateChanged(StateSelected, i)
	assertInvariants(t, ib)
	ib.OnStateChanged(StateNone, i)
	assertInvariants(t, ib)

	assertStrings(t, "events", *events, []string{"hover-start", "hover-end", "select", "deselect"})
	assertStrings(t, "hooks", b.calls, []string{"start-hover", "end-hover", "select", "deselected"})
}

func TestOnStateChangedSameStateNoop(t *testing.T) {
	ib, _ := newRecInteractable()
	events := recordEvents(ib)
	i := newTestInteractor(HandRight).Interactor

	ib.OnStateChanged(StateNone, i)
	ib.OnStateChanged(StateHovering, i)
	ib.OnStateChanged(StateHovering, i)
	assertStrings(t, "events", *events, []string{"hover-start"})
}

func TestSelectedToHovering(t *testing.T) {
	ib, _ := newRecInteractable()
	i := newTestInteractor(HandRight).Interactor
	ib.OnStateChanged(StateHovering, i)
	ib.OnStateChanged(StateSelected, i)
	events := recordEvents(ib)

	ib.OnStateChanged(StateHovering, i)
	assertStrings(t, "events", *events, []string{"deselect", "hover-start"})
	if ib.Interactor() != i {
		t.Error("interactor should be kept while hovering")
	}
}

func TestSelectAborts(t *testing.T) {
	tests := []struct {
		name string
		set  func(b *recBehavior)
	}{
		{"redirected", func(b *recBehavior) { b.redirect = true }},
		{"error", func(b *recBehavior) { b.err = errors.New("nope") }},
		{"panic", func(b *recBehavior) { b.panics = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLogger(nil)
			ib, b := newRecInteractable()
			tt.set(b)
			i := newTestInteractor(HandRight).Interactor
			ib.OnStateChanged(StateHovering, i)
			events := recordEvents(ib)

			ib.OnStateChanged(StateSelected, i)
			if ib.State() != StateHovering {
				t.Errorf("state = %v, want hovering", ib.State())
			}
			if ib.Interactor() != i {
				t.Error("previous interactor should be restored")
			}
			for _, ev := range *events {
				if ev == "select" {
					t.Error("select event fired on aborted transition")
				}
			}
		})
	}
}

func TestSelectAbortEndsHoverOnce(t *testing.T) {
	SetLogger(nil)
	ib, b := newRecInteractable()
	b.err = errors.New("nope")
	i := newTestInteractor(HandRight).Interactor
	ib.OnStateChanged(StateHovering, i)
	events := recordEvents(ib)

	ib.OnStateChanged(StateSelected, i)
	ib.OnStateChanged(StateSelected, i)
	ib.OnStateChanged(StateNone, i)
	assertStrings(t, "events", *events, []string{EventHoverEnd.String()})
	assertInvariants(t, ib)

	ib.OnStateChanged(StateHovering, i)
	ib.OnStateChanged(StateNone, i)
	assertStrings(t, "events", *events, []string{
		EventHoverEnd.String(), EventHoverStart.String(), EventHoverEnd.String(),
	})
}

func TestSelectAbortFromNoneRestoresNil(t *testing.T) {
	ib, b := newRecInteractable()
	b.redirect = true
	i := newTestInteractor(HandRight).Interactor
	ib.OnStateChanged(StateSelected, i)
	if ib.State() != StateNone || ib.Interactor() != nil {
		t.Errorf("state = %v interactor = %v, want none/nil", ib.State(), ib.Interactor())
	}
}

// --- Use ---

func TestUseLifecycle(t *testing.T) {
	ib, b := newRecInteractable()
	i := newTestInteractor(HandRight).Interactor
	other := newTestInteractor(HandLeft).Interactor

	ib.StartUsing(i) // not selected
	if ib.IsUsing() {
		t.Fatal("use should require selection")
	}

	ib.OnStateChanged(StateHovering, i)
	ib.OnStateChanged(StateSelected, i)
	events := recordEvents(ib)

	ib.StartUsing(other)
	if ib.IsUsing() {
		t.Fatal("only the selecting interactor may use")
	}
	ib.StartUsing(i)
	ib.StartUsing(i)
	assertInvariants(t, ib)
	ib.StopUsing(i)
	ib.StopUsing(i)
	assertStrings(t, "events", *events, []string{"use-start", "use-end"})

	b.calls = nil
	ib.StartUsing(i)
	ib.OnStateChanged(StateNone, i)
	assertInvariants(t, ib)
	assertStrings(t, "hooks", b.calls, []string{"use-started", "use-ended", "deselected"})
}

func TestHookPanicDoesNotStopTransition(t *testing.T) {
	SetLogger(nil)
	ib := NewInteractable(NewNode("obj"), panicHover{})
	i := newTestInteractor(HandRight).Interactor
	events := recordEvents(ib)
	ib.OnStateChanged(StateHovering, i)
	if ib.State() != StateHovering {
		t.Fatalf("state = %v, want hovering", ib.State())
	}
	assertStrings(t, "events", *events, []string{"hover-start"})
}

type panicHover struct{ BaseBehavior }

func (panicHover) StartHover() { panic("hover") }

// --- Events and teardown ---

type sliceSink struct {
	events []InteractionEvent
}

func (s *sliceSink) EmitEvent(ev InteractionEvent) { s.events = append(s.events, ev) }

func TestWorldSinkReceivesEvents(t *testing.T) {
	w := testWorld()
	sink := &sliceSink{}
	w.SetEventSink(sink)

	ib, _ := newRecInteractable()
	ib.Node.EntityID = 42
	w.Add(ib)
	i := newTestInteractor(HandLeft).Interactor
	ib.OnStateChanged(StateHovering, i)

	if len(sink.events) != 1 {
		t.Fatalf("sink events = %d, want 1", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Type != EventHoverStart || ev.EntityID != 42 || ev.Hand != HandLeft || ev.Interactor != i {
		t.Errorf("event = %+v", ev)
	}
	if ev.State != StateHovering {
		t.Errorf("event state = %v, want hovering", ev.State)
	}
}

func TestInteractableDisposeReleases(t *testing.T) {
	ti := newTestInteractor(HandRight)
	ib, b := newRecInteractable()
	ti.switchTo(ib)
	ti.ctrl.Press(ButtonGrip)
	if !ib.IsSelected() {
		t.Fatal("setup: should be selected")
	}

	ib.Dispose()
	if ib.State() != StateNone {
		t.Errorf("state = %v, want none", ib.State())
	}
	if ti.Current() != nil || ti.IsInteracting() {
		t.Error("interactor should forget a disposed interactable")
	}
	if ib.Events.Selected.Len() != 0 {
		t.Error("listeners should be cleared")
	}
	if b.calls[len(b.calls)-1] != "deselected" {
		t.Errorf("hooks = %v, want deselected last", b.calls)
	}

	b.calls = nil
	ti.ctrl.Release(ButtonGrip)
	if len(b.calls) != 0 {
		t.Errorf("released button reached a disposed interactable: %v", b.calls)
	}
}

func TestWorldRemoveDisposes(t *testing.T) {
	w := testWorld()
	ib, _ := newRecInteractable()
	w.Add(ib)
	ti := newTestInteractor(HandRight)
	ti.switchTo(ib)

	w.Remove(ib)
	if ib.State() != StateNone || ib.World() != nil {
		t.Error("removed interactable should be reset and detached from the world")
	}
	if len(w.Interactables()) != 0 {
		t.Error("world should forget the interactable")
	}
}
