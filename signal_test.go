package reach

import "testing"

func TestSignalEmitOrder(t *testing.T) {
	var s Signal[int]
	var got []int
	s.Subscribe(func(v int) { got = append(got, v*10+1) })
	s.Subscribe(func(v int) { got = append(got, v*10+2) })
	s.Emit(3)
	if len(got) != 2 || got[0] != 31 || got[1] != 32 {
		t.Errorf("got %v, want [31 32]", got)
	}
}

func TestSubscriptionDispose(t *testing.T) {
	var s Signal[int]
	calls := 0
	sub := s.Subscribe(func(int) { calls++ })
	if !sub.Active() {
		t.Error("new subscription should be active")
	}
	sub.Dispose()
	sub.Dispose() // idempotent
	s.Emit(1)
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
	if sub.Active() || s.Len() != 0 {
		t.Error("subscription should be gone")
	}
}

func TestZeroSubscriptionDispose(t *testing.T) {
	var sub Subscription
	sub.Dispose() // must not panic
}

func TestDisposeDuringEmitSkipsLater(t *testing.T) {
	var s Signal[int]
	var second Subscription
	calls := 0
	s.Subscribe(func(int) { second.Dispose() })
	second = s.Subscribe(func(int) { calls++ })
	s.Emit(1)
	if calls != 0 {
		t.Errorf("handler removed during emit was called %d times", calls)
	}
}

func TestSubscribeDuringEmitNotCalled(t *testing.T) {
	var s Signal[int]
	calls := 0
	s.Subscribe(func(int) {
		s.Subscribe(func(int) { calls++ })
	})
	s.Emit(1)
	if calls != 0 {
		t.Errorf("handler added during emit was called %d times", calls)
	}
	s.Emit(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 after second emit", calls)
	}
}

func TestSignalClear(t *testing.T) {
	var s Signal[string]
	calls := 0
	s.Subscribe(func(string) { calls++ })
	s.Clear()
	s.Emit("x")
	if calls != 0 || s.Len() != 0 {
		t.Error("Clear should drop every handler")
	}
}
