package reach

// signalHandler is a registered callback. fn is cleared on removal so an
// emission already in progress skips it.
type signalHandler[T any] struct {
	id uint32
	fn func(T)
}

// Signal is a synchronous publish/subscribe channel. Emit calls every
// subscribed handler in registration order before returning. The zero value
// is ready to use.
type Signal[T any] struct {
	handlers []*signalHandler[T]
	nextID   uint32
}

// Subscribe registers fn and returns a Subscription that removes it.
func (s *Signal[T]) Subscribe(fn func(T)) Subscription {
	s.nextID++
	id := s.nextID
	s.handlers = append(s.handlers, &signalHandler[T]{id: id, fn: fn})
	return Subscription{id: id, sig: s}
}

// Emit delivers v to every live handler. Handlers added during Emit are not
// called for this value; handlers removed during Emit are skipped.
func (s *Signal[T]) Emit(v T) {
	snapshot := s.handlers
	for _, h := range snapshot {
		if h.fn != nil {
			h.fn(v)
		}
	}
}

// Len returns the number of live handlers.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}

// Clear removes every handler.
func (s *Signal[T]) Clear() {
	for _, h := range s.handlers {
		h.fn = nil
	}
	s.handlers = nil
}

// remove drops the handler with id. The slice is rebuilt rather than shifted
// in place so a snapshot held by Emit stays intact.
func (s *Signal[T]) remove(id uint32) {
	for i, h := range s.handlers {
		if h.id == id {
			h.fn = nil
			next := make([]*signalHandler[T], 0, len(s.handlers)-1)
			next = append(next, s.handlers[:i]...)
			next = append(next, s.handlers[i+1:]...)
			s.handlers = next
			return
		}
	}
}

type remover interface {
	remove(id uint32)
}

// Subscription allows removing a registered Signal handler. The zero value
// is an inert subscription; Dispose on it is a no-op.
type Subscription struct {
	id  uint32
	sig remover
}

// Dispose unregisters the handler so it no longer fires. Safe to call more
// than once.
func (h *Subscription) Dispose() {
	if h.sig == nil {
		return
	}
	h.sig.remove(h.id)
	h.sig = nil
}

// Active reports whether the subscription has not been disposed.
func (h Subscription) Active() bool {
	return h.sig != nil
}
