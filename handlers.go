package inkview

// handlerEntry pairs a registered callback with its removal id.
type handlerEntry[T any] struct {
	id uint32
	fn func(T)
}

// handlerList is an ordered set of callbacks of one event type. Dispatch is
// synchronous and runs in registration order. Callbacks added or removed
// during a dispatch take effect from the next dispatch.
type handlerList[T any] struct {
	entries []handlerEntry[T]
	nextID  uint32
}

// add registers fn and returns a handle that removes it.
func (l *handlerList[T]) add(fn func(T)) CallbackHandle {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, handlerEntry[T]{id: id, fn: fn})
	return CallbackHandle{remove: func() { l.remove(id) }}
}

// remove deletes the entry with the given id. The entries are copied rather
// than compacted in place, so a dispatch in progress keeps its snapshot.
func (l *handlerList[T]) remove(id uint32) {
	for i := range l.entries {
		if l.entries[i].id == id {
			next := make([]handlerEntry[T], 0, len(l.entries)-1)
			next = append(next, l.entries[:i]...)
			l.entries = append(next, l.entries[i+1:]...)
			return
		}
	}
}

// dispatch calls every callback registered when it starts with v.
func (l *handlerList[T]) dispatch(v T) {
	entries := l.entries[:len(l.entries):len(l.entries)]
	for _, h := range entries {
		h.fn(v)
	}
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters the callback so it no longer fires. Calling Remove on a
// zero handle or more than once is a no-op.
func (h CallbackHandle) Remove() {
	if h.remove == nil {
		return
	}
	h.remove()
}
