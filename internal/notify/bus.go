package notify

// Kind names a class of events published on a Bus.
type Kind string

// Handle identifies a single subscription. The zero Handle is never issued.
type Handle struct {
	kind Kind
	id   uint64
}

// Valid reports whether the handle was issued by a Bus.
func (h Handle) Valid() bool {
	return h.id != 0
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Bus dispatches payloads of type T to the subscribers of a Kind.
// It is not safe for concurrent use.
type Bus[T any] struct {
	nextID uint64
	subs   map[Kind][]subscriber[T]
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[Kind][]subscriber[T])}
}

// Subscribe appends fn to the subscribers of kind. Subscribing the same
// function twice registers it twice.
func (b *Bus[T]) Subscribe(kind Kind, fn func(T)) Handle {
	if fn == nil {
		panic("notify: nil subscriber")
	}
	b.nextID++
	b.subs[kind] = append(b.subs[kind], subscriber[T]{id: b.nextID, fn: fn})
	return Handle{kind: kind, id: b.nextID}
}

// Unsubscribe removes the subscription identified by h. It returns false if
// the handle is unknown or was already removed.
func (b *Bus[T]) Unsubscribe(h Handle) bool {
	list := b.subs[h.kind]
	for i, s := range list {
		if s.id != h.id {
			continue
		}
		next := make([]subscriber[T], 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		b.subs[h.kind] = next
		return true
	}
	return false
}

// Publish invokes every subscriber of kind with payload. The subscriber list
// is captured before the first call, so subscribers added or removed during
// dispatch take effect on the next Publish.
func (b *Bus[T]) Publish(kind Kind, payload T) {
	snapshot := b.subs[kind]
	for _, s := range snapshot {
		s.fn(payload)
	}
}

// Len returns the number of subscribers currently registered for kind.
func (b *Bus[T]) Len(kind Kind) int {
	return len(b.subs[kind])
}
