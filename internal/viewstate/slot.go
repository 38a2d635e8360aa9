package viewstate

import "sync"

// Slot is an observable cell. Every Set bumps the version and publishes the
// new value to subscribers. A subscriber always sees the latest value: an
// undelivered older value is replaced, never queued.
type Slot[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	nextID  int
	subs    map[int]chan T
}

func NewSlot[T any](initial T) *Slot[T] {
	return &Slot[T]{value: initial, subs: make(map[int]chan T)}
}

func (s *Slot[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Version counts the Set calls so far.
func (s *Slot[T]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Slot[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	s.version++
	for _, ch := range s.subs {
		offer(ch, v)
	}
}

// Subscribe returns a channel that carries the current value right away and
// the latest value after every update, plus a func that unsubscribes and
// closes the channel.
func (s *Slot[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.value
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

// offer replaces whatever is pending in ch with v. Only Set sends, and it
// holds the slot lock, so the send after draining cannot block.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
