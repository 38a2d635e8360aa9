package viewstate

import "sync"

// Resource pairs a data slot with an error slot. Fetches take a ticket when
// they are issued, and a result is published only if no later-issued fetch
// has published already. A failed fetch leaves the previous data in place
// and sets Err; a successful one clears Err.
type Resource[T any] struct {
	Data *Slot[T]
	Err  *Slot[error]

	mu        sync.Mutex
	issued    uint64
	published uint64
}

func newResource[T any](initial T) *Resource[T] {
	return &Resource[T]{
		Data: NewSlot(initial),
		Err:  NewSlot[error](nil),
	}
}

func (r *Resource[T]) begin() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
	return r.issued
}

// publish stores a result unless a newer ticket has been published.
func (r *Resource[T]) publish(ticket uint64, v T, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket <= r.published {
		return false
	}
	r.published = ticket
	r.store(v, err)
	return true
}

// publishLatest stores a result only for the most recently issued ticket.
// The same ticket may publish repeatedly.
func (r *Resource[T]) publishLatest(ticket uint64, v T, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket != r.issued {
		return false
	}
	r.published = ticket
	r.store(v, err)
	return true
}

func (r *Resource[T]) store(v T, err error) {
	if err != nil {
		r.Err.Set(err)
		return
	}
	r.Data.Set(v)
	if r.Err.Get() != nil {
		r.Err.Set(nil)
	}
}

// Flag is a loading indicator that stays true while any tracked operation
// is in flight.
type Flag struct {
	slot *Slot[bool]

	mu       sync.Mutex
	inFlight int
}

func newFlag() *Flag {
	return &Flag{slot: NewSlot(false)}
}

func (f *Flag) Get() bool {
	return f.slot.Get()
}

func (f *Flag) Subscribe() (<-chan bool, func()) {
	return f.slot.Subscribe()
}

func (f *Flag) inc() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight++
	if f.inFlight == 1 {
		f.slot.Set(true)
	}
}

func (f *Flag) dec() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight == 0 {
		return
	}
	f.inFlight--
	if f.inFlight == 0 {
		f.slot.Set(false)
	}
}
