package database

import "sync"

// ChangeNotifier fans out "table X changed" signals to subscribers after a
// write commits. Signals coalesce: a subscriber that has not drained its
// channel yet receives one pending signal, not a backlog.
type ChangeNotifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	tables map[string]struct{}
	ch     chan string
}

func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{subs: make(map[int]*subscription)}
}

// Subscribe registers interest in the given tables (all tables if none are
// given). The returned func unsubscribes and closes the channel.
func (n *ChangeNotifier) Subscribe(tables ...string) (<-chan string, func()) {
	sub := &subscription{ch: make(chan string, 1)}
	if len(tables) > 0 {
		sub.tables = make(map[string]struct{}, len(tables))
		for _, t := range tables {
			sub.tables[t] = struct{}{}
		}
	}

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = sub
	n.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
			close(sub.ch)
		})
	}
}

// Publish signals that the given tables changed. Safe on a nil notifier.
func (n *ChangeNotifier) Publish(tables ...string) {
	if n == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sub := range n.subs {
		for _, table := range tables {
			if sub.tables != nil {
				if _, ok := sub.tables[table]; !ok {
					continue
				}
			}
			select {
			case sub.ch <- table:
			default:
			}
			break
		}
	}
}
