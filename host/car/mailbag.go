package car

import "sync"

// mailbag routes replies to the goroutine waiting on their id
type mailbag struct {
	mu      sync.Mutex
	pending map[int]chan Reply
}

func newMailbag() *mailbag {
	return &mailbag{pending: make(map[int]chan Reply)}
}

// expect registers interest in id. The channel receives at most one reply.
func (m *mailbag) expect(id int) <-chan Reply {
	ch := make(chan Reply, 1)
	m.mu.Lock()
	m.pending[id] = ch
	m.mu.Unlock()
	return ch
}

// deliver hands r to its waiter. It returns false if nobody was waiting.
func (m *mailbag) deliver(r Reply) bool {
	m.mu.Lock()
	ch, ok := m.pending[r.ID]
	if ok {
		delete(m.pending, r.ID)
	}
	m.mu.Unlock()

	if ok {
		ch <- r
	}
	return ok
}

func (m *mailbag) cancel(id int) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}

func (m *mailbag) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
