package scene

import "sync"

// Mailbox is a per-topic staging buffer between any number of producer
// goroutines and the single reconciliation consumer. Enqueue appends under a
// short-held mutex; Drain swaps out the whole backing slice in O(1), so
// producers are never blocked by the apply phase that follows a drain.
// Ordering is FIFO within the mailbox; nothing is guaranteed across
// mailboxes.
type Mailbox[T any] struct {
	mu      sync.Mutex
	pending []T
}

// NewMailbox creates an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{}
}

// Enqueue appends a message. Safe for concurrent producers.
func (m *Mailbox[T]) Enqueue(msg T) {
	m.mu.Lock()
	m.pending = append(m.pending, msg)
	m.mu.Unlock()
}

// Drain atomically detaches and returns everything enqueued since the
// previous drain. Only the single consumer may call it.
func (m *Mailbox[T]) Drain() []T {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()
	return batch
}

// Len returns the number of pending messages.
func (m *Mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Clear discards everything pending.
func (m *Mailbox[T]) Clear() {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()
}
