package table

import "fmt"

// Messages is a bounded FIFO of the latest table messages. Adding to a full
// queue drops the oldest entry.
type Messages struct {
	limit int
	q     []string
}

// NewMessages creates a queue holding at most limit messages, seeded with initial
func NewMessages(limit int, initial ...string) (*Messages, error) {
	if limit < 1 {
		return nil, fmt.Errorf("message limit must be at least 1, got %d", limit)
	}
	if len(initial) > limit {
		return nil, fmt.Errorf("message queue cannot contain more than %d messages", limit)
	}
	return &Messages{limit: limit, q: append(make([]string, 0, limit), initial...)}, nil
}

// Add enqueues msgs in order
func (m *Messages) Add(msgs ...string) *Messages {
	for _, msg := range msgs {
		if len(m.q) == m.limit {
			m.q = append(m.q[:0], m.q[1:]...)
		}
		m.q = append(m.q, msg)
	}
	return m
}

// Copy returns an independent copy of the queue
func (m *Messages) Copy() *Messages {
	return &Messages{limit: m.limit, q: append(make([]string, 0, m.limit), m.q...)}
}

// List returns the messages, oldest first
func (m *Messages) List() []string {
	return append([]string(nil), m.q...)
}

// Len returns the number of queued messages
func (m *Messages) Len() int {
	return len(m.q)
}
