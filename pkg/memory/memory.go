package memory

import "sync"

// Memory is a bounded FIFO of short text notes; the oldest note is dropped first
type Memory struct {
	notes    []string
	capacity int
	mu       sync.RWMutex
}

func NewMemory(capacity int) *Memory {
	if capacity < 1 {
		capacity = 1
	}
	return &Memory{
		notes:    make([]string, 0, capacity),
		capacity: capacity,
	}
}

// GetAllMessages returns a copy of all notes, oldest first
func (m *Memory) GetAllMessages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notes := make([]string, len(m.notes))
	copy(notes, m.notes)
	return notes
}

// Recent returns up to n of the newest notes, oldest first
func (m *Memory) Recent(n int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	start := len(m.notes) - n
	if start < 0 {
		start = 0
	}
	return append([]string(nil), m.notes[start:]...)
}

func (m *Memory) Store(note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notes = append(m.notes, note)
	if len(m.notes) > m.capacity {
		m.notes = m.notes[len(m.notes)-m.capacity:]
	}
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.notes)
}

// Clear forgets everything, typically at the start of an episode
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = make([]string, 0, m.capacity)
}
