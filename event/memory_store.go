package event

import "github.com/ftahirops/validatord/model"

// MemoryStore is an in-process, non-durable Store used by tests and selected
// by the "memory" event-store driver.
type MemoryStore struct {
	Events []model.Event
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Append(e model.Event) error {
	m.Events = append(m.Events, e)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
