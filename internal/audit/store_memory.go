package audit

import (
	"context"
	"sync"

	"census/pkg/domain"
)

// DefaultMemoryCapacity is used when a non-positive capacity is given.
const DefaultMemoryCapacity = 1024

// InMemoryStore keeps the most recent events in a fixed-size ring. Once full,
// each append overwrites the oldest event.
type InMemoryStore struct {
	mu      sync.RWMutex
	events  []Event
	next    int
	full    bool
	evicted int64
}

func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &InMemoryStore{events: make([]Event, capacity)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		s.evicted++
	}
	s.events[s.next] = event
	s.next = (s.next + 1) % len(s.events)
	if s.next == 0 {
		s.full = true
	}
	return nil
}

// ListAll returns a copy of the retained events, oldest first.
func (s *InMemoryStore) ListAll() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ordered()
}

// ListByImport returns the retained events of one import, oldest first.
func (s *InMemoryStore) ListByImport(importID domain.ImportID) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.ordered() {
		if e.ImportID == importID {
			out = append(out, e)
		}
	}
	return out
}

// Evicted returns how many events were overwritten.
func (s *InMemoryStore) Evicted() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evicted
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.events)
	s.next = 0
	s.full = false
}

func (s *InMemoryStore) ordered() []Event {
	if !s.full {
		return append([]Event{}, s.events[:s.next]...)
	}
	out := make([]Event, 0, len(s.events))
	out = append(out, s.events[s.next:]...)
	return append(out, s.events[:s.next]...)
}
