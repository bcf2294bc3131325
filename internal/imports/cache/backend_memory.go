package cache

import (
	"context"
	"sync"
	"time"

	"census/pkg/domain"
)

type memoryEntry struct {
	fields  map[string][]byte
	expires time.Time
}

// MemoryBackend is an in-process Backend for single instance deployments.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[domain.ImportID]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[domain.ImportID]*memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (b *MemoryBackend) Get(_ context.Context, importID domain.ImportID, field string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[importID]
	if !ok {
		return nil, false, nil
	}
	if b.ttl > 0 && !b.now().Before(entry.expires) {
		delete(b.entries, importID)
		return nil, false, nil
	}
	raw, ok := entry.fields[field]
	return raw, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, importID domain.ImportID, field string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[importID]
	if !ok {
		entry = &memoryEntry{fields: make(map[string][]byte)}
		b.entries[importID] = entry
	}
	entry.fields[field] = value
	entry.expires = b.now().Add(b.ttl)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, importID domain.ImportID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, importID)
	return nil
}
