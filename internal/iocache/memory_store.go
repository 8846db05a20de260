package iocache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
)

// MemoryStore keeps entries in process memory. It backs the none backend,
// so nothing outlives the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]contract.Entry
	now     func() time.Time
}

var _ contract.KVStore = &MemoryStore{} // Compile-time check

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]contract.Entry), now: time.Now}
}

// GetMany implements the KVStore interface.
func (s *MemoryStore) GetMany(_ context.Context, keys ...string) (map[string]contract.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]contract.Entry, len(keys))
	for _, k := range keys {
		if e, ok := s.entries[k]; ok {
			e.Value = slices.Clone(e.Value)
			out[k] = e
		}
	}
	return out, nil
}

// Set implements the KVStore interface.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = contract.Entry{Value: slices.Clone(value), Version: version, Timestamp: s.now().UnixNano()}
	return nil
}

// Delete implements the KVStore interface.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

// GetStatus implements the KVStore interface.
func (s *MemoryStore) GetStatus() (schema.StoreStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := schema.StoreStatus{Backend: string(schema.NoneBackend), Connected: true, TotalEntries: len(s.entries)}
	var newest, oldest int64
	for _, e := range s.entries {
		if newest == 0 || e.Timestamp > newest {
			newest = e.Timestamp
		}
		if oldest == 0 || e.Timestamp < oldest {
			oldest = e.Timestamp
		}
		status.TableSizeBytes += int64(len(e.Value))
	}
	if len(s.entries) > 0 {
		status.LastEntryTime = time.Unix(0, newest)
		status.OldestEntryTime = time.Unix(0, oldest)
	}
	return status, nil
}

// Close implements the KVStore interface.
func (s *MemoryStore) Close() error {
	return nil
}
