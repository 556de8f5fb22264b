package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mverett/fabula/pkg/schema"
)

// MemoryStore is an in-memory SnapshotStore, for tests and hosts that
// keep saves alive only for the process lifetime.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]*Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]*Snapshot)}
}

func (s *MemoryStore) Save(_ context.Context, slot string, snap *Snapshot) error {
	if slot == "" {
		return schema.NewError(schema.ErrCodeValidation, "slot name is empty")
	}
	if snap == nil {
		return schema.NewError(schema.ErrCodeValidation, "snapshot is nil")
	}

	cp := &Snapshot{
		GraphName:     snap.GraphName,
		CurrentNodeID: snap.CurrentNodeID,
		Variables:     make(map[string]schema.Value, len(snap.Variables)),
		SavedAt:       snap.SavedAt,
	}
	for k, v := range snap.Variables {
		cp.Variables[k] = v
	}
	if cp.SavedAt.IsZero() {
		cp.SavedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.slots[slot] = cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, slot string) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.slots[slot]
	s.mu.RUnlock()
	if !ok {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "snapshot slot %q not found", slot)
	}

	cp := &Snapshot{
		GraphName:     snap.GraphName,
		CurrentNodeID: snap.CurrentNodeID,
		Variables:     make(map[string]schema.Value, len(snap.Variables)),
		SavedAt:       snap.SavedAt,
	}
	for k, v := range snap.Variables {
		cp.Variables[k] = v
	}
	return cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	delete(s.slots, slot)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	out := make([]string, 0, len(s.slots))
	for slot := range s.slots {
		out = append(out, slot)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
