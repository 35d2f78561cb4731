package baseline

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when a baseline id is unknown to a store.
var ErrNotFound = errors.New("baseline not found")

// Store persists baselines. Saving an id that already exists replaces it.
type Store interface {
	Save(ctx context.Context, b *Baseline) error
	Get(ctx context.Context, id string) (*Baseline, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// SortSummaries orders summaries by creation time, then id.
func SortSummaries(s []Summary) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].CreatedAt.Equal(s[j].CreatedAt) {
			return s[i].CreatedAt.Before(s[j].CreatedAt)
		}
		return s[i].ID < s[j].ID
	})
}

// MemoryStore keeps baselines in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Baseline
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Baseline)}
}

func (m *MemoryStore) Save(_ context.Context, b *Baseline) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[b.ID()] = b
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Baseline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *MemoryStore) List(context.Context) ([]Summary, error) {
	m.mu.RLock()
	out := make([]Summary, 0, len(m.items))
	for _, b := range m.items {
		out = append(out, b.Summary())
	}
	m.mu.RUnlock()
	SortSummaries(out)
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
