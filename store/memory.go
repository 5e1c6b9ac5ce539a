package store

import (
	"context"
	"sync"
	"time"

	"synapse/types"
)

// MemoryStore is an in-process Store used by tests and local development.
// It shares filter/sort/aggregation logic with the Redis store so behavior
// matches exactly.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*types.Item
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*types.Item)}
}

func (s *MemoryStore) Insert(_ context.Context, item *types.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *MemoryStore) get(id, ownerID string) (*types.Item, bool) {
	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return nil, false
	}
	return item, true
}

func (s *MemoryStore) FindOne(_ context.Context, id, ownerID string) (*types.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.get(id, ownerID)
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	cp.Embedding = nil
	return &cp, nil
}

func (s *MemoryStore) all(ownerID string) []*types.Item {
	out := make([]*types.Item, 0, len(s.items))
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			out = append(out, item)
		}
	}
	return out
}

func (s *MemoryStore) Find(_ context.Context, f Filter, sort Sort, limit, skip int) ([]*types.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := filterItems(s.all(f.OwnerID), f)
	sortItems(matched, sort)
	return projectItems(paginate(matched, limit, skip), f.IncludeEmbedding), nil
}

func (s *MemoryStore) Count(_ context.Context, f Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(filterItems(s.all(f.OwnerID), f)), nil
}

func (s *MemoryStore) Update(_ context.Context, id, ownerID string, p Patch) (*types.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.get(id, ownerID)
	if !ok {
		return nil, ErrNotFound
	}
	applyPatch(item, p)
	item.UpdatedAt = time.Now()
	cp := *item
	cp.Embedding = nil
	return &cp, nil
}

func (s *MemoryStore) Touch(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.get(id, ownerID)
	if !ok {
		return ErrNotFound
	}
	item.AccessedAt = time.Now()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.get(id, ownerID); !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) DistinctTags(_ context.Context, ownerID string, f Filter) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f.OwnerID = ownerID
	return distinctTags(s.all(ownerID), f), nil
}

func (s *MemoryStore) CategoryCounts(_ context.Context, ownerID string, from, to time.Time) ([]CategoryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return categoryCounts(filterItems(s.all(ownerID), dateWindowFilter(ownerID, from, to))), nil
}

func (s *MemoryStore) TagCounts(_ context.Context, ownerID string, from, to time.Time, limit int) ([]TagCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tagCounts(filterItems(s.all(ownerID), dateWindowFilter(ownerID, from, to)), limit), nil
}

func (s *MemoryStore) Close() error { return nil }
