package engagement

import (
	"context"
	"sync"
)

// MemoryStore keeps likes in process memory. Used in development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	likes map[Key]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{likes: make(map[Key]map[string]struct{})}
}

func (s *MemoryStore) Get(_ context.Context, key Key, visitor string) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts(key, visitor), nil
}

func (s *MemoryStore) Toggle(_ context.Context, key Key, visitor string) (Counts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if visitor == "" {
		return s.counts(key, visitor), nil
	}
	set := s.likes[key]
	if set == nil {
		set = make(map[string]struct{})
		s.likes[key] = set
	}
	if _, ok := set[visitor]; ok {
		delete(set, visitor)
	} else {
		set[visitor] = struct{}{}
	}
	return s.counts(key, visitor), nil
}

func (s *MemoryStore) counts(key Key, visitor string) Counts {
	set := s.likes[key]
	_, liked := set[visitor]
	return Counts{Likes: int64(len(set)), UserHasLiked: visitor != "" && liked}
}
