package store

import (
	"context"
	"sync"

	"github.com/kvistgaard/go-shape-editor/editor"
)

// MemoryStore is an in-memory implementation of DesignStore. It backs
// tests, ephemeral runs and the CachedStore cache.
type MemoryStore struct {
	mu      sync.RWMutex
	designs map[string][]editor.Shape
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{designs: make(map[string][]editor.Shape)}
}

func (s *MemoryStore) Save(_ context.Context, name string, shapes []editor.Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.designs[name] = cloneShapes(shapes)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, name string) ([]editor.Shape, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneShapes(s.designs[name]), nil
}

func (s *MemoryStore) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, 0, len(s.designs))
	for name := range s.designs {
		result = append(result, name)
	}
	return result, nil
}
