package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/kvistgaard/go-shape-editor/editor"
)

// FileStore keeps every design in a single JSON object on disk,
// `{"name": [shapes...]}`. The file is read once on first use, served
// from memory afterwards and rewritten in full on every save. A corrupt
// or unreadable file surfaces as an error from the first operation that
// touches it; the file is never silently replaced.
type FileStore struct {
	path string

	mu      sync.Mutex
	designs map[string][]editor.Shape // nil until loaded
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// ensureLoaded reads the designs file into memory. Callers must hold mu.
func (s *FileStore) ensureLoaded() error {
	if s.designs != nil {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.designs = make(map[string][]editor.Shape)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read designs file %q: %w", s.path, err)
	}
	var designs map[string][]editor.Shape
	if err := json.Unmarshal(data, &designs); err != nil {
		return fmt.Errorf("designs file %q is corrupt: %w", s.path, err)
	}
	if designs == nil {
		designs = make(map[string][]editor.Shape)
	}
	s.designs = designs
	return nil
}

// persist rewrites the whole file. Callers must hold mu.
func (s *FileStore) persist() error {
	data, err := json.MarshalIndent(s.designs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode designs: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write designs file %q: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Save(_ context.Context, name string, shapes []editor.Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.designs[name] = cloneShapes(shapes)
	return s.persist()
}

func (s *FileStore) Load(_ context.Context, name string) ([]editor.Shape, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	shapes, ok := s.designs[name]
	if !ok {
		return nil, nil
	}
	if err := editor.ValidateShapes(shapes); err != nil {
		return nil, fmt.Errorf("design %q: %w", name, err)
	}
	return cloneShapes(shapes), nil
}

func (s *FileStore) Names(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(s.designs))
	for name := range s.designs {
		result = append(result, name)
	}
	return result, nil
}
