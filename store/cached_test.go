package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/kvistgaard/go-shape-editor/editor"
)

// failingStore fails a fixed number of saves before behaving like its
// embedded MemoryStore, for exercising flush retries.
type failingStore struct {
	*MemoryStore
	mu       sync.Mutex
	failures int
}

func (f *failingStore) Save(ctx context.Context, name string, shapes []editor.Shape) error {
	f.mu.Lock()
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return errors.New("backing store down")
	}
	f.mu.Unlock()
	return f.MemoryStore.Save(ctx, name, shapes)
}

func TestCachedStore_WriteBehind(t *testing.T) {
	backing := NewMemoryStore()
	ctx := context.Background()

	cs := NewCachedStore(backing, 50*time.Millisecond)
	defer cs.Close()

	if err := cs.Save(ctx, "design1", testShapes()); err != nil {
		t.Fatal(err)
	}

	// Backing should NOT have it yet.
	if shapes, _ := backing.Load(ctx, "design1"); len(shapes) != 0 {
		t.Error("expected backing to not have the design yet")
	}

	// Wait for flush.
	time.Sleep(150 * time.Millisecond)

	shapes, err := backing.Load(ctx, "design1")
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 2 {
		t.Errorf("backing has %d shapes after flush, want 2", len(shapes))
	}
}

func TestCachedStore_LastWriteWins(t *testing.T) {
	backing := NewMemoryStore()
	ctx := context.Background()

	cs := NewCachedStore(backing, 50*time.Millisecond)
	defer cs.Close()

	cs.Save(ctx, "design1", testShapes())
	cs.Save(ctx, "design1", testShapes()[:1])

	time.Sleep(150 * time.Millisecond)

	shapes, _ := backing.Load(ctx, "design1")
	if len(shapes) != 1 {
		t.Errorf("backing has %d shapes, want the latest save (1)", len(shapes))
	}
}

func TestCachedStore_ReadThrough(t *testing.T) {
	backing := NewMemoryStore()
	ctx := context.Background()

	if err := backing.Save(ctx, "design1", testShapes()); err != nil {
		t.Fatal(err)
	}

	cs := NewCachedStore(backing, time.Hour) // long interval, no auto flush
	defer cs.Close()

	shapes, err := cs.Load(ctx, "design1")
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(shapes))
	}

	// A second load is served from cache: changing the backing store
	// underneath is not visible anymore.
	backing.Save(ctx, "design1", nil)
	shapes, _ = cs.Load(ctx, "design1")
	if len(shapes) != 2 {
		t.Errorf("cache was bypassed: got %d shapes", len(shapes))
	}
}

func TestCachedStore_CloseFlushes(t *testing.T) {
	backing := NewMemoryStore()
	ctx := context.Background()

	cs := NewCachedStore(backing, time.Hour) // very long interval

	if err := cs.Save(ctx, "design1", testShapes()); err != nil {
		t.Fatal(err)
	}

	// Close triggers the final flush.
	cs.Close()

	shapes, err := backing.Load(ctx, "design1")
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 2 {
		t.Errorf("backing has %d shapes after close, want 2", len(shapes))
	}
}

func TestCachedStore_FlushRetriesAfterFailure(t *testing.T) {
	backing := &failingStore{MemoryStore: NewMemoryStore(), failures: 1}
	ctx := context.Background()

	cs := NewCachedStore(backing, 50*time.Millisecond)
	defer cs.Close()

	cs.Save(ctx, "design1", testShapes())

	// First flush fails, the design stays dirty, a later cycle lands it.
	time.Sleep(250 * time.Millisecond)

	shapes, _ := backing.Load(ctx, "design1")
	if len(shapes) != 2 {
		t.Errorf("flush was not retried: backing has %d shapes", len(shapes))
	}
}

func TestCachedStore_NamesIncludeUnflushed(t *testing.T) {
	backing := NewMemoryStore()
	ctx := context.Background()

	backing.Save(ctx, "persisted", testShapes())

	cs := NewCachedStore(backing, time.Hour)
	defer cs.Close()

	cs.Save(ctx, "fresh", testShapes())

	names, err := cs.Names(ctx)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "fresh" || names[1] != "persisted" {
		t.Errorf("names = %v", names)
	}
}
