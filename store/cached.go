package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kvistgaard/go-shape-editor/editor"
)

// CachedStore wraps a backing DesignStore with an in-memory cache.
// Saves land in the cache and return immediately; dirty designs are
// flushed to the backing store periodically in the background, most
// recent save winning. A flush failure keeps the design dirty so the
// next cycle retries; the cached copy is never dropped.
type CachedStore struct {
	cache         *MemoryStore
	backing       DesignStore
	mu            sync.Mutex
	dirty         map[string]bool
	flushInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
}

// NewCachedStore creates a CachedStore that caches in memory and
// flushes dirty designs to the backing store every flushInterval.
func NewCachedStore(backing DesignStore, flushInterval time.Duration) *CachedStore {
	cs := &CachedStore{
		cache:         NewMemoryStore(),
		backing:       backing,
		dirty:         make(map[string]bool),
		flushInterval: flushInterval,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go cs.flushLoop()
	return cs
}

func (cs *CachedStore) Save(ctx context.Context, name string, shapes []editor.Shape) error {
	if err := cs.cache.Save(ctx, name, shapes); err != nil {
		return err
	}
	cs.mu.Lock()
	cs.dirty[name] = true
	cs.mu.Unlock()
	return nil
}

func (cs *CachedStore) Load(ctx context.Context, name string) ([]editor.Shape, error) {
	cs.cache.mu.RLock()
	shapes, ok := cs.cache.designs[name]
	cs.cache.mu.RUnlock()
	if ok {
		return cloneShapes(shapes), nil
	}

	// Cache miss: read through to the backing store and remember the
	// result, including "no such design", so repeat loads stay local.
	loaded, err := cs.backing.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	cs.cache.mu.Lock()
	if _, exists := cs.cache.designs[name]; !exists {
		cs.cache.designs[name] = cloneShapes(loaded)
	}
	cs.cache.mu.Unlock()
	return loaded, nil
}

// Names merges the backing store's names with cached saves that have
// not been flushed yet, so a design is listed as soon as it is saved.
func (cs *CachedStore) Names(ctx context.Context) ([]string, error) {
	names, err := cs.backing.Names(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}
	cs.mu.Lock()
	for name := range cs.dirty {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	cs.mu.Unlock()
	return names, nil
}

func (cs *CachedStore) flushLoop() {
	ticker := time.NewTicker(cs.flushInterval)
	defer ticker.Stop()
	defer close(cs.done)

	for {
		select {
		case <-ticker.C:
			cs.flush()
		case <-cs.stop:
			cs.flush()
			return
		}
	}
}

// flush writes every dirty design to the backing store. A design is
// taken off the dirty set before its write so a save that lands during
// the flush marks it again and the newer document goes out next cycle.
func (cs *CachedStore) flush() {
	cs.mu.Lock()
	names := make([]string, 0, len(cs.dirty))
	for name := range cs.dirty {
		names = append(names, name)
		delete(cs.dirty, name)
	}
	cs.mu.Unlock()

	ctx := context.Background()

	for _, name := range names {
		shapes, err := cs.cache.Load(ctx, name)
		if err != nil {
			log.Printf("cached store: failed to read design %q from cache: %v", name, err)
			continue
		}
		if err := cs.backing.Save(ctx, name, shapes); err != nil {
			log.Printf("cached store: failed to flush design %q: %v", name, err)
			cs.mu.Lock()
			cs.dirty[name] = true
			cs.mu.Unlock()
		}
	}
}

// Close signals the flush loop to perform a final flush and waits for
// it to complete.
func (cs *CachedStore) Close() {
	close(cs.stop)
	<-cs.done
}
