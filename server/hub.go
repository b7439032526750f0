package server

import (
	"context"
	"log"
	"sync"

	"github.com/kvistgaard/go-shape-editor/editor"
	"github.com/kvistgaard/go-shape-editor/store"
)

type joinRequest struct {
	client *Client
	design string
}

// Hub routes clients to design sessions, creating a session on first
// join. Sessions keep running when their last client leaves; the state
// is autosaved on every change, so nothing is lost either way.
type Hub struct {
	store    store.DesignStore
	reducer  editor.Reducer
	sessions map[string]*Session
	mu       sync.RWMutex

	joinDesign chan joinRequest
}

func NewHub(st store.DesignStore, reducer editor.Reducer) *Hub {
	return &Hub{
		store:      st,
		reducer:    reducer,
		sessions:   make(map[string]*Session),
		joinDesign: make(chan joinRequest, 64),
	}
}

// Run is the hub's main loop.
func (h *Hub) Run() {
	for req := range h.joinDesign {
		h.handleJoin(req)
	}
}

func (h *Hub) handleJoin(req joinRequest) {
	design := req.design
	if design == "" {
		design = "untitled"
	}

	h.mu.Lock()
	s, ok := h.sessions[design]
	if !ok {
		// First join: seed the session from the store. Unknown names
		// come back empty, so a new design just starts blank.
		shapes, err := h.store.Load(context.Background(), design)
		if err != nil {
			log.Printf("hub: failed to load design %q: %v", design, err)
			h.mu.Unlock()
			req.client.sendError("cannot open design: " + err.Error())
			return
		}

		s = newSession(design, shapes, h.reducer, h.store)
		h.sessions[design] = s
		go s.Run()
	}
	h.mu.Unlock()

	s.join <- req.client
}

// GetSession returns the session for a design, if active.
func (h *Hub) GetSession(design string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[design]
}
