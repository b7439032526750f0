package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/kvistgaard/go-shape-editor/export"
	"github.com/kvistgaard/go-shape-editor/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewHandler creates the HTTP handler with all routes. Exports read the
// last persisted document from the store; sessions autosave on every
// change, so the store tracks the live state.
func NewHandler(hub *Hub, st store.DesignStore) http.Handler {
	mux := http.NewServeMux()

	// Serve static files.
	fs := http.FileServer(http.Dir("static"))
	mux.Handle("/", fs)

	// WebSocket endpoint.
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}
		client := newClient(hub, conn)
		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("/designs", func(w http.ResponseWriter, r *http.Request) {
		names, err := st.Names(r.Context())
		if err != nil {
			log.Printf("designs: %v", err)
			http.Error(w, "cannot list designs", http.StatusInternalServerError)
			return
		}
		if names == nil {
			names = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(names)
	})

	mux.HandleFunc("/export/svg", exportHandler(st, "svg"))
	mux.HandleFunc("/export/png", exportHandler(st, "png"))
	mux.HandleFunc("/export/pdf", exportHandler(st, "pdf"))

	return mux
}

// exportHandler serves downloads of a stored design in the given
// format. Downloads use a fixed filename regardless of design name.
func exportHandler(st store.DesignStore, format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		design := r.URL.Query().Get("design")
		if design == "" {
			http.Error(w, "missing design parameter", http.StatusBadRequest)
			return
		}
		shapes, err := st.Load(r.Context(), design)
		if err != nil {
			log.Printf("export: failed to load design %q: %v", design, err)
			http.Error(w, "cannot load design", http.StatusInternalServerError)
			return
		}

		width := intParam(r, "w", export.DefaultWidth)
		height := intParam(r, "h", export.DefaultHeight)

		switch format {
		case "svg":
			w.Header().Set("Content-Type", "image/svg+xml")
			w.Header().Set("Content-Disposition", `attachment; filename="design.svg"`)
			io.WriteString(w, export.SVG(shapes, width, height))
		case "png":
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Content-Disposition", `attachment; filename="design.png"`)
			if err := export.PNG(w, shapes, width, height); err != nil {
				log.Printf("export: png for design %q: %v", design, err)
			}
		case "pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="design.pdf"`)
			if err := export.PDF(w, shapes, width, height); err != nil {
				log.Printf("export: pdf for design %q: %v", design, err)
			}
		}
	}
}

// intParam reads a positive integer query parameter, within sane canvas
// bounds, falling back to def.
func intParam(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 || v > 8192 {
		return def
	}
	return v
}
