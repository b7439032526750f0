package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/kvistgaard/go-shape-editor/editor"
	"github.com/kvistgaard/go-shape-editor/server"
	"github.com/kvistgaard/go-shape-editor/store"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dataFile := flag.String("data", "designs.json", "designs file path; empty for in-memory storage")
	project := flag.String("firestore-project", "", "store designs in this Firestore project instead of the data file")
	flush := flag.Duration("flush", 2*time.Second, "write-behind flush interval")
	uniform := flag.Bool("uniform-circles", false, "force circles to keep width == height")
	historyLimit := flag.Int("history-limit", 0, "max undo depth, 0 for unbounded")
	announce := flag.Bool("mdns", false, "advertise the editor on the local network")
	flag.Parse()

	var backing store.DesignStore
	switch {
	case *project != "":
		client, err := firestore.NewClient(context.Background(), *project)
		if err != nil {
			log.Fatalf("firestore: %v", err)
		}
		defer client.Close()
		backing = store.NewFirestoreStore(client)
		log.Printf("Storing designs in Firestore project %s", *project)
	case *dataFile != "":
		backing = store.NewFileStore(*dataFile)
		log.Printf("Storing designs in %s", *dataFile)
	default:
		backing = store.NewMemoryStore()
		log.Print("Storing designs in memory only")
	}

	cached := store.NewCachedStore(backing, *flush)

	reducer := editor.Reducer{
		UniformCircles: *uniform,
		HistoryLimit:   *historyLimit,
	}

	hub := server.NewHub(cached, reducer)
	go hub.Run()

	if *announce {
		m, err := server.Advertise(listenPort(*addr))
		if err != nil {
			log.Printf("mdns: %v", err)
		} else {
			defer m.Shutdown()
		}
	}

	httpSrv := &http.Server{Addr: *addr, Handler: server.NewHandler(hub, cached)}
	go func() {
		log.Printf("Starting server on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Handle interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Print("Shutting down")
	httpSrv.Shutdown(context.Background())
	// Close flushes unsaved designs to the backing store.
	cached.Close()
}

// listenPort extracts the numeric port from a listen address like
// ":8080" or "0.0.0.0:8080".
func listenPort(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 8080
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 8080
	}
	return port
}
