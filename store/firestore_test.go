package store

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
)

func testFirestoreClient(t *testing.T) *firestore.Client {
	t.Helper()
	projectID := os.Getenv("FIRESTORE_PROJECT")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT not set, skipping Firestore tests")
	}
	client, err := firestore.NewClient(context.Background(), projectID)
	if err != nil {
		t.Fatalf("failed to create Firestore client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// uniqueDesignName returns a unique design name for test isolation.
func uniqueDesignName(t *testing.T) string {
	return fmt.Sprintf("test-%s-%d", t.Name(), time.Now().UnixNano())
}

func cleanupDesign(t *testing.T, s *FirestoreStore, name string) {
	t.Helper()
	s.docRef(name).Delete(context.Background())
}

func TestFirestoreStore_SaveAndLoad(t *testing.T) {
	client := testFirestoreClient(t)
	s := NewFirestoreStore(client)
	ctx := context.Background()
	name := uniqueDesignName(t)
	t.Cleanup(func() { cleanupDesign(t, s, name) })

	want := testShapes()
	if err := s.Save(ctx, name, want); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, name)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestFirestoreStore_SaveIsUpsert(t *testing.T) {
	client := testFirestoreClient(t)
	s := NewFirestoreStore(client)
	ctx := context.Background()
	name := uniqueDesignName(t)
	t.Cleanup(func() { cleanupDesign(t, s, name) })

	s.Save(ctx, name, testShapes())
	if err := s.Save(ctx, name, testShapes()[:1]); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, _ := s.Load(ctx, name)
	if len(got) != 1 {
		t.Errorf("got %d shapes after overwrite, want 1", len(got))
	}
}

func TestFirestoreStore_LoadUnknownIsEmpty(t *testing.T) {
	client := testFirestoreClient(t)
	s := NewFirestoreStore(client)

	got, err := s.Load(context.Background(), "nonexistent-design-xyz")
	if err != nil {
		t.Fatalf("unknown name should not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d shapes, want none", len(got))
	}
}

func TestFirestoreStore_Names(t *testing.T) {
	client := testFirestoreClient(t)
	s := NewFirestoreStore(client)
	ctx := context.Background()

	names := make([]string, 3)
	for i := range names {
		names[i] = fmt.Sprintf("%s-%d", uniqueDesignName(t), i)
		name := names[i]
		t.Cleanup(func() { cleanupDesign(t, s, name) })
		s.Save(ctx, name, nil)
	}

	listed, err := s.Names(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// At least our designs should be present (there may be others from
	// parallel tests).
	found := 0
	for _, got := range listed {
		for _, want := range names {
			if got == want {
				found++
			}
		}
	}
	if found != 3 {
		t.Errorf("found %d of our 3 designs in the listing", found)
	}
}

func TestFirestoreStore_RejectsMalformedShapes(t *testing.T) {
	client := testFirestoreClient(t)
	s := NewFirestoreStore(client)
	ctx := context.Background()
	name := uniqueDesignName(t)
	t.Cleanup(func() { cleanupDesign(t, s, name) })

	// Write a broken document behind the store's back.
	_, err := s.docRef(name).Set(ctx, map[string]interface{}{
		"shapes": []interface{}{
			map[string]interface{}{"type": "rectangle", "width": 10.0, "height": 10.0},
		},
		"updatedAt": time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(ctx, name); err == nil {
		t.Error("expected malformed design to be rejected")
	}
}
