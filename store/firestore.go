package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kvistgaard/go-shape-editor/editor"
)

// FirestoreStore is a Firestore-backed implementation of DesignStore.
// Each design is one document in the collection, keyed by design name,
// with the shapes stored as an array of maps.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore creates a new FirestoreStore using the given Firestore client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{
		client:     client,
		collection: "designs",
	}
}

func (s *FirestoreStore) docRef(name string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(name)
}

func (s *FirestoreStore) Save(ctx context.Context, name string, shapes []editor.Shape) error {
	docs := make([]interface{}, len(shapes))
	for i, sh := range shapes {
		docs[i] = shapeToDoc(sh)
	}
	_, err := s.docRef(name).Set(ctx, map[string]interface{}{
		"shapes":    docs,
		"updatedAt": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("save design %q: %w", name, err)
	}
	return nil
}

func (s *FirestoreStore) Load(ctx context.Context, name string) ([]editor.Shape, error) {
	snap, err := s.docRef(name).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load design %q: %w", name, err)
	}
	shapes, err := snapshotToShapes(name, snap)
	if err != nil {
		return nil, err
	}
	if err := editor.ValidateShapes(shapes); err != nil {
		return nil, fmt.Errorf("design %q: %w", name, err)
	}
	return shapes, nil
}

func (s *FirestoreStore) Names(ctx context.Context) ([]string, error) {
	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()

	var result []string
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list designs: %w", err)
		}
		result = append(result, snap.Ref.ID)
	}
	return result, nil
}

func shapeToDoc(sh editor.Shape) map[string]interface{} {
	m := map[string]interface{}{
		"id":     sh.ID,
		"type":   string(sh.Type),
		"x":      sh.X,
		"y":      sh.Y,
		"width":  sh.Width,
		"height": sh.Height,
		"zIndex": sh.ZIndex,
	}
	if sh.Color != "" {
		m["color"] = sh.Color
	}
	if sh.Rotation != 0 {
		m["rotation"] = sh.Rotation
	}
	if sh.BorderStyle != "" {
		m["borderStyle"] = sh.BorderStyle
	}
	if sh.BorderWidth != 0 {
		m["borderWidth"] = sh.BorderWidth
	}
	if sh.Text != "" {
		m["text"] = sh.Text
	}
	if len(sh.Attrs) > 0 {
		m["attrs"] = sh.Attrs
	}
	return m
}

func snapshotToShapes(name string, snap *firestore.DocumentSnapshot) ([]editor.Shape, error) {
	data := snap.Data()
	raw, ok := data["shapes"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("design %q: invalid shapes field", name)
	}

	shapes := make([]editor.Shape, len(raw))
	for i, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("design %q: invalid shape %d", name, i)
		}
		shapes[i] = docToShape(m)
	}
	return shapes, nil
}

// docToShape rebuilds a shape from its Firestore map. Missing or
// mistyped fields stay zero; ValidateShapes catches the broken ones.
func docToShape(m map[string]interface{}) editor.Shape {
	var sh editor.Shape
	if v, ok := m["id"].(string); ok {
		sh.ID = v
	}
	if v, ok := m["type"].(string); ok {
		sh.Type = editor.ShapeType(v)
	}
	sh.X = toFloat(m["x"])
	sh.Y = toFloat(m["y"])
	sh.Width = toFloat(m["width"])
	sh.Height = toFloat(m["height"])
	if v, ok := m["zIndex"].(int64); ok {
		sh.ZIndex = int(v)
	}
	if v, ok := m["color"].(string); ok {
		sh.Color = v
	}
	sh.Rotation = toFloat(m["rotation"])
	if v, ok := m["borderStyle"].(string); ok {
		sh.BorderStyle = v
	}
	sh.BorderWidth = toFloat(m["borderWidth"])
	if v, ok := m["text"].(string); ok {
		sh.Text = v
	}
	if attrs, ok := m["attrs"].(map[string]interface{}); ok {
		sh.Attrs = make(map[string]string, len(attrs))
		for k, v := range attrs {
			if str, ok := v.(string); ok {
				sh.Attrs[k] = str
			}
		}
	}
	return sh
}

// toFloat accepts the numeric types Firestore may hand back for a
// value that was written as a float64.
func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}
