package store

import (
	"context"

	"github.com/kvistgaard/go-shape-editor/editor"
)

// DesignStore abstracts design persistence. Only the present document
// of a design is stored; history and selection never leave the editor.
//
// Save is an unconditional upsert under a caller-chosen name. Load of a
// name that was never saved returns an empty design and no error; an
// error means the stored data was unreadable or malformed. Names
// returns the saved design names in no guaranteed order.
//
// Implementations: MemoryStore, FileStore, FirestoreStore, plus the
// write-behind CachedStore decorator.
type DesignStore interface {
	Save(ctx context.Context, name string, shapes []editor.Shape) error
	Load(ctx context.Context, name string) ([]editor.Shape, error)
	Names(ctx context.Context) ([]string, error)
}

// cloneShapes deep-copies a shape slice so stored designs never alias
// caller-held state.
func cloneShapes(shapes []editor.Shape) []editor.Shape {
	return editor.Document(shapes).Clone()
}
