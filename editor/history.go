package editor

import "github.com/google/uuid"

// State is the complete undoable editor state: the present document,
// the undo and redo stacks and the current selection.
//
// Past and Future are LIFO stacks stored top-at-end, so every history
// operation is an O(1) append or truncate. The top of Future is always
// the most recently undone snapshot. Documents inside the stacks are
// never mutated; Reduce builds a fresh present for every change.
type State struct {
	Past     []Document `json:"past"`
	Present  Document   `json:"present"`
	Future   []Document `json:"future"`
	Selected string     `json:"selectedShapeId,omitempty"` // may dangle after a delete
}

// NewState returns an empty state with a non-nil present document.
func NewState() State {
	return State{Present: Document{}}
}

// CanUndo reports whether an Undo command would change the state.
func (s State) CanUndo() bool { return len(s.Past) > 0 }

// CanRedo reports whether a Redo command would change the state.
func (s State) CanRedo() bool { return len(s.Future) > 0 }

// Reducer applies commands to editor state. The zero value gives the
// default behavior: unbounded history and free-form circle extents.
type Reducer struct {
	UniformCircles bool // force Height = Width when circles are added or resized
	HistoryLimit   int  // max undo depth, oldest snapshots dropped; 0 = unbounded
}

// Reduce returns the state after applying cmd. It is pure and never
// fails: unknown kinds, missing IDs, nil payloads and empty stacks all
// come back as valid states, usually the input unchanged. The returned
// state may share stack backing arrays with the input; callers are
// expected to replace their state on every dispatch rather than branch
// several futures off one snapshot.
func (r Reducer) Reduce(s State, cmd Command) State {
	switch cmd.Kind {
	case CmdAddShape:
		if cmd.Shape == nil {
			return s
		}
		sh := r.normalize(*cmd.Shape, s.Present)
		next := r.snapshot(s)
		next.Present = append(s.Present.Clone(), sh)
		return next

	case CmdUpdateShape:
		// The history push happens even when the ID is unknown or the
		// update is empty: every update attempt consumes an undo slot.
		next := r.snapshot(s)
		if cmd.Update == nil {
			return next
		}
		if i := s.Present.Find(cmd.ID); i >= 0 {
			doc := s.Present.Clone()
			doc[i] = r.resize(cmd.Update.apply(doc[i]), *cmd.Update)
			next.Present = doc
		}
		return next

	case CmdDeleteShape:
		// Same unconditional push as update. Remaining shapes keep
		// their ZIndex; gaps are fine. The selection is left alone even
		// when it referred to the deleted shape.
		next := r.snapshot(s)
		if i := s.Present.Find(cmd.ID); i >= 0 {
			doc := s.Present.Clone()
			next.Present = append(doc[:i], doc[i+1:]...)
		}
		return next

	case CmdLoadShapes:
		// Loading replaces the document without consuming an undo slot;
		// both stacks survive as they are.
		next := s
		if cmd.Shapes == nil {
			next.Present = Document{}
		} else {
			next.Present = Document(cmd.Shapes).Clone()
		}
		return next

	case CmdClearShapes:
		next := r.snapshot(s)
		next.Present = Document{}
		return next

	case CmdUndo:
		n := len(s.Past)
		if n == 0 {
			return s
		}
		next := s
		next.Present = s.Past[n-1]
		next.Past = s.Past[:n-1]
		next.Future = append(s.Future, s.Present)
		return next

	case CmdRedo:
		n := len(s.Future)
		if n == 0 {
			return s
		}
		next := s
		next.Present = s.Future[n-1]
		next.Future = s.Future[:n-1]
		next.Past = append(s.Past, s.Present)
		return next

	case CmdSelectShape:
		next := s
		next.Selected = cmd.ID
		return next
	}
	return s
}

// snapshot pushes the present document onto Past and discards the redo
// timeline. A new edit after undos permanently forfeits Redo.
func (r Reducer) snapshot(s State) State {
	past := append(s.Past, s.Present)
	if r.HistoryLimit > 0 && len(past) > r.HistoryLimit {
		past = past[len(past)-r.HistoryLimit:]
	}
	s.Past = past
	s.Future = nil
	return s
}

// normalize fills in the generated parts of a freshly added shape:
// a random ID when none (or a colliding one) was supplied, default
// extents, stacking on top of everything present.
func (r Reducer) normalize(sh Shape, present Document) Shape {
	if sh.ID == "" || present.Contains(sh.ID) {
		sh.ID = uuid.NewString()
	}
	if sh.Width <= 0 {
		sh.Width = DefaultWidth
	}
	if sh.Height <= 0 {
		sh.Height = DefaultHeight
	}
	if r.UniformCircles && sh.Type == Circle {
		sh.Height = sh.Width
	}
	if sh.ZIndex == 0 {
		sh.ZIndex = len(present) + 1
	}
	if len(sh.Attrs) > 0 {
		attrs := make(map[string]string, len(sh.Attrs))
		for k, v := range sh.Attrs {
			attrs[k] = v
		}
		sh.Attrs = attrs
	}
	return sh
}

// resize keeps circles round under the uniform policy when an update
// touched either extent. The dimension the update set wins.
func (r Reducer) resize(updated Shape, u ShapeUpdate) Shape {
	if !r.UniformCircles || updated.Type != Circle {
		return updated
	}
	switch {
	case u.Width != nil:
		updated.Height = updated.Width
	case u.Height != nil:
		updated.Width = updated.Height
	}
	return updated
}
