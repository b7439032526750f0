package editor

// CommandKind discriminates editor commands on the wire.
type CommandKind string

const (
	CmdAddShape    CommandKind = "add_shape"
	CmdUpdateShape CommandKind = "update_shape"
	CmdDeleteShape CommandKind = "delete_shape"
	CmdLoadShapes  CommandKind = "load_shapes"
	CmdClearShapes CommandKind = "clear_shapes"
	CmdUndo        CommandKind = "undo"
	CmdRedo        CommandKind = "redo"
	CmdSelectShape CommandKind = "select_shape"
)

// Command is a single editor intent. Exactly the payload fields for its
// kind are set; the rest stay zero and are omitted from JSON.
type Command struct {
	Kind   CommandKind  `json:"kind"`
	Shape  *Shape       `json:"shape,omitempty"`  // add_shape
	ID     string       `json:"id,omitempty"`     // update_shape, delete_shape, select_shape
	Update *ShapeUpdate `json:"update,omitempty"` // update_shape
	Shapes []Shape      `json:"shapes,omitempty"` // load_shapes
}

// Mutates reports whether the command can change the present document.
// Selection changes are excluded; they never touch shapes or history.
func (c Command) Mutates() bool {
	switch c.Kind {
	case CmdAddShape, CmdUpdateShape, CmdDeleteShape, CmdLoadShapes, CmdClearShapes, CmdUndo, CmdRedo:
		return true
	}
	return false
}

// AddShape creates a command that appends a shape to the document.
func AddShape(s Shape) Command {
	return Command{Kind: CmdAddShape, Shape: &s}
}

// UpdateShape creates a command that merges a partial update into the
// shape with the given ID.
func UpdateShape(id string, u ShapeUpdate) Command {
	return Command{Kind: CmdUpdateShape, ID: id, Update: &u}
}

// DeleteShape creates a command that removes the shape with the given ID.
func DeleteShape(id string) Command {
	return Command{Kind: CmdDeleteShape, ID: id}
}

// LoadShapes creates a command that replaces the document wholesale.
func LoadShapes(shapes []Shape) Command {
	return Command{Kind: CmdLoadShapes, Shapes: shapes}
}

// ClearShapes creates a command that empties the document.
func ClearShapes() Command { return Command{Kind: CmdClearShapes} }

// Undo creates a command that steps back to the previous snapshot.
func Undo() Command { return Command{Kind: CmdUndo} }

// Redo creates a command that restores the most recently undone snapshot.
func Redo() Command { return Command{Kind: CmdRedo} }

// SelectShape creates a command that marks the shape with the given ID
// as selected. An empty ID clears the selection.
func SelectShape(id string) Command {
	return Command{Kind: CmdSelectShape, ID: id}
}

// Deselect creates a command that clears the selection.
func Deselect() Command { return SelectShape("") }
