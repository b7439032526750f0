package server

import (
	"encoding/json"

	"github.com/kvistgaard/go-shape-editor/editor"
)

// Message types exchanged over WebSocket.
const (
	MsgJoin    = "join"
	MsgLeave   = "leave"
	MsgCommand = "command"
	MsgState   = "state"
	MsgSave    = "save"
	MsgLoad    = "load"
	MsgNew     = "new"
	MsgDesigns = "designs"
	MsgError   = "error"
)

// ClientMessage is a message from client to server. Design selects the
// session on join; Name carries the target for save and load.
type ClientMessage struct {
	Type    string          `json:"type"`
	Design  string          `json:"design,omitempty"`
	Name    string          `json:"name,omitempty"`
	Command *editor.Command `json:"command,omitempty"`
}

// ServerMessage is a message from server to client. After every applied
// command the session sends a full state message; widgets re-render
// from it and keep no authoritative state of their own.
type ServerMessage struct {
	Type     string         `json:"type"`
	Design   string         `json:"design,omitempty"`
	Shapes   []editor.Shape `json:"shapes"`
	Selected string         `json:"selectedShapeId,omitempty"`
	CanUndo  bool           `json:"canUndo"`
	CanRedo  bool           `json:"canRedo"`
	Names    []string       `json:"names,omitempty"`
	ClientID string         `json:"clientId,omitempty"`
	Name     string         `json:"name,omitempty"`
	Color    string         `json:"color,omitempty"`
	Message  string         `json:"message,omitempty"`
	Clients  []ClientInfo   `json:"clients,omitempty"`
}

// ClientInfo describes a connected user.
type ClientInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Encode serializes a ServerMessage to JSON bytes.
func (m ServerMessage) Encode() []byte {
	b, _ := json.Marshal(m)
	return b
}
