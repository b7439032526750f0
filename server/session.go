package server

import (
	"context"
	"log"

	"github.com/kvistgaard/go-shape-editor/editor"
	"github.com/kvistgaard/go-shape-editor/store"
)

type commandMessage struct {
	client *Client
	msg    ClientMessage
}

// Session owns the editor state for a single open design. All commands
// are serialized through one goroutine, so reducing, persisting and
// broadcasting never race and arrival order is apply order.
type Session struct {
	name    string
	state   editor.State
	reducer editor.Reducer
	store   store.DesignStore
	clients map[*Client]bool

	incoming chan commandMessage
	join     chan *Client
	leave    chan *Client
	stop     chan struct{}
}

func newSession(name string, shapes []editor.Shape, reducer editor.Reducer, st store.DesignStore) *Session {
	state := editor.NewState()
	if len(shapes) > 0 {
		state.Present = editor.Document(shapes)
	}
	return &Session{
		name:     name,
		state:    state,
		reducer:  reducer,
		store:    st,
		clients:  make(map[*Client]bool),
		incoming: make(chan commandMessage, 64),
		join:     make(chan *Client, 16),
		leave:    make(chan *Client, 16),
		stop:     make(chan struct{}),
	}
}

// Run is the session's main loop. It serializes all commands.
func (s *Session) Run() {
	for {
		select {
		case c := <-s.join:
			s.handleJoin(c)
		case c := <-s.leave:
			s.handleLeave(c)
		case cm := <-s.incoming:
			s.handleMessage(cm)
		case <-s.stop:
			return
		}
	}
}

func (s *Session) handleJoin(c *Client) {
	s.clients[c] = true
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	// Send the current state to the joining client.
	msg := s.stateMsg()
	msg.Clients = s.clientInfos()
	c.sendMsg(msg)

	// Notify other clients about the new user.
	for other := range s.clients {
		if other != c {
			other.sendMsg(ServerMessage{
				Type:     MsgJoin,
				ClientID: c.ID,
				Name:     c.Name,
				Color:    c.Color,
			})
		}
	}
}

func (s *Session) handleLeave(c *Client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	close(c.send)

	// Notify others.
	for other := range s.clients {
		other.sendMsg(ServerMessage{
			Type:     MsgLeave,
			ClientID: c.ID,
		})
	}
}

func (s *Session) handleMessage(cm commandMessage) {
	switch cm.msg.Type {
	case MsgCommand:
		s.handleCommand(cm)
	case MsgSave:
		s.handleSave(cm)
	case MsgLoad:
		s.handleLoad(cm)
	case MsgNew:
		s.handleNew()
	case MsgDesigns:
		s.handleDesigns(cm)
	}
}

// handleCommand runs one editor command: reduce, autosave, broadcast.
func (s *Session) handleCommand(cm commandMessage) {
	if cm.msg.Command == nil {
		cm.client.sendError("missing command")
		return
	}
	cmd := *cm.msg.Command

	s.state = s.reducer.Reduce(s.state, cmd)

	if cmd.Mutates() {
		s.persist(cm.client)
	}
	s.broadcast()
}

// handleSave persists the present document under another name, leaving
// the session's own autosave name alone.
func (s *Session) handleSave(cm commandMessage) {
	name := cm.msg.Name
	if name == "" {
		cm.client.sendError("missing design name")
		return
	}
	if err := s.store.Save(context.Background(), name, s.state.Present); err != nil {
		log.Printf("session %s: failed to save design %q: %v", s.name, name, err)
		cm.client.sendError("persistence unavailable: design was not saved")
		return
	}
	cm.client.sendMsg(ServerMessage{Type: MsgSave, Name: name})
}

// handleLoad replaces the document with a stored design. History stays
// as it is; a malformed design is reported and changes nothing.
func (s *Session) handleLoad(cm commandMessage) {
	name := cm.msg.Name
	if name == "" {
		cm.client.sendError("missing design name")
		return
	}
	shapes, err := s.store.Load(context.Background(), name)
	if err != nil {
		log.Printf("session %s: failed to load design %q: %v", s.name, name, err)
		cm.client.sendError("cannot load design: " + err.Error())
		return
	}

	s.state = s.reducer.Reduce(s.state, editor.LoadShapes(shapes))
	s.persist(cm.client)
	s.broadcast()
}

// handleNew resets the session to a fresh empty document. The volatile
// history does not survive the reset.
func (s *Session) handleNew() {
	s.state = editor.NewState()
	s.persist(nil)
	s.broadcast()
}

func (s *Session) handleDesigns(cm commandMessage) {
	names, err := s.store.Names(context.Background())
	if err != nil {
		log.Printf("session %s: failed to list designs: %v", s.name, err)
		cm.client.sendError("cannot list designs")
		return
	}
	cm.client.sendMsg(ServerMessage{Type: MsgDesigns, Names: names})
}

// persist autosaves the present document under the session's design
// name. Storage failures are recoverable: the in-memory state stays
// authoritative, the issuer gets a notice and the next change retries.
func (s *Session) persist(issuer *Client) {
	if err := s.store.Save(context.Background(), s.name, s.state.Present); err != nil {
		log.Printf("session %s: failed to persist: %v", s.name, err)
		if issuer != nil {
			issuer.sendError("persistence unavailable: changes are kept in memory")
		}
	}
}

// broadcast sends the full state to every connected client.
func (s *Session) broadcast() {
	msg := s.stateMsg()
	for c := range s.clients {
		c.sendMsg(msg)
	}
}

func (s *Session) stateMsg() ServerMessage {
	return ServerMessage{
		Type:     MsgState,
		Design:   s.name,
		Shapes:   s.state.Present,
		Selected: s.state.Selected,
		CanUndo:  s.state.CanUndo(),
		CanRedo:  s.state.CanRedo(),
	}
}

func (s *Session) clientInfos() []ClientInfo {
	infos := make([]ClientInfo, 0, len(s.clients))
	for c := range s.clients {
		infos = append(infos, c.Info())
	}
	return infos
}
