package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kvistgaard/go-shape-editor/editor"
	"github.com/kvistgaard/go-shape-editor/store"
)

func setupTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	hub := NewHub(st, editor.Reducer{})
	go hub.Run()
	handler := NewHandler(hub, st)
	return httptest.NewServer(handler), st
}

func wsConnect(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	return conn
}

func readWsMsg(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return msg
}

func TestHandler_WebSocketConnect(t *testing.T) {
	server, _ := setupTestServer(t)
	defer server.Close()

	conn := wsConnect(t, server)
	defer conn.Close()

	// Send join message
	msg := ClientMessage{Type: MsgJoin, Design: "test-design"}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}

	// Read state response
	resp := readWsMsg(t, conn)
	if resp.Type != MsgState {
		t.Errorf("expected state, got %q", resp.Type)
	}
}

func TestHandler_TwoClientsCollaborate(t *testing.T) {
	server, _ := setupTestServer(t)
	defer server.Close()

	conn1 := wsConnect(t, server)
	defer conn1.Close()
	conn2 := wsConnect(t, server)
	defer conn2.Close()

	// c1 joins
	conn1.WriteJSON(ClientMessage{Type: MsgJoin, Design: "collab"})
	state1 := readWsMsg(t, conn1)
	if state1.Type != MsgState {
		t.Fatalf("c1 expected state, got %q", state1.Type)
	}

	// c2 joins
	conn2.WriteJSON(ClientMessage{Type: MsgJoin, Design: "collab"})
	state2 := readWsMsg(t, conn2)
	if state2.Type != MsgState {
		t.Fatalf("c2 expected state, got %q", state2.Type)
	}

	// c1 gets join notification for c2
	joinNotif := readWsMsg(t, conn1)
	if joinNotif.Type != MsgJoin {
		t.Fatalf("c1 expected join notification, got %q", joinNotif.Type)
	}

	// c1 adds a shape
	cmd := editor.AddShape(testRect("r1"))
	conn1.WriteJSON(ClientMessage{Type: MsgCommand, Command: &cmd})

	// Both clients see the new state.
	for name, conn := range map[string]*websocket.Conn{"c1": conn1, "c2": conn2} {
		state := readWsMsg(t, conn)
		if state.Type != MsgState {
			t.Fatalf("%s expected state, got %q", name, state.Type)
		}
		if len(state.Shapes) != 1 || state.Shapes[0].ID != "r1" {
			t.Errorf("%s shapes = %+v, want one rectangle", name, state.Shapes)
		}
	}
}

func TestHandler_CommandBeforeJoinRejected(t *testing.T) {
	server, _ := setupTestServer(t)
	defer server.Close()

	conn := wsConnect(t, server)
	defer conn.Close()

	cmd := editor.AddShape(testRect("r1"))
	conn.WriteJSON(ClientMessage{Type: MsgCommand, Command: &cmd})

	resp := readWsMsg(t, conn)
	if resp.Type != MsgError {
		t.Fatalf("expected error, got %q", resp.Type)
	}
	if !strings.Contains(resp.Message, "not joined") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestHandler_DesignsEndpoint(t *testing.T) {
	server, st := setupTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/designs")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if got := strings.TrimSpace(string(body)); got != "[]" {
		t.Errorf("empty store designs = %q, want []", got)
	}

	st.Save(ctx(), "poster", []editor.Shape{testRect("r1")})

	resp, err = http.Get(server.URL + "/designs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(names) != 1 || names[0] != "poster" {
		t.Errorf("names = %v, want [poster]", names)
	}
}

func TestHandler_ExportEndpoints(t *testing.T) {
	server, st := setupTestServer(t)
	defer server.Close()

	st.Save(ctx(), "poster", []editor.Shape{testRect("r1")})

	tests := []struct {
		format      string
		contentType string
		prefix      []byte
	}{
		{"svg", "image/svg+xml", []byte("<svg")},
		{"png", "image/png", []byte("\x89PNG")},
		{"pdf", "application/pdf", []byte("%PDF")},
	}
	for _, tc := range tests {
		resp, err := http.Get(server.URL + "/export/" + tc.format + "?design=poster")
		if err != nil {
			t.Fatalf("%s: %v", tc.format, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d", tc.format, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != tc.contentType {
			t.Errorf("%s: content type = %q, want %q", tc.format, ct, tc.contentType)
		}
		if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "design."+tc.format) {
			t.Errorf("%s: content disposition = %q", tc.format, cd)
		}
		if !bytes.HasPrefix(body, tc.prefix) {
			t.Errorf("%s: body starts with %q, want %q", tc.format, body[:min(len(body), 8)], tc.prefix)
		}
	}
}

func TestHandler_ExportRequiresDesign(t *testing.T) {
	server, _ := setupTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/export/svg")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}
