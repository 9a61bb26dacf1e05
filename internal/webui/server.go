// Package webui exposes a usermodel.UserModel over a small JSON
// protocol on a websocket, as a thin transport with no spreadsheet
// semantics of its own. Grounded on broyeztony-karl/spreadsheet/
// server.go's Server (clients map[*websocket.Conn]bool + mutex,
// UpdateRequest/UpdateResponse, broadcastAll): the request/response
// shape and client bookkeeping are kept; "broadcast every change to
// every client" is replaced with "drain the UserModel's send-queue and
// broadcast that," since the spec (§1 Non-goals) excludes a real
// cross-process collaboration protocol.
package webui

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/inkcell/inkcell/internal/model"
	"github.com/inkcell/inkcell/internal/undo"
	"github.com/inkcell/inkcell/internal/usermodel"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Request is one client->server message.
type Request struct {
	Type  string `json:"type"`
	Sheet uint32 `json:"sheet,omitempty"`
	Row   uint32 `json:"row,omitempty"`
	Col   uint32 `json:"col,omitempty"`
	Value string `json:"value,omitempty"`
}

// Response is one server->client message.
type Response struct {
	Type    string `json:"type"`
	Sheet   uint32 `json:"sheet,omitempty"`
	Row     uint32 `json:"row,omitempty"`
	Col     uint32 `json:"col,omitempty"`
	Display string `json:"display,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server wraps a UserModel and fans its send-queue out to every
// connected client.
type Server struct {
	Model   *usermodel.UserModel
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

// NewServer wraps an existing UserModel.
func NewServer(m *usermodel.UserModel) *Server {
	return &Server{Model: m, clients: make(map[*websocket.Conn]bool)}
}

// HandleWebSocket upgrades the connection and services requests until
// the client disconnects.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("webui: upgrade error:", err)
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			log.Println("webui: bad request:", err)
			continue
		}
		s.handle(req)
		s.broadcastQueue()
	}
}

func (s *Server) handle(req Request) {
	addr := model.CellAddress{WorksheetID: req.Sheet, Row: req.Row, Column: req.Col}
	switch req.Type {
	case "set_cell":
		if err := s.Model.SetUserInput(addr, req.Value); err != nil {
			log.Printf("webui: set_cell %v failed: %v", addr, err)
		}
	case "evaluate":
		if err := s.Model.Engine.Evaluate(); err != nil {
			log.Printf("webui: evaluate failed: %v", err)
		}
	case "undo":
		s.Model.Undo()
	case "redo":
		s.Model.Redo()
	}
}

func (s *Server) broadcastQueue() {
	diffs := s.Model.FlushSendQueue()
	if len(diffs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range diffs {
		resp := s.responseFor(d)
		for client := range s.clients {
			if err := client.WriteJSON(resp); err != nil {
				log.Printf("webui: write failed: %v", err)
				client.Close()
				delete(s.clients, client)
			}
		}
	}
}

func (s *Server) responseFor(d undo.Diff) Response {
	if d.Kind != undo.DiffCell {
		return Response{Type: "sheet_changed"}
	}
	display := "#EMPTY"
	if !d.After.Empty {
		v, err := s.Model.Engine.GetCellValue(d.Addr)
		switch {
		case err != nil:
			return Response{Type: "cell", Sheet: d.Addr.WorksheetID, Row: d.Addr.Row, Col: d.Addr.Column, Error: err.Error()}
		default:
			display = model.Stringify(v)
		}
	}
	return Response{Type: "cell", Sheet: d.Addr.WorksheetID, Row: d.Addr.Row, Col: d.Addr.Column, Display: display}
}
