package webdialog

import (
	"context"
	_ "embed"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/humanloop/hitl-mcp/internal/config"
	"github.com/humanloop/hitl-mcp/internal/dialog"
	"github.com/humanloop/hitl-mcp/internal/prompt"
)

//go:embed page.html
var dialogPage []byte

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The server binds to loopback; cross-origin browser pages cannot
		// reach it anyway.
		return true
	},
}

// Server serves the dialog page and pushes prompts to connected pages over
// WebSocket. It implements dialog.Renderer.
type Server struct {
	cfg     *config.WebConfig
	log     *zap.Logger
	pending *PendingInteractions

	conns   map[string]*websocket.Conn // connectionID -> conn
	writeMu map[string]*sync.Mutex     // connectionID -> write guard
	mu      sync.RWMutex

	httpSrv  *http.Server
	listener net.Listener
	started  bool
}

// New creates the web dialog server. Call Start before rendering.
func New(cfg *config.WebConfig, log *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log,
		pending: NewPendingInteractions(),
		conns:   make(map[string]*websocket.Conn),
		writeMu: make(map[string]*sync.Mutex),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.httpSrv = &http.Server{Handler: mux}
	return s
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web dialog listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.started = true
	s.mu.Unlock()

	s.log.Info("web dialog channel listening", zap.String("url", s.URL()))
	go func() {
		if err := s.httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("web dialog server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops the HTTP server and closes all page connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.started = false
	for id, conn := range s.conns {
		conn.Close()
		delete(s.conns, id)
		delete(s.writeMu, id)
	}
	s.mu.Unlock()
	return s.httpSrv.Shutdown(ctx)
}

// URL returns the page address, usable once Start succeeded.
func (s *Server) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return fmt.Sprintf("http://%s/", s.listener.Addr())
}

// Name implements dialog.Renderer.
func (s *Server) Name() string { return "web" }

// Available implements dialog.Renderer. The channel works as soon as the
// server is listening; a page opened later still receives pending prompts.
func (s *Server) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Render implements dialog.Renderer. The prompt is pushed to every connected
// page; the first response wins and the prompt is dismissed everywhere else.
func (s *Server) Render(ctx context.Context, req *prompt.Request) (*prompt.Response, error) {
	if !s.Available() {
		return nil, dialog.ErrUnavailable
	}

	inter := s.pending.Add(req)
	defer s.pending.Remove(req.ID)

	msg, err := PromptMessage(req)
	if err != nil {
		return nil, err
	}
	s.broadcast(msg)

	resp := inter.Await(ctx)

	// Close the prompt on pages that did not answer it.
	if dismiss, err := DismissMessage(req.ID); err == nil {
		s.broadcast(dismiss)
	}
	return resp, nil
}

// handleIndex serves the embedded dialog page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(dialogPage)
}

// handleWebSocket upgrades a page connection and relays prompt traffic.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	connID := uuid.NewString()
	s.mu.Lock()
	s.conns[connID] = conn
	s.writeMu[connID] = &sync.Mutex{}
	s.mu.Unlock()

	s.log.Debug("dialog page connected", zap.String("connection", connID))

	// Replay prompts still waiting for an answer.
	for _, req := range s.pending.Snapshot() {
		if msg, err := PromptMessage(req); err == nil {
			s.send(connID, msg)
		}
	}

	go s.readLoop(connID, conn)
}

// readLoop consumes messages from one page until it disconnects.
func (s *Server) readLoop(connID string, conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, connID)
		delete(s.writeMu, connID)
		s.mu.Unlock()
		conn.Close()
		s.log.Debug("dialog page disconnected", zap.String("connection", connID))
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case MsgResponse:
			data, err := ParseResponse(&msg)
			if err != nil {
				s.sendError(connID, err.Error())
				continue
			}
			resp := &prompt.Response{Raw: data.Raw, Action: data.Action}
			if !s.pending.Resolve(data.ID, resp) {
				// Answered in another tab or already timed out.
				s.log.Debug("dropping late response", zap.String("id", data.ID))
			}
		default:
			s.sendError(connID, fmt.Sprintf("unexpected message type %q", msg.Type))
		}
	}
}

// broadcast sends a message to all connected pages.
func (s *Server) broadcast(msg *Message) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.conns))
	for id := range s.conns {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		s.send(id, msg)
	}
}

// send writes a message to one page, serializing writes per connection.
func (s *Server) send(connID string, msg *Message) {
	s.mu.RLock()
	conn := s.conns[connID]
	lock := s.writeMu[connID]
	s.mu.RUnlock()
	if conn == nil || lock == nil {
		return
	}

	lock.Lock()
	err := conn.WriteJSON(msg)
	lock.Unlock()
	if err != nil {
		s.log.Warn("write to dialog page failed",
			zap.String("connection", connID), zap.Error(err))
	}
}

func (s *Server) sendError(connID, text string) {
	if msg, err := NewMessage(MsgError, ErrorData{Message: text}); err == nil {
		s.send(connID, msg)
	}
}
