package bridgetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/gorilla/websocket"
)

// Handler answers one JSON-RPC method. Returning a non-nil RPCError sends a
// JSON-RPC error object instead of a result.
type Handler func(params []json.RawMessage) (interface{}, *bridge.RPCError)

// Server is a WebSocket JSON-RPC endpoint for exercising bridge.RPCClient.
type Server struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	handlers map[string]Handler
	conns    []*websocket.Conn
}

type rpcRequest struct {
	ID     int64             `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      int64            `json:"id"`
	Result  interface{}      `json:"result,omitempty"`
	Error   *bridge.RPCError `json:"error,omitempty"`
}

// NewServer starts a server with no handlers registered.
func NewServer() *Server {
	s := &Server{
		handlers: make(map[string]Handler),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.serveWS))
	return s
}

// URL returns the ws:// address of the server.
func (s *Server) URL() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

// Handle registers fn for method.
func (s *Server) Handle(method string, fn Handler) {
	s.mu.Lock()
	s.handlers[method] = fn
	s.mu.Unlock()
}

// Reply registers a handler that always returns result.
func (s *Server) Reply(method string, result interface{}) {
	s.Handle(method, func([]json.RawMessage) (interface{}, *bridge.RPCError) {
		return result, nil
	})
}

// DropConnections closes every open client connection.
func (s *Server) DropConnections() {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()
	for _, c := range conns {
		_ = c.Close()
	}
}

// Close stops the server.
func (s *Server) Close() {
	s.DropConnections()
	s.srv.Close()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.mu.Unlock()
	defer conn.Close()

	var writeMu sync.Mutex
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req rpcRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			continue
		}
		go func(req rpcRequest) {
			resp := s.dispatch(req)
			data, _ := json.Marshal(resp)
			writeMu.Lock()
			_ = conn.WriteMessage(websocket.TextMessage, data)
			writeMu.Unlock()
		}(req)
	}
}

func (s *Server) dispatch(req rpcRequest) rpcResponse {
	s.mu.Lock()
	fn, ok := s.handlers[req.Method]
	s.mu.Unlock()
	if !ok {
		return rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &bridge.RPCError{Code: -32601, Message: fmt.Sprintf("unknown method: %s", req.Method)},
		}
	}
	result, rpcErr := fn(req.Params)
	return rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result, Error: rpcErr}
}
