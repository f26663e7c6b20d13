package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSRequest is one realtime request.
type WSRequest struct {
	Type      string `json:"type"` // fix, analyze, clean
	Text      string `json:"text"`
	RequestID string `json:"request_id,omitempty"`
}

// WSResponse answers a WSRequest; Type echoes the request type or is "error".
type WSResponse struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// wsConnWriter is the write side of a websocket connection.
type wsConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("failed to upgrade connection to websocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	s.log.Info("websocket connection established", "remote_addr", r.RemoteAddr)
	s.serveWebSocket(conn)
}

func (s *Server) serveWebSocket(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket error", "error", err)
			}
			return
		}
		websocketMessagesTotal.WithLabelValues("received").Inc()
		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage answers one request on the current engine snapshot.
func (s *Server) handleWebSocketMessage(conn wsConnWriter, data []byte) {
	var req WSRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocket(conn, WSResponse{Type: "error", Error: "invalid request"})
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	resp := WSResponse{Type: req.Type, RequestID: req.RequestID}

	e := s.Engine()
	switch strings.ToLower(req.Type) {
	case "fix":
		res := e.Fix(req.Text)
		fixesTotal.WithLabelValues(string(res.State)).Inc()
		resp.Result = res
	case "analyze":
		a := e.Analyze(req.Text)
		for _, sg := range a.Suggestions {
			suggestionsTotal.WithLabelValues(sg.Operation.String()).Inc()
		}
		resp.Result = a
	case "clean":
		resp.Result = CleanResponse{RequestID: req.RequestID, Original: req.Text, Text: e.Clean(req.Text)}
	default:
		resp.Type = "error"
		resp.Error = "unsupported message type: " + req.Type
	}
	s.sendWebSocket(conn, resp)
}

func (s *Server) sendWebSocket(conn wsConnWriter, resp WSResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("failed to marshal websocket response", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Error("failed to send websocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
