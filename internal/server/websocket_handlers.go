package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketBatchRequest is a batch of OCR texts submitted over one socket.
type WebSocketBatchRequest struct {
	Items []WebSocketBatchItem `json:"items"`
}

// WebSocketBatchItem is one OCR dump within a batch request.
type WebSocketBatchItem struct {
	ID        string        `json:"id,omitempty"`
	Text      string        `json:"text"`
	ROI       *extract.Rect `json:"roi,omitempty"`
	ROISource string        `json:"roi_source,omitempty"`
	Pipeline  string        `json:"pipeline,omitempty"`
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// WebSocketParseResponse is one per-item result streamed back to the client.
type WebSocketParseResponse struct {
	Type      string          `json:"type"`
	Status    string          `json:"status"` // "processing", "completed", "error"
	Progress  float64         `json:"progress,omitempty"`
	ItemID    string          `json:"item_id,omitempty"`
	Result    *extract.Result `json:"result,omitempty"`
	Missing   []string        `json:"missing,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorType string          `json:"error_type,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// batchWebSocketHandler handles WebSocket connections for streaming batch
// extraction.
func (s *Server) batchWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage processes one batch request message.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketBatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}
	if len(req.Items) == 0 {
		s.sendWebSocketError(conn, "invalid_request", "No items provided")
		return
	}

	// Generate a request ID for tracking
	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	s.sendWebSocketResponse(conn, WebSocketParseResponse{
		Type:      "parse_response",
		Status:    "processing",
		Progress:  0.0,
		RequestID: requestID,
	})

	for i, item := range req.Items {
		s.processWebSocketItem(conn, item, requestID, float64(i+1)/float64(len(req.Items)))
	}
}

// processWebSocketItem runs the engine on one batch item and streams the
// result.
func (s *Server) processWebSocketItem(conn *websocket.Conn, item WebSocketBatchItem, requestID string, progress float64) {
	if strings.TrimSpace(item.Text) == "" {
		s.sendWebSocketResponse(conn, WebSocketParseResponse{
			Type:      "parse_response",
			Status:    "error",
			ItemID:    item.ID,
			Error:     "No text provided",
			ErrorType: "invalid_request",
			RequestID: requestID,
		})
		parseRequestsTotal.WithLabelValues("websocket", "error").Inc()
		return
	}

	var pctx *extract.Context
	if item.ROI != nil || item.ROISource != "" || item.Pipeline != "" {
		pctx = &extract.Context{
			ROI:          item.ROI,
			ROISource:    item.ROISource,
			PipelineName: item.Pipeline,
		}
	}

	start := time.Now()
	res := s.engine.Parse(item.Text, pctx)
	duration := time.Since(start)

	parseRequestsTotal.WithLabelValues("websocket", "success").Inc()
	parseDuration.WithLabelValues("websocket").Observe(duration.Seconds())
	recordResultMetrics("websocket", res)

	status := "completed"
	if progress < 1.0 {
		status = "processing"
	}
	s.sendWebSocketResponse(conn, WebSocketParseResponse{
		Type:      "parse_response",
		Status:    status,
		Progress:  progress,
		ItemID:    item.ID,
		Result:    res,
		Missing:   res.MissingFields(),
		RequestID: requestID,
	})
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketParseResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message string) {
	response := WebSocketParseResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	}

	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket error response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket error message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
