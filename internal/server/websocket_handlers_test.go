package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWebSocketConn is a mock implementation of websocket.Conn for testing.
type mockWebSocketConn struct {
	sentMessages []sentMessage
}

type sentMessage struct {
	messageType int
	data        []byte
}

func (m *mockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	m.sentMessages = append(m.sentMessages, sentMessage{
		messageType: messageType,
		data:        data,
	})
	return nil
}

func TestServer_SendWebSocketResponse(t *testing.T) {
	mockConn := &mockWebSocketConn{}
	server := newTestServer()

	response := WebSocketParseResponse{
		Type:      "parse_response",
		Status:    "completed",
		Progress:  1.0,
		RequestID: "test-request-id",
		ItemID:    "item-1",
	}

	server.sendWebSocketResponse(mockConn, response)

	require.Len(t, mockConn.sentMessages, 1)

	var receivedResponse WebSocketParseResponse
	err := json.Unmarshal(mockConn.sentMessages[0].data, &receivedResponse)
	require.NoError(t, err)

	assert.Equal(t, websocket.TextMessage, mockConn.sentMessages[0].messageType)
	assert.Equal(t, response, receivedResponse)
}

func TestServer_SendWebSocketError(t *testing.T) {
	mockConn := &mockWebSocketConn{}
	server := newTestServer()

	server.sendWebSocketError(mockConn, "test_error", "Test error message")

	require.Len(t, mockConn.sentMessages, 1)

	var response WebSocketParseResponse
	err := json.Unmarshal(mockConn.sentMessages[0].data, &response)
	require.NoError(t, err)

	assert.Equal(t, websocket.TextMessage, mockConn.sentMessages[0].messageType)
	assert.Equal(t, "error", response.Type)
	assert.Equal(t, "error", response.Status)
	assert.Equal(t, "Test error message", response.Error)
	assert.Equal(t, "test_error", response.ErrorType)
}

func TestWebSocketUpgrader(t *testing.T) {
	t.Run("check origin allows any origin", func(t *testing.T) {
		allowed := upgrader.CheckOrigin(&http.Request{
			Header: http.Header{
				"Origin": []string{"http://example.com"},
			},
		})
		assert.True(t, allowed)
	})

	t.Run("buffer sizes", func(t *testing.T) {
		assert.Equal(t, 1024, upgrader.ReadBufferSize)
		assert.Equal(t, 1024, upgrader.WriteBufferSize)
	})
}

func TestServer_BatchWebSocket(t *testing.T) {
	server := newTestServer()
	mux := http.NewServeMux()
	server.SetupRoutes(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/batch"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
		if resp != nil {
			_ = resp.Body.Close()
		}
	}()

	req := WebSocketBatchRequest{
		Items: []WebSocketBatchItem{
			{ID: "a", Text: "거리 8.29 km\n총 시간 55:18"},
			{ID: "b", Text: "Distance 12.48 km\nTime 1:10:22"},
		},
	}
	require.NoError(t, conn.WriteJSON(req))

	// First message acknowledges the batch.
	var ack WebSocketParseResponse
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, "processing", ack.Status)
	assert.NotEmpty(t, ack.RequestID)

	var first WebSocketParseResponse
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "a", first.ItemID)
	require.NotNil(t, first.Result)
	require.NotNil(t, first.Result.Values.Distance)
	assert.InDelta(t, 8.29, *first.Result.Values.Distance, 1e-9)

	var second WebSocketParseResponse
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "b", second.ItemID)
	assert.Equal(t, "completed", second.Status)
	require.NotNil(t, second.Result)
	require.NotNil(t, second.Result.Values.Duration)
	assert.Equal(t, 4222, second.Result.Values.Duration.Seconds)
}

func TestServer_BatchWebSocket_EmptyBatch(t *testing.T) {
	server := newTestServer()
	mux := http.NewServeMux()
	server.SetupRoutes(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/batch"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
		if resp != nil {
			_ = resp.Body.Close()
		}
	}()

	require.NoError(t, conn.WriteJSON(WebSocketBatchRequest{}))

	var response WebSocketParseResponse
	require.NoError(t, conn.ReadJSON(&response))
	assert.Equal(t, "error", response.Type)
	assert.Equal(t, "invalid_request", response.ErrorType)
}
