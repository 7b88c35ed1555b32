package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

func newTestServer() *Server {
	return NewServer(Config{
		CORSOrigin: "*",
		MaxBodyKB:  512,
		TimeoutSec: 30,
		Extractor:  extract.DefaultConfig(),
	})
}

func TestServer_HealthHandler(t *testing.T) {
	server := newTestServer()

	tests := []struct {
		name           string
		method         string
		expectedStatus int
		checkResponse  bool
	}{
		{
			name:           "GET request success",
			method:         "GET",
			expectedStatus: http.StatusOK,
			checkResponse:  true,
		},
		{
			name:           "POST request not allowed",
			method:         "POST",
			expectedStatus: http.StatusMethodNotAllowed,
			checkResponse:  false,
		},
		{
			name:           "PUT request not allowed",
			method:         "PUT",
			expectedStatus: http.StatusMethodNotAllowed,
			checkResponse:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			w := httptest.NewRecorder()

			server.healthHandler(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.checkResponse {
				var response HealthResponse
				err := json.Unmarshal(w.Body.Bytes(), &response)
				require.NoError(t, err)

				assert.Equal(t, "healthy", response.Status)
				assert.NotEmpty(t, response.Time)
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestServer_ParseHandler(t *testing.T) {
	server := newTestServer()

	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
	}{
		{
			name:           "GET request not allowed",
			method:         "GET",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "invalid JSON body",
			method:         "POST",
			body:           "{not json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty text",
			method:         "POST",
			body:           `{"text": "   "}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "successful parse",
			method:         "POST",
			body:           `{"text": "거리 8.29 km\n총 시간 55:18"}`,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/parse", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			server.parseHandler(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestServer_ParseHandler_Result(t *testing.T) {
	server := newTestServer()

	body := `{"text": "거리 8.29 km\n총 시간 55:18\n평균 심박수 153 bpm", "roi_source": "detected_roi", "pipeline": "binarized"}`
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
	w := httptest.NewRecorder()

	server.parseHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	require.NotNil(t, response.Result)

	require.NotNil(t, response.Result.Values.Distance)
	assert.InDelta(t, 8.29, *response.Result.Values.Distance, 1e-9)
	require.NotNil(t, response.Result.Values.Duration)
	assert.Equal(t, 3318, response.Result.Values.Duration.Seconds)
	require.NotNil(t, response.Result.Values.AvgHR)
	assert.Equal(t, 153, *response.Result.Values.AvgHR)

	// Calories are absent from the text, so a missing warning is surfaced.
	assert.Contains(t, response.Missing, "칼로리 추출 실패")
}

func TestServer_ParseHandler_BodyTooLarge(t *testing.T) {
	server := NewServer(Config{
		CORSOrigin: "*",
		MaxBodyKB:  1,
		TimeoutSec: 30,
		Extractor:  extract.DefaultConfig(),
	})

	big := strings.Repeat("x", 4*1024)
	body := `{"text": "` + big + `"}`
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
	w := httptest.NewRecorder()

	server.parseHandler(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestServer_WriteErrorResponse(t *testing.T) {
	server := newTestServer()

	tests := []struct {
		name       string
		message    string
		statusCode int
	}{
		{
			name:       "bad request error",
			message:    "Invalid input",
			statusCode: http.StatusBadRequest,
		},
		{
			name:       "internal server error",
			message:    "Something went wrong",
			statusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			server.writeErrorResponse(w, tt.message, tt.statusCode)

			assert.Equal(t, tt.statusCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var response ParseResponse
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			assert.False(t, response.Success)
			assert.Equal(t, tt.message, response.Error)
		})
	}
}

// Benchmark tests.
func BenchmarkServer_ParseHandler(b *testing.B) {
	server := newTestServer()
	body := `{"text": "거리 8.29 km\n총 시간 55:18\n평균 심박수 153 bpm"}`

	b.ResetTimer()
	for range b.N {
		req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
		w := httptest.NewRecorder()
		server.parseHandler(w, req)
	}
}
