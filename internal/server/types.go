package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// extractor defines the methods the server needs from the extraction engine.
type extractor interface {
	Parse(text string, ctx *extract.Context) *extract.Result
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine     extractor
	corsOrigin string
	maxBodyKB  int64
	timeoutSec int
}

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	CORSOrigin string
	MaxBodyKB  int64
	TimeoutSec int
	Extractor  extract.Config
}

// ParseRequest is the POST /parse body.
type ParseRequest struct {
	Text      string        `json:"text"`
	ROI       *extract.Rect `json:"roi,omitempty"`
	ROISource string        `json:"roi_source,omitempty"`
	Pipeline  string        `json:"pipeline,omitempty"`
}

// ParseResponse wraps an extraction result for API endpoints.
type ParseResponse struct {
	Success bool            `json:"success"`
	Result  *extract.Result `json:"result,omitempty"`
	Missing []string        `json:"missing,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// NewServer creates a new extraction server instance.
func NewServer(config Config) *Server {
	return &Server{
		engine:     extract.New(config.Extractor),
		corsOrigin: config.CORSOrigin,
		maxBodyKB:  config.MaxBodyKB,
		timeoutSec: config.TimeoutSec,
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/parse", s.corsMiddleware(s.parseHandler))
	mux.HandleFunc("/ws/batch", s.batchWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
