package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MeKo-Tech/runlens/internal/extract"
	"github.com/MeKo-Tech/runlens/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// parseHandler runs the extraction engine on posted OCR text.
func (s *Server) parseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyKB*1024)

	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeErrorResponse(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.writeErrorResponse(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeErrorResponse(w, "No text provided", http.StatusBadRequest)
		return
	}

	var pctx *extract.Context
	if req.ROI != nil || req.ROISource != "" || req.Pipeline != "" {
		pctx = &extract.Context{
			ROI:          req.ROI,
			ROISource:    req.ROISource,
			PipelineName: req.Pipeline,
		}
	}

	start := time.Now()
	res := s.engine.Parse(req.Text, pctx)
	duration := time.Since(start)

	parseRequestsTotal.WithLabelValues("http", "success").Inc()
	parseDuration.WithLabelValues("http").Observe(duration.Seconds())
	recordResultMetrics("http", res)

	w.Header().Set("Content-Type", "application/json")
	response := ParseResponse{
		Success: true,
		Result:  res,
		Missing: res.MissingFields(),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding parse response: %v\n", err)
	}
}

// recordResultMetrics records per-result extraction metrics.
func recordResultMetrics(kind string, res *extract.Result) {
	for _, f := range extract.Fields() {
		if len(res.Candidates[f]) > 0 {
			candidatesGenerated.WithLabelValues(kind, f.String()).Observe(float64(len(res.Candidates[f])))
		}
	}
	recovered := len(extract.Fields()) - len(res.MissingFields())
	fieldsRecovered.WithLabelValues(kind).Observe(float64(recovered))
	totalScore.WithLabelValues(kind).Observe(res.TotalScore)
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ParseResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
