// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, evaluator orchestration,
// output serialization. The API NEVER performs metric math.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rf-compliance/core/sparam"
	"rf-compliance/core/stage"
	"rf-compliance/internal/errors"
)

// Server is the API server.
type Server struct {
	handler *Handler
	mux     *http.ServeMux
	version string
	log     *zap.Logger
}

// NewServer creates a new API server.
func NewServer(version string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		handler: NewHandler(log),
		mux:     http.NewServeMux(),
		version: version,
		log:     log,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /evaluate", s.handleEvaluate)
	s.mux.HandleFunc("POST /convert/vswr-to-return-loss", s.handleConvert)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Supporting endpoints
	s.mux.HandleFunc("GET /version", s.handleVersion)
	s.mux.HandleFunc("GET /stages", s.handleStages)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// handleEvaluate handles POST /evaluate
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := s.handler.execute(&req)
	if err != nil {
		code, status := classifyError(err)
		s.writeError(w, code, err.Error(), status)
		return
	}

	s.writeJSON(w, rep, http.StatusOK)
}

// handleConvert handles POST /convert/vswr-to-return-loss
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	rl, err := sparam.VSWRToReturnLoss(req.VSWR)
	if err != nil {
		s.writeError(w, string(errors.TypeDomain), err.Error(), http.StatusBadRequest)
		return
	}

	s.writeJSON(w, ConvertResponse{VSWR: req.VSWR, ReturnLossDB: rl}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "rf-compliance",
		"api_version": "v1",
	}, http.StatusOK)
}

// handleStages handles GET /stages
func (s *Server) handleStages(w http.ResponseWriter, r *http.Request) {
	type stageInfo struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
	}
	var out []stageInfo
	for _, st := range stage.Stages() {
		out = append(out, stageInfo{Name: st, DisplayName: stage.DisplayName(st)})
	}
	s.writeJSON(w, map[string]interface{}{"stages": out}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}

// classifyError maps evaluation errors to HTTP statuses. Client mistakes
// (bad payloads, bad bounds) are 400s; anything else is a 500.
func classifyError(err error) (string, int) {
	for _, t := range []errors.Type{
		errors.TypeFormat, errors.TypeDomain, errors.TypePort,
		errors.TypeValidation, errors.TypeParsing,
	} {
		if errors.IsType(err, t) {
			return string(t), http.StatusBadRequest
		}
	}
	return string(errors.TypeInternal), http.StatusInternalServerError
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
