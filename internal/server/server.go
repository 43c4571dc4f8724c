// Package server exposes the analysis engine over HTTP: plain JSON endpoints
// for lookups and one-shot runs, plus SSE and WebSocket variants of the
// overview that stream per-branch progress.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"SlopeLab/internal/analysis"
	"SlopeLab/internal/model"
	"SlopeLab/internal/store"
)

// Server wires the analysis service and the store into an http.Handler.
type Server struct {
	svc     *analysis.Service
	store   store.Store
	origins []string
	mux     *http.ServeMux
}

// New builds the Server and registers all routes.
func New(svc *analysis.Service, st store.Store, allowedOrigins []string) *Server {
	s := &Server{
		svc:     svc,
		store:   st,
		origins: allowedOrigins,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/tickers", s.handleTickers)
	s.mux.HandleFunc("GET /api/branches", s.handleBranches)
	s.mux.HandleFunc("GET /api/analysis/individual", s.handleIndividual)
	s.mux.HandleFunc("GET /api/analysis/overview", s.handleOverview)
	s.mux.HandleFunc("GET /api/analysis/overview/stream", s.handleOverviewStream)
	s.mux.HandleFunc("GET /api/analysis/overview/ws", s.handleOverviewWS)

	return s
}

// ServeHTTP applies the CORS middleware and dispatches to the mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.cors(s.mux).ServeHTTP(w, r)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := s.store.Tickers()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tickers == nil {
		tickers = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tickers": tickers})
}

func (s *Server) handleBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := s.store.Branches(r.URL.Query().Get("ticker"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if branches == nil {
		branches = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"branches": branches})
}

func (s *Server) handleIndividual(w http.ResponseWriter, r *http.Request) {
	branch := r.URL.Query().Get("branch")
	if branch == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "branch is required"})
		return
	}
	params, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.svc.Individual(branch, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	params, err := paramsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}

	rows, err := s.svc.Overview(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"branches": rows})
}

// paramsFromQuery fills AnalysisParams from the query string, keeping the
// defaults for absent fields. Range checks happen in Validate, not here.
func paramsFromQuery(q url.Values) (model.AnalysisParams, error) {
	params := model.DefaultParams()

	if v := q.Get("slope_window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("%w: slope_window %q", model.ErrInvalidParameter, v)
		}
		params.SlopeWindow = n
	}
	if v := q.Get("pos_threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, fmt.Errorf("%w: pos_threshold %q", model.ErrInvalidParameter, v)
		}
		params.PosThreshold = f
	}
	if v := q.Get("neg_threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return params, fmt.Errorf("%w: neg_threshold %q", model.ErrInvalidParameter, v)
		}
		params.NegThreshold = f
	}
	if v := q.Get("signal_type"); v != "" {
		params.SignalType = model.SignalType(v)
	}

	return params, params.Validate()
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidParameter),
		errors.Is(err, model.ErrInsufficientData):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrTickerNotFound),
		errors.Is(err, model.ErrBranchNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}
