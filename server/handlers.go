package server

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/aouyang1/go-pricecast"
	"github.com/aouyang1/go-pricecast/dashboard"
	"github.com/goccy/go-json"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("unable to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		slog.Debug("unable to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorBody{Error: err.Error()})
}

// ready returns the current result or writes a 503 when none exists yet
func (s *Server) ready(w http.ResponseWriter) (*pricecast.Result, bool) {
	res := s.Result()
	if res == nil {
		writeError(w, http.StatusServiceUnavailable, ErrNotReady)
		return nil, false
	}
	return res, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res := s.Result()
	if res == nil {
		http.Error(w, ErrNotReady.Error(), http.StatusServiceUnavailable)
		return
	}
	// buffered until rendering succeeds
	var buf bytes.Buffer
	if err := dashboard.Render(&buf, res, s.opt.Dashboard); err != nil {
		slog.Error("unable to render dashboard", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("unable to write dashboard", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Status())
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.ready(w); ok {
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.ready(w); ok {
		writeJSON(w, http.StatusOK, res.History)
	}
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.ready(w); ok {
		writeJSON(w, http.StatusOK, res.ForecastTable)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.ready(w); ok {
		writeJSON(w, http.StatusOK, res.Chart)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Refresh(r.Context()); err != nil {
		slog.Error("manual refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}
