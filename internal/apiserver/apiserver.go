// Package apiserver exposes the Core API surface of §6 over HTTP using
// Go 1.22's method-pattern ServeMux, the same routing style as
// shaban-rackless/server.go's setupRoutes, and the same JSON
// request/response + CORS middleware conventions.
package apiserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shaban/rackless/internal/debug"
	"github.com/shaban/rackless/internal/logx"
	"github.com/shaban/rackless/pkg/orchestrator"
)

// Server wires the Core API onto an http.ServeMux.
type Server struct {
	orch *orchestrator.Orchestrator
	log  *logx.Logger
}

// New builds a Server for the given Orchestrator.
func New(orch *orchestrator.Orchestrator, log *logx.Logger) *Server {
	return &Server{orch: orch, log: log}
}

// Routes builds the ServeMux and wraps it in the CORS middleware, mirroring
// setupRoutes + corsMiddleware in the teacher's server.go.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /slots", s.handleListSlots)
	mux.HandleFunc("POST /slots", s.handleAddSlot)
	mux.HandleFunc("DELETE /slots/{label}", s.handleRemoveSlot)
	mux.HandleFunc("POST /slots/{label}/replace", s.handleReplaceSlot)
	mux.HandleFunc("POST /slots/{from}/move/{to}", s.handleMoveSlot)
	mux.HandleFunc("POST /slots/{label}/param", s.handleSetParam)
	mux.HandleFunc("POST /slots/{label}/bypass", s.handleSetBypass)
	mux.HandleFunc("POST /clear", s.handleClear)
	mux.HandleFunc("GET /debug", s.handleDebug)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing left to do but log.
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleListSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Slots())
}

type addSlotRequest struct {
	URI      string `json:"uri"`
	Position *int   `json:"position,omitempty"`
}

func (s *Server) handleAddSlot(w http.ResponseWriter, r *http.Request) {
	var req addSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	view, err := s.orch.RequestAdd(req.URI, req.Position)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleRemoveSlot(w http.ResponseWriter, r *http.Request) {
	label := r.PathValue("label")
	if err := s.orch.RequestRemove(label); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type replaceSlotRequest struct {
	URI string `json:"uri"`
}

func (s *Server) handleReplaceSlot(w http.ResponseWriter, r *http.Request) {
	label := r.PathValue("label")
	var req replaceSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	view, err := s.orch.RequestReplace(label, req.URI)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleMoveSlot(w http.ResponseWriter, r *http.Request) {
	from, err := strconv.Atoi(r.PathValue("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := strconv.Atoi(r.PathValue("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.orch.RequestMove(from, to); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type setParamRequest struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
}

func (s *Server) handleSetParam(w http.ResponseWriter, r *http.Request) {
	label := r.PathValue("label")
	var req setParamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.orch.RequestSetParam(label, req.Symbol, req.Value); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type setBypassRequest struct {
	Bypassed bool `json:"bypassed"`
}

func (s *Server) handleSetBypass(w http.ResponseWriter, r *http.Request) {
	label := r.PathValue("label")
	var req setBypassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.orch.RequestSetBypass(label, req.Bypassed); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.orch.RequestClear(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(debug.RenderHTML(debug.SnapshotOf(s.orch))))
}
