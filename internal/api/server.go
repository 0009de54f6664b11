// Package api exposes the research service over HTTP and WebSocket. It is
// a thin façade: every handler validates its request, delegates to the
// task manager, and shapes the response to the documented contract. No
// business logic lives here.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"deepresearch/internal/domain"
	"deepresearch/internal/orchestrator"
	"deepresearch/internal/progress"
	"deepresearch/internal/taskmanager"
)

const version = "0.1.0"

// ProviderHealth reports whether a collaborator is reachable.
type ProviderHealth struct {
	ModelClient func() bool
	Searcher    func() bool
}

// Server wires the task manager and progress bus to HTTP handlers.
type Server struct {
	tasks     *taskmanager.Manager
	bus       *progress.Bus
	providers ProviderHealth
	upgrader  websocket.Upgrader

	mu          sync.RWMutex
	lastHealth  healthResponse
	lastChecked time.Time
}

type healthResponse struct {
	Status    string          `json:"status"`
	Version   string          `json:"version"`
	Providers map[string]bool `json:"providers"`
}

func NewServer(tasks *taskmanager.Manager, bus *progress.Bus, providers ProviderHealth) *Server {
	return &Server{
		tasks:     tasks,
		bus:       bus,
		providers: providers,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/research", s.handleResearch)
	mux.HandleFunc("/deep-research", s.handleDeepResearch)
	mux.HandleFunc("/tasks/", s.handleTaskStatus)
	mux.HandleFunc("/reports/", s.handleReport)
	mux.HandleFunc("/deep-research/", s.handleDeepResearchResult)
	mux.HandleFunc("/ws/progress/", s.handleProgressWS)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type researchRequest struct {
	Query              string   `json:"query"`
	Scope              string   `json:"scope,omitempty"`
	MaxIterations      int      `json:"maxIterations,omitempty"`
	MinCompletionScore *float64 `json:"minCompletionScore,omitempty"`
	Budget             int      `json:"budget,omitempty"`
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, domain.KindSimple)
}

func (s *Server) handleDeepResearch(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, domain.KindDeep)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, kind string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	params := orchestrator.RunParams{
		Query:         req.Query,
		MaxIterations: req.MaxIterations,
		MinScore:      req.MinCompletionScore,
		Budget:        req.Budget,
	}

	taskID, err := s.tasks.Submit(r.Context(), req.Query, kind, params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to submit task")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"taskId": taskID, "status": domain.StatusAccepted})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	fresh := time.Since(s.lastChecked) < 30*time.Second
	cached := s.lastHealth
	s.mu.RUnlock()

	if fresh {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	providers := map[string]bool{}
	if s.providers.ModelClient != nil {
		providers["modelClient"] = s.providers.ModelClient()
	}
	if s.providers.Searcher != nil {
		providers["searcher"] = s.providers.Searcher()
	}

	resp := healthResponse{Status: "ok", Version: version, Providers: providers}

	s.mu.Lock()
	s.lastHealth = resp
	s.lastChecked = time.Now()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}
