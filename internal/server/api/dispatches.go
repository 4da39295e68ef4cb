package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/christmasmagic/internal/store"
)

// DispatchHandler serves the dispatch journal.
type DispatchHandler struct {
	store *store.Store
}

// NewDispatchHandler creates a new DispatchHandler with the given store.
func NewDispatchHandler(s *store.Store) *DispatchHandler {
	return &DispatchHandler{store: s}
}

// ServeHTTP routes /api/dispatches and /api/dispatches/counts.
func (h *DispatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/dispatches")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		h.list(w, r)
	case "counts":
		h.counts(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

type listDispatchesResponse struct {
	Dispatches []*store.Dispatch `json:"dispatches"`
}

type countsResponse struct {
	SessionID string         `json:"session_id,omitempty"`
	Counts    map[string]int `json:"counts"`
}

// list handles GET /api/dispatches?limit=n, newest first.
func (h *DispatchHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	dispatches, err := h.store.Dispatches().ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list dispatches")
		return
	}
	if dispatches == nil {
		dispatches = []*store.Dispatch{}
	}

	writeJSON(w, http.StatusOK, listDispatchesResponse{Dispatches: dispatches})
}

// counts handles GET /api/dispatches/counts?session=id. Without a session
// the counts cover the whole journal.
func (h *DispatchHandler) counts(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	counts, err := h.store.Dispatches().CountByGesture(sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count dispatches")
		return
	}

	writeJSON(w, http.StatusOK, countsResponse{SessionID: sessionID, Counts: counts})
}
