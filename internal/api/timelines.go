package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seantiz/choreo/internal/session"
)

const maxBodySize = 1 << 20 // 1 MB

// createTimelineRequest is the JSON body for POST /v1/timelines.
type createTimelineRequest struct {
	Name string `json:"name"`
}

// listTimelinesResponse wraps the session listing.
type listTimelinesResponse struct {
	Timelines []session.State `json:"timelines"`
	Total     int             `json:"total"`
}

func (s *Server) handleCreateTimeline(w http.ResponseWriter, r *http.Request) {
	var req createTimelineRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	sess := s.sessions.Create(req.Name)
	s.writeJSON(w, http.StatusCreated, sess.State())
}

func (s *Server) handleListTimelines(w http.ResponseWriter, r *http.Request) {
	sessions := s.sessions.List()

	states := make([]session.State, len(sessions))
	for i, sess := range sessions {
		states[i] = sess.State()
	}

	s.writeJSON(w, http.StatusOK, listTimelinesResponse{
		Timelines: states,
		Total:     len(states),
	})
}

func (s *Server) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "timeline not found")
		return
	}
	s.writeJSON(w, http.StatusOK, sess.State())
}

func (s *Server) handleDeleteTimeline(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "id")) {
		s.writeError(w, http.StatusNotFound, "timeline not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookupSession resolves the {id} route param, writing a 404 when absent.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "timeline not found")
		return nil, false
	}
	return sess, true
}

// writeJSON writes v as a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response with the given status code.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
