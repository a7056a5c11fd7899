package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/seantiz/choreo/internal/session"
)

// addRangeRequest is the JSON body for POST /v1/timelines/{id}/ranges.
// When append is set the range chains after the current timeline end and
// start_time is ignored.
type addRangeRequest struct {
	Name      string          `json:"name"`
	StartTime float64         `json:"start_time"`
	Duration  float64         `json:"duration"`
	Append    bool            `json:"append"`
	Context   json.RawMessage `json:"context"`
}

// listRangesResponse wraps a range listing.
type listRangesResponse struct {
	TimelineID string               `json:"timeline_id"`
	Ranges     []session.RangeState `json:"ranges"`
	Total      int                  `json:"total"`
}

func (s *Server) handleAddRange(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req addRangeRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var context any
	if len(req.Context) > 0 {
		context = req.Context
	}

	rs, ok := sess.AddRange(req.Name, req.StartTime, req.Duration, req.Append, context)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "duration must be non-zero")
		return
	}

	s.writeJSON(w, http.StatusCreated, rs)
}

func (s *Server) handleListRanges(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"

	var ranges []session.RangeState
	if at := r.URL.Query().Get("at"); at != "" {
		t, err := strconv.ParseFloat(at, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid at parameter")
			return
		}
		ranges = sess.RangesAt(t, activeOnly)
	} else if activeOnly {
		ranges = sess.RangesAt(sess.State().CurrentTime, true)
	} else {
		ranges = sess.Ranges()
	}

	if ranges == nil {
		ranges = []session.RangeState{}
	}

	s.writeJSON(w, http.StatusOK, listRangesResponse{
		TimelineID: sess.ID(),
		Ranges:     ranges,
		Total:      len(ranges),
	})
}

func (s *Server) handleGetRange(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	rs, ok := sess.Range(chi.URLParam(r, "name"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "range not found")
		return
	}
	s.writeJSON(w, http.StatusOK, rs)
}

func (s *Server) handleRemoveRange(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	// Removal of an unknown range is a silent no-op in the engine; surface
	// 204 either way to keep the handler idempotent.
	sess.RemoveRange(chi.URLParam(r, "name"))
	w.WriteHeader(http.StatusNoContent)
}
