package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seantiz/choreo/internal/session"
)

// advanceRequest is the JSON body for POST /v1/timelines/{id}/advance.
type advanceRequest struct {
	DT float64 `json:"dt"`
}

// seekRequest is the JSON body for POST /v1/timelines/{id}/seek.
type seekRequest struct {
	Time float64 `json:"time"`
}

// pauseRequest is the JSON body for POST /v1/timelines/{id}/pause.
type pauseRequest struct {
	Paused bool `json:"paused"`
}

// loopRequest is the JSON body for PUT /v1/timelines/{id}/loop.
type loopRequest struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// navigateRequest is the JSON body for POST /v1/timelines/{id}/navigate.
type navigateRequest struct {
	Op         string  `json:"op"`
	Range      string  `json:"range"`
	Time       float64 `json:"time"`
	NamePrefix string  `json:"name_prefix"`
}

// navigateResponse reports whether the jump landed and where the clock is now.
type navigateResponse struct {
	Moved bool          `json:"moved"`
	State session.State `json:"state"`
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req advanceRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.writeJSON(w, http.StatusOK, sess.Advance(req.DT))
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req seekRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.writeJSON(w, http.StatusOK, sess.Seek(req.Time))
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req pauseRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.writeJSON(w, http.StatusOK, sess.SetPaused(req.Paused))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Reset())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req navigateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	moved, state, err := sess.Navigate(req.Op, req.Range, req.NamePrefix, req.Time)
	if errors.Is(err, session.ErrUnknownNavigationOp) {
		s.writeError(w, http.StatusBadRequest, "unknown navigation op")
		return
	}
	if err != nil {
		s.logger.Error("navigate", "error", err)
		s.writeError(w, http.StatusInternalServerError, "navigation failed")
		return
	}

	s.writeJSON(w, http.StatusOK, navigateResponse{Moved: moved, State: state})
}

func (s *Server) handleSetLoop(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req loopRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.writeJSON(w, http.StatusOK, sess.SetLoop(req.Start, req.End))
}

func (s *Server) handleRemoveLoop(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.RemoveLoop())
}
