package api

import (
	"net/http"
)

// statsResponse is the JSON response for GET /v1/stats.
type statsResponse struct {
	LiveSessions int            `json:"live_sessions"`
	TotalEvents  int            `json:"total_events"`
	ByType       map[string]int `json:"by_type"`
	SeenSessions int            `json:"seen_sessions"`
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.events.GetEventStats(r.Context())
	if err != nil {
		s.logger.Error("get event stats", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	s.writeJSON(w, http.StatusOK, statsResponse{
		LiveSessions: len(s.sessions.List()),
		TotalEvents:  stats.Total,
		ByType:       stats.CountByType,
		SeenSessions: stats.Sessions,
	})
}
