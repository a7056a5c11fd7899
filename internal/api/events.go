package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seantiz/choreo/internal/model"
)

func (s *Server) handleStreamEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	// Set SSE headers.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Disable write timeout for long-lived SSE connections.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		s.logger.Error("set write deadline for SSE", "error", err)
	}

	// Subscribe to the session's event stream. This is safe even if the
	// session is deleted between lookup and this call — Subscribe on a closed
	// topic returns a closed channel, causing the loop below to exit.
	ch, unsub := s.sessions.Broker().Subscribe(sess.ID())
	defer unsub()

	w.WriteHeader(http.StatusOK)
	flusher, canFlush := w.(http.Flusher)
	if canFlush {
		flusher.Flush()
	}

	for {
		select {
		case e, open := <-ch:
			if !open {
				// Session deleted; send explicit done event before closing.
				_ = writeSSEEvent(w, "done", "stream complete")
				if canFlush {
					flusher.Flush()
				}
				return
			}
			if err := writeSSEData(w, e); err != nil {
				return // Write failed (e.g. client gone).
			}
			if canFlush {
				flusher.Flush()
			}
		case <-r.Context().Done():
			return // Client disconnected.
		}
	}
}

// eventHistoryResponse is the JSON response for GET /v1/timelines/:id/events/history.
type eventHistoryResponse struct {
	TimelineID string        `json:"timeline_id"`
	Events     []model.Event `json:"events"`
}

func (s *Server) handleGetEventHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.sessions.Get(id); !ok {
		s.writeError(w, http.StatusNotFound, "timeline not found")
		return
	}

	events, err := s.events.GetEvents(r.Context(), id)
	if err != nil {
		s.logger.Error("get event history", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get event history")
		return
	}

	if events == nil {
		events = []model.Event{}
	}

	s.writeJSON(w, http.StatusOK, eventHistoryResponse{
		TimelineID: id,
		Events:     events,
	})
}

// writeSSEData writes an event as an SSE data payload, JSON-encoded on a
// single line.
func writeSSEData(w http.ResponseWriter, e model.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

// writeSSEEvent writes a typed SSE event with a data payload.
func writeSSEEvent(w http.ResponseWriter, eventType, data string) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, data)
	return err
}
