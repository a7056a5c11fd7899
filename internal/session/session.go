package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/seantiz/choreo/internal/model"
	"github.com/seantiz/choreo/internal/store"
	"github.com/seantiz/choreo/internal/timeline"
)

// Navigation op constants.
const (
	NavBeginning  = "beginning"
	NavEnd        = "end"
	NavTime       = "time"
	NavRangeStart = "range-start"
	NavNext       = "next"
	NavPrevious   = "previous"
)

// ErrUnknownNavigationOp is returned when a navigation op is not recognized.
var ErrUnknownNavigationOp = errors.New("unknown navigation op")

// Session owns a single timeline and serializes all access to it. The
// timeline's callbacks execute inside the session lock; they publish events to
// the broker and append them to the audit store.
type Session struct {
	id        string
	name      string
	createdAt time.Time

	mu  sync.Mutex
	tl  *timeline.Timeline
	seq int

	broker *Broker
	events store.EventStore
	logger *slog.Logger
}

// State is a point-in-time snapshot of a session's clock.
type State struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	CurrentTime float64     `json:"current_time"`
	Duration    float64     `json:"duration"`
	Progress    float64     `json:"progress"`
	Paused      bool        `json:"paused"`
	AtBeginning bool        `json:"at_beginning"`
	AtEnd       bool        `json:"at_end"`
	Loop        *LoopWindow `json:"loop,omitempty"`
	RangeCount  int         `json:"range_count"`
	CreatedAt   time.Time   `json:"created_at"`
}

// LoopWindow is the configured wraparound window.
type LoopWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// RangeState is a point-in-time snapshot of a single block.
type RangeState struct {
	Name      string  `json:"name"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
	EndTime   float64 `json:"end_time"`
	Active    bool    `json:"active"`
	Progress  float64 `json:"progress"`
	Context   any     `json:"context,omitempty"`
}

func newSession(id, name string, broker *Broker, events store.EventStore, logger *slog.Logger) *Session {
	s := &Session{
		id:        id,
		name:      name,
		createdAt: time.Now().UTC(),
		tl:        timeline.New(),
		broker:    broker,
		events:    events,
		logger:    logger,
	}
	s.tl.SetCompletionCallback(func() {
		s.dispatch(model.EventCompleted, "", 1)
	})
	return s
}

// ID returns the session's ULID.
func (s *Session) ID() string { return s.id }

// Name returns the session's human-readable name.
func (s *Session) Name() string { return s.name }

// dispatch records one callback invocation: persist, publish, count. It runs
// inside the update pass with the session lock already held.
func (s *Session) dispatch(eventType, rangeName string, progress float64) {
	e := model.Event{
		SessionID: s.id,
		Seq:       s.seq,
		Type:      eventType,
		Range:     rangeName,
		Progress:  progress,
		AtTime:    s.tl.CurrentTime(),
		CreatedAt: time.Now().UTC(),
	}
	s.seq++

	// Audit writes must never break the update pass; log and continue.
	if err := s.events.InsertEvent(context.Background(), &e); err != nil {
		s.logger.Error("persist event", "session_id", s.id, "seq", e.Seq, "error", err)
	}
	s.broker.Publish(s.id, e)
	eventsTotal.WithLabelValues(eventType).Inc()
}

// State returns a snapshot of the session's clock.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	st := State{
		ID:          s.id,
		Name:        s.name,
		CurrentTime: s.tl.CurrentTime(),
		Duration:    s.tl.Duration(),
		Progress:    s.tl.Progress(),
		Paused:      s.tl.IsPaused(),
		AtBeginning: s.tl.IsAtBeginning(),
		AtEnd:       s.tl.IsAtEnd(),
		RangeCount:  s.tl.Len(),
		CreatedAt:   s.createdAt,
	}
	if start, end, ok := s.tl.LoopRange(); ok {
		st.Loop = &LoopWindow{Start: start, End: end}
	}
	return st
}

// AddRange registers a range on the session's timeline with the session's
// event-dispatching progress callback attached. When appendToEnd is set the
// range chains after the current timeline end and start is ignored. Returns
// the created range's snapshot, or false when the engine rejects the range
// (zero duration).
func (s *Session) AddRange(name string, start, duration float64, appendToEnd bool, context any) (RangeState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn := func(b *timeline.Block, progress float64) {
		s.dispatch(model.EventProgress, b.Name(), progress)
	}

	var b *timeline.Block
	if appendToEnd {
		b = s.tl.AppendRange(name, duration, fn, context)
	} else {
		b = s.tl.AddRange(name, start, duration, fn, context)
	}
	if b == nil {
		return RangeState{}, false
	}
	return snapshotBlock(b), true
}

// RemoveRange deletes the named range; a no-op for unknown names.
func (s *Session) RemoveRange(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tl.RemoveRange(name)
}

// Range returns a snapshot of the named range.
func (s *Session) Range(name string) (RangeState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.tl.Range(name)
	if b == nil {
		return RangeState{}, false
	}
	return snapshotBlock(b), true
}

// Ranges returns snapshots of every registered range, sorted by start time
// then name for a stable API response.
func (s *Session) Ranges() []RangeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortRanges(s.tl.Ranges())
}

// RangesAt returns snapshots of the ranges containing t, optionally only the
// active ones relative to the current clock.
func (s *Session) RangesAt(t float64, activeOnly bool) []RangeState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var filter timeline.Filter
	if activeOnly {
		filter = func(b *timeline.Block) bool { return b.Active() }
	}
	return sortRanges(s.tl.RangesAt(t, filter))
}

// Advance moves the clock by dt and returns the resulting state.
func (s *Session) Advance(dt float64) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tl.Advance(dt)
	clockUpdatesTotal.WithLabelValues("advance").Inc()
	return s.stateLocked()
}

// Seek sets the clock to an absolute time and returns the resulting state.
func (s *Session) Seek(t float64) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tl.SeekTo(t)
	clockUpdatesTotal.WithLabelValues("seek").Inc()
	return s.stateLocked()
}

// SetPaused toggles the clock's pause gate.
func (s *Session) SetPaused(paused bool) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tl.SetPaused(paused)
	return s.stateLocked()
}

// Reset clears all ranges and returns the clock to zero.
func (s *Session) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tl.Reset()
	clockUpdatesTotal.WithLabelValues("reset").Inc()
	return s.stateLocked()
}

// SetLoop configures the wraparound window.
func (s *Session) SetLoop(start, end float64) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tl.SetLoopRange(start, end)
	return s.stateLocked()
}

// RemoveLoop disables looping.
func (s *Session) RemoveLoop() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tl.RemoveLoopRange()
	return s.stateLocked()
}

// Navigate performs a direct clock jump. The engine's bypass semantics apply:
// no update pass runs and no events are dispatched. rangeName applies to
// range-start; t applies to time; namePrefix optionally filters next/previous
// candidates. Reports whether the clock moved.
func (s *Session) Navigate(op, rangeName, namePrefix string, t float64) (bool, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var filter timeline.Filter
	if namePrefix != "" {
		filter = func(b *timeline.Block) bool {
			return strings.HasPrefix(b.Name(), namePrefix)
		}
	}

	moved := true
	switch op {
	case NavBeginning:
		s.tl.GoToBeginning()
	case NavEnd:
		s.tl.GoToEnd()
	case NavTime:
		s.tl.GoToTime(t)
	case NavRangeStart:
		moved = s.tl.GoToStartOfRange(rangeName)
	case NavNext:
		moved = s.tl.GoToNextRange(filter)
	case NavPrevious:
		moved = s.tl.GoToPreviousRange(filter)
	default:
		return false, s.stateLocked(), ErrUnknownNavigationOp
	}

	clockUpdatesTotal.WithLabelValues("navigate").Inc()
	return moved, s.stateLocked(), nil
}

func snapshotBlock(b *timeline.Block) RangeState {
	return RangeState{
		Name:      b.Name(),
		StartTime: b.StartTime(),
		Duration:  b.Duration(),
		EndTime:   b.EndTime(),
		Active:    b.Active(),
		Progress:  b.Progress(),
		Context:   b.Context(),
	}
}

func sortRanges(blocks map[string]*timeline.Block) []RangeState {
	states := make([]RangeState, 0, len(blocks))
	for _, b := range blocks {
		states = append(states, snapshotBlock(b))
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].StartTime != states[j].StartTime {
			return states[i].StartTime < states[j].StartTime
		}
		return states[i].Name < states[j].Name
	})
	return states
}
