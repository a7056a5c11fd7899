package timeline

// Timeline is a single linear clock with a registry of named ranges evaluated
// against it. It is not safe for concurrent use; an embedding layer that
// drives one Timeline from multiple goroutines must serialize access itself.
type Timeline struct {
	blocks      map[string]*Block
	currentTime float64
	duration    float64
	paused      bool

	loopStart *float64
	loopEnd   *float64

	onCompletion CompletionFunc
}

// New creates an empty, unpaused Timeline at time 0 with no loop window and
// no completion callback.
func New() *Timeline {
	return &Timeline{
		blocks: make(map[string]*Block),
	}
}

// CurrentTime returns the clock's current value.
func (tl *Timeline) CurrentTime() float64 { return tl.currentTime }

// Duration returns the timeline's total length: the maximum block end time,
// or 0 when no ranges are registered.
func (tl *Timeline) Duration() float64 { return tl.duration }

// SetPaused gates Advance and SeekTo. The direct jump helpers and all queries
// are unaffected.
func (tl *Timeline) SetPaused(paused bool) { tl.paused = paused }

// IsPaused reports whether the clock is paused.
func (tl *Timeline) IsPaused() bool { return tl.paused }

// SetCompletionCallback installs fn to fire once per crossing of the timeline
// end from a different prior time. A nil fn removes the callback.
func (tl *Timeline) SetCompletionCallback(fn CompletionFunc) {
	tl.onCompletion = fn
}

// Advance moves the clock forward (or backward, for negative dt) by dt,
// clamped to [0, Duration], and runs the update pass. No-op while paused.
func (tl *Timeline) Advance(dt float64) {
	if tl.paused {
		return
	}
	previous := tl.currentTime
	tl.currentTime = clamp(previous+dt, 0, tl.duration)
	tl.update(previous)
}

// SeekTo sets the clock to an absolute time, clamped to [0, Duration], and
// runs the update pass. No-op while paused.
func (tl *Timeline) SeekTo(t float64) {
	if tl.paused {
		return
	}
	previous := tl.currentTime
	tl.currentTime = clamp(t, 0, tl.duration)
	tl.update(previous)
}

// Reset removes every range, dropping the duration to 0, and returns the
// clock to 0 without running an update pass. Pause state, loop window, and
// the completion callback are untouched.
func (tl *Timeline) Reset() {
	tl.RemoveAllRanges()
	tl.currentTime = 0
}

// GoToBeginning jumps the clock straight to 0. It ignores pause and does not
// run the update pass; the caller reconciles blocks with a later Advance or
// SeekTo.
func (tl *Timeline) GoToBeginning() {
	tl.currentTime = 0
}

// GoToEnd jumps the clock straight to the timeline end. Same bypass semantics
// as GoToBeginning.
func (tl *Timeline) GoToEnd() {
	tl.currentTime = tl.duration
}

// GoToTime jumps the clock straight to t. Same bypass semantics as
// GoToBeginning.
func (tl *Timeline) GoToTime(t float64) {
	tl.currentTime = t
}

// IsAtBeginning reports whether global progress is exactly 0.
func (tl *Timeline) IsAtBeginning() bool { return tl.Progress() == 0 }

// IsAtEnd reports whether global progress is exactly 1.
func (tl *Timeline) IsAtEnd() bool { return tl.Progress() == 1 }

// Progress returns the clock's normalized position over the whole timeline,
// in [0, 1]. An empty timeline reports 0 rather than dividing by zero.
func (tl *Timeline) Progress() float64 {
	if tl.duration == 0 {
		return 0
	}
	return clamp(tl.currentTime/tl.duration, 0, 1)
}

// SetLoopRange configures a wraparound window: when an update pass begins with
// the clock at or past end, the clock jumps to start before blocks are
// evaluated. Takes effect on the next update pass.
func (tl *Timeline) SetLoopRange(start, end float64) {
	tl.loopStart = &start
	tl.loopEnd = &end
}

// RemoveLoopRange disables looping.
func (tl *Timeline) RemoveLoopRange() {
	tl.loopStart = nil
	tl.loopEnd = nil
}

// LoopRange returns the loop window bounds and whether looping is enabled.
func (tl *Timeline) LoopRange() (start, end float64, ok bool) {
	if tl.loopStart == nil || tl.loopEnd == nil {
		return 0, 0, false
	}
	return *tl.loopStart, *tl.loopEnd, true
}

// AddRange registers a block named name spanning [start, start+duration),
// replacing any existing block under the same name, and recomputes the
// timeline duration. A zero duration is rejected and nil is returned; no
// other validation is applied — negative times and overlapping ranges are
// permitted and tracked independently. The returned block reflects its
// initial state (progress 0, inactive) until the next update pass.
func (tl *Timeline) AddRange(name string, start, duration float64, fn ProgressFunc, context any) *Block {
	if duration == 0 {
		return nil
	}

	b := &Block{
		name:      name,
		startTime: start,
		duration:  duration,
		endTime:   start + duration,
		callback:  fn,
		context:   context,
	}
	tl.blocks[name] = b
	tl.recomputeDuration()
	return b
}

// AppendRange registers a block chained immediately after the current end of
// the timeline, using the duration before this call as its start.
func (tl *Timeline) AppendRange(name string, duration float64, fn ProgressFunc, context any) *Block {
	return tl.AddRange(name, tl.duration, duration, fn, context)
}

// RemoveRange deletes the named block if present and recomputes the duration.
// No-op for unknown names.
func (tl *Timeline) RemoveRange(name string) {
	if _, ok := tl.blocks[name]; !ok {
		return
	}
	delete(tl.blocks, name)
	tl.recomputeDuration()
}

// RemoveAllRanges clears the registry and drops the duration to 0.
func (tl *Timeline) RemoveAllRanges() {
	clear(tl.blocks)
	tl.recomputeDuration()
}

// Range returns the named block, or nil if not registered.
func (tl *Timeline) Range(name string) *Block {
	return tl.blocks[name]
}

// IsRangeActive reports the named block's active flag; false for unknown names.
func (tl *Timeline) IsRangeActive(name string) bool {
	b, ok := tl.blocks[name]
	if !ok {
		return false
	}
	return b.active
}

// RangeProgress returns the named block's progress; 0 for unknown names.
func (tl *Timeline) RangeProgress(name string) float64 {
	b, ok := tl.blocks[name]
	if !ok {
		return 0
	}
	return b.progress
}

// RangesAt returns the blocks whose interval contains t, keyed by name and
// optionally narrowed by filter. Iteration order over the result is not
// specified.
func (tl *Timeline) RangesAt(t float64, filter Filter) map[string]*Block {
	found := make(map[string]*Block)
	for name, b := range tl.blocks {
		if !b.contains(t) {
			continue
		}
		if filter != nil && !filter(b) {
			continue
		}
		found[name] = b
	}
	return found
}

// CurrentRanges returns the blocks containing the current clock time.
func (tl *Timeline) CurrentRanges(filter Filter) map[string]*Block {
	return tl.RangesAt(tl.currentTime, filter)
}

// Ranges returns every registered block keyed by name. The map is a copy;
// mutating it does not affect the registry.
func (tl *Timeline) Ranges() map[string]*Block {
	all := make(map[string]*Block, len(tl.blocks))
	for name, b := range tl.blocks {
		all[name] = b
	}
	return all
}

// Len returns the number of registered ranges.
func (tl *Timeline) Len() int { return len(tl.blocks) }

// update is the reconciliation pass behind Advance and SeekTo. previousTime
// is the clock value before the operation; it gates the completion edge.
func (tl *Timeline) update(previousTime float64) {
	// Loop wraparound is a hard jump: blocks are evaluated against the
	// post-jump time only and never observe the skipped interval.
	if tl.loopStart != nil && tl.loopEnd != nil && tl.currentTime >= *tl.loopEnd {
		tl.currentTime = *tl.loopStart
	}

	// Each block depends only on its own progress, so map order across
	// blocks is unobservable.
	for _, b := range tl.blocks {
		previous := b.progress

		switch {
		case b.contains(tl.currentTime):
			b.progress = clamp((tl.currentTime-b.startTime)/b.duration, 0, 1)
			b.active = true
		case tl.currentTime >= b.endTime:
			b.progress = 1
			b.active = false
		default:
			b.progress = 0
			b.active = false
		}

		b.progressChanged = b.progress != previous
		if b.progressChanged && b.callback != nil {
			b.callback(b, b.progress)
		}
	}

	if tl.onCompletion != nil && tl.currentTime != previousTime && tl.currentTime >= tl.duration {
		tl.onCompletion()
	}
}

// recomputeDuration refreshes the derived total duration after any registry
// change.
func (tl *Timeline) recomputeDuration() {
	var max float64
	for _, b := range tl.blocks {
		if b.endTime > max {
			max = b.endTime
		}
	}
	tl.duration = max
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
