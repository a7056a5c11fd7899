package timeline

// Navigation helpers jump the clock directly, with the same bypass semantics
// as GoToTime: no update pass runs and no callbacks fire. Each reports whether
// a target was found; the clock is left unchanged on failure.

// GoToStartOfRange jumps to the named block's start time.
func (tl *Timeline) GoToStartOfRange(name string) bool {
	b, ok := tl.blocks[name]
	if !ok {
		return false
	}
	tl.currentTime = b.startTime
	return true
}

// GoToNextRange jumps to the smallest block start time strictly after the
// current clock time, considering only filter-accepted blocks.
func (tl *Timeline) GoToNextRange(filter Filter) bool {
	var (
		found bool
		best  float64
	)
	for _, b := range tl.blocks {
		if b.startTime <= tl.currentTime {
			continue
		}
		if filter != nil && !filter(b) {
			continue
		}
		if !found || b.startTime < best {
			best = b.startTime
			found = true
		}
	}
	if found {
		tl.currentTime = best
	}
	return found
}

// GoToPreviousRange jumps to the largest start time among filter-accepted
// blocks that lie fully in the past: started before the current time and
// already ended (currentTime >= EndTime). A block that merely starts earlier
// but is still running does not qualify.
func (tl *Timeline) GoToPreviousRange(filter Filter) bool {
	var (
		found bool
		best  float64
	)
	for _, b := range tl.blocks {
		if b.startTime >= tl.currentTime || tl.currentTime < b.endTime {
			continue
		}
		if filter != nil && !filter(b) {
			continue
		}
		if !found || b.startTime > best {
			best = b.startTime
			found = true
		}
	}
	if found {
		tl.currentTime = best
	}
	return found
}
