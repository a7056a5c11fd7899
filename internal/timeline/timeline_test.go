package timeline_test

import (
	"testing"

	"github.com/seantiz/choreo/internal/timeline"
)

// progressRecorder captures progress callback invocations for assertions.
type progressRecorder struct {
	names    []string
	values   []float64
	contexts []any
}

func (r *progressRecorder) callback(b *timeline.Block, progress float64) {
	r.names = append(r.names, b.Name())
	r.values = append(r.values, progress)
	r.contexts = append(r.contexts, b.Context())
}

func (r *progressRecorder) count() int { return len(r.values) }

// checkRegion asserts the three-region invariant for a single block: exactly
// one of {progress 0 and inactive, strictly inside and active, progress 1 and
// inactive} holds, consistent with the clock position.
func checkRegion(t *testing.T, tl *timeline.Timeline, name string) {
	t.Helper()
	b := tl.Range(name)
	if b == nil {
		t.Fatalf("range %q not registered", name)
	}

	now := tl.CurrentTime()
	inside := b.StartTime() <= now && now < b.EndTime()
	if b.Active() != inside {
		t.Errorf("range %q: active = %v, want %v at t=%v", name, b.Active(), inside, now)
	}
	switch {
	case now < b.StartTime():
		if b.Progress() != 0 {
			t.Errorf("range %q: progress = %v before start, want 0", name, b.Progress())
		}
	case now >= b.EndTime():
		if b.Progress() != 1 {
			t.Errorf("range %q: progress = %v after end, want 1", name, b.Progress())
		}
	default:
		if b.Progress() < 0 || b.Progress() > 1 {
			t.Errorf("range %q: progress = %v, want within [0,1]", name, b.Progress())
		}
	}
}

func TestEmptyTimelineDefaults(t *testing.T) {
	tl := timeline.New()

	if tl.Duration() != 0 {
		t.Errorf("Duration = %v, want 0", tl.Duration())
	}
	if tl.CurrentTime() != 0 {
		t.Errorf("CurrentTime = %v, want 0", tl.CurrentTime())
	}
	if tl.IsPaused() {
		t.Error("new timeline should not be paused")
	}
	if got := tl.Progress(); got != 0 {
		t.Errorf("Progress on empty timeline = %v, want 0 (not NaN)", got)
	}
	if !tl.IsAtBeginning() {
		t.Error("empty timeline should report at beginning")
	}
	if tl.IsAtEnd() {
		t.Error("empty timeline should not report at end")
	}
}

func TestAddRangeZeroDurationRejected(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("base", 10, nil, nil)

	if b := tl.AddRange("degenerate", 0, 0, nil, nil); b != nil {
		t.Fatalf("AddRange with zero duration = %+v, want nil", b)
	}
	if tl.Duration() != 10 {
		t.Errorf("Duration = %v after rejected add, want 10", tl.Duration())
	}
	if tl.Range("degenerate") != nil {
		t.Error("rejected range should not be registered")
	}
}

func TestAddRangeOverwritesSameName(t *testing.T) {
	tl := timeline.New()
	tl.AddRange("scene", 0, 10, nil, nil)
	tl.AddRange("scene", 5, 20, nil, nil)

	b := tl.Range("scene")
	if b == nil {
		t.Fatal("range missing after overwrite")
	}
	if b.StartTime() != 5 || b.Duration() != 20 {
		t.Errorf("overwritten range = [%v, dur %v], want [5, dur 20]", b.StartTime(), b.Duration())
	}
	if tl.Duration() != 25 {
		t.Errorf("Duration = %v, want 25", tl.Duration())
	}
	if tl.Len() != 1 {
		t.Errorf("Len = %d, want 1", tl.Len())
	}
}

func TestAppendRangeChains(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("intro", 10, nil, nil)
	tl.AppendRange("body", 20, nil, nil)

	if tl.Duration() != 30 {
		t.Fatalf("Duration = %v, want 30", tl.Duration())
	}

	tl.SeekTo(15)

	if got := tl.RangeProgress("intro"); got != 1.0 {
		t.Errorf("intro progress = %v, want 1.0", got)
	}
	if got := tl.RangeProgress("body"); got != 0.25 {
		t.Errorf("body progress = %v, want 0.25", got)
	}
	if !tl.IsRangeActive("body") {
		t.Error("body should be active at t=15")
	}
	if tl.IsRangeActive("intro") {
		t.Error("intro should be inactive at t=15")
	}
	checkRegion(t, tl, "intro")
	checkRegion(t, tl, "body")
}

func TestRemoveRangeRecomputesDuration(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("intro", 10, nil, nil)
	tl.AppendRange("body", 20, nil, nil)

	tl.RemoveRange("body")
	if tl.Duration() != 10 {
		t.Errorf("Duration = %v after removal, want 10", tl.Duration())
	}

	// Unknown names are a silent no-op.
	tl.RemoveRange("missing")
	if tl.Duration() != 10 {
		t.Errorf("Duration = %v after no-op removal, want 10", tl.Duration())
	}

	tl.RemoveAllRanges()
	if tl.Duration() != 0 {
		t.Errorf("Duration = %v after RemoveAllRanges, want 0", tl.Duration())
	}
}

func TestUnknownRangeDefaults(t *testing.T) {
	tl := timeline.New()

	if tl.Range("ghost") != nil {
		t.Error("Range on unknown name should return nil")
	}
	if tl.IsRangeActive("ghost") {
		t.Error("IsRangeActive on unknown name should be false")
	}
	if got := tl.RangeProgress("ghost"); got != 0 {
		t.Errorf("RangeProgress on unknown name = %v, want 0", got)
	}
}

func TestAdvanceClampsAndUpdates(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("scene", 10, nil, nil)

	tl.Advance(-5)
	if tl.CurrentTime() != 0 {
		t.Errorf("CurrentTime = %v after negative advance from 0, want 0", tl.CurrentTime())
	}

	tl.Advance(4)
	if tl.CurrentTime() != 4 {
		t.Errorf("CurrentTime = %v, want 4", tl.CurrentTime())
	}
	if got := tl.RangeProgress("scene"); got != 0.4 {
		t.Errorf("scene progress = %v, want 0.4", got)
	}

	tl.Advance(100)
	if tl.CurrentTime() != 10 {
		t.Errorf("CurrentTime = %v after overshoot, want clamped to 10", tl.CurrentTime())
	}
	checkRegion(t, tl, "scene")
}

func TestMonotonicProgress(t *testing.T) {
	tl := timeline.New()
	tl.AddRange("scene", 2, 8, nil, nil)

	last := -1.0
	for i := 0; i < 20; i++ {
		tl.Advance(0.5)
		p := tl.RangeProgress("scene")
		if p < last {
			t.Fatalf("progress decreased from %v to %v at t=%v", last, p, tl.CurrentTime())
		}
		last = p
		checkRegion(t, tl, "scene")
	}
	if last != 1 {
		t.Errorf("final progress = %v, want 1", last)
	}
}

func TestProgressCallbackFiresOnChange(t *testing.T) {
	tl := timeline.New()
	rec := &progressRecorder{}
	tl.AddRange("scene", 0, 10, rec.callback, "payload")

	tl.SeekTo(5)
	if rec.count() != 1 {
		t.Fatalf("callback fired %d times, want 1", rec.count())
	}
	if rec.values[0] != 0.5 {
		t.Errorf("callback progress = %v, want 0.5", rec.values[0])
	}
	if rec.contexts[0] != "payload" {
		t.Errorf("callback context = %v, want %q", rec.contexts[0], "payload")
	}

	// Identical seek changes nothing, so no callback.
	tl.SeekTo(5)
	if rec.count() != 1 {
		t.Errorf("callback fired %d times after idempotent seek, want still 1", rec.count())
	}
}

func TestRangeAddedInThePastFiresOnce(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("long", 100, nil, nil)
	tl.SeekTo(50)

	rec := &progressRecorder{}
	tl.AddRange("early", 0, 10, rec.callback, nil)

	// First pass after creation: progress jumps 0 -> 1, inactive.
	tl.Advance(1)
	if rec.count() != 1 {
		t.Fatalf("callback fired %d times, want 1", rec.count())
	}
	if rec.values[0] != 1 {
		t.Errorf("callback progress = %v, want 1", rec.values[0])
	}
	if tl.IsRangeActive("early") {
		t.Error("past range should be inactive")
	}

	// Further advancing does not re-fire: progress stays pinned at 1.
	tl.Advance(1)
	if rec.count() != 1 {
		t.Errorf("callback fired %d times after pinning, want still 1", rec.count())
	}
}

func TestOverlappingRangesTrackedIndependently(t *testing.T) {
	tl := timeline.New()
	tl.AddRange("a", 0, 10, nil, nil)
	tl.AddRange("b", 5, 10, nil, nil)

	tl.SeekTo(7)

	if !tl.IsRangeActive("a") || !tl.IsRangeActive("b") {
		t.Error("both overlapping ranges should be active at t=7")
	}
	if got := tl.RangeProgress("a"); got != 0.7 {
		t.Errorf("a progress = %v, want 0.7", got)
	}
	if got := tl.RangeProgress("b"); got != 0.2 {
		t.Errorf("b progress = %v, want 0.2", got)
	}
}

func TestNegativeStartTimePermitted(t *testing.T) {
	tl := timeline.New()
	b := tl.AddRange("pre", -5, 10, nil, nil)
	if b == nil {
		t.Fatal("negative start time should not be rejected")
	}
	if b.EndTime() != 5 {
		t.Errorf("EndTime = %v, want 5", b.EndTime())
	}
	if tl.Duration() != 5 {
		t.Errorf("Duration = %v, want 5", tl.Duration())
	}

	// Clock starts at 0, already inside the block.
	tl.Advance(0)
	if !tl.IsRangeActive("pre") {
		t.Error("block straddling 0 should be active at t=0")
	}
}

func TestPauseGatesClockOperations(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("scene", 10, nil, nil)
	tl.SeekTo(3)

	tl.SetPaused(true)
	if !tl.IsPaused() {
		t.Fatal("IsPaused = false after SetPaused(true)")
	}

	tl.Advance(2)
	tl.SeekTo(8)
	if tl.CurrentTime() != 3 {
		t.Errorf("CurrentTime = %v while paused, want unchanged 3", tl.CurrentTime())
	}

	// Direct jumps bypass the pause gate.
	tl.GoToEnd()
	if tl.CurrentTime() != 10 {
		t.Errorf("CurrentTime = %v after GoToEnd while paused, want 10", tl.CurrentTime())
	}

	tl.SetPaused(false)
	tl.SeekTo(8)
	if tl.CurrentTime() != 8 {
		t.Errorf("CurrentTime = %v after unpause, want 8", tl.CurrentTime())
	}
}

func TestDirectJumpsSkipUpdatePass(t *testing.T) {
	tl := timeline.New()
	rec := &progressRecorder{}
	tl.AddRange("scene", 0, 10, rec.callback, nil)

	tl.GoToTime(5)
	tl.GoToEnd()
	tl.GoToBeginning()
	if rec.count() != 0 {
		t.Errorf("callbacks fired %d times on direct jumps, want 0", rec.count())
	}
	if got := tl.RangeProgress("scene"); got != 0 {
		t.Errorf("scene progress = %v without update pass, want stale 0", got)
	}

	// The next scheduled seek reconciles.
	tl.SeekTo(5)
	if rec.count() != 1 {
		t.Errorf("callbacks fired %d times after reconciling seek, want 1", rec.count())
	}
}

func TestGlobalProgressAndEndpoints(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("scene", 20, nil, nil)

	if !tl.IsAtBeginning() {
		t.Error("should be at beginning at t=0")
	}

	tl.SeekTo(5)
	if got := tl.Progress(); got != 0.25 {
		t.Errorf("Progress = %v, want 0.25", got)
	}
	if tl.IsAtBeginning() || tl.IsAtEnd() {
		t.Error("mid-timeline should be neither at beginning nor at end")
	}

	tl.GoToEnd()
	if !tl.IsAtEnd() {
		t.Error("should be at end after GoToEnd")
	}
}

func TestCompletionCallbackEdges(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("scene", 10, nil, nil)

	fired := 0
	tl.SetCompletionCallback(func() { fired++ })

	tl.SeekTo(10)
	if fired != 1 {
		t.Fatalf("completion fired %d times after reaching end, want 1", fired)
	}

	// Same end time again: previous time equals current, no re-fire.
	tl.SeekTo(10)
	if fired != 1 {
		t.Errorf("completion fired %d times after idempotent seek, want still 1", fired)
	}

	// Move away and return: fires again.
	tl.SeekTo(5)
	tl.SeekTo(10)
	if fired != 2 {
		t.Errorf("completion fired %d times after round trip, want 2", fired)
	}
}

func TestCompletionFiresAfterBlockCallbacks(t *testing.T) {
	tl := timeline.New()

	var order []string
	tl.AppendRange("scene", 10, func(b *timeline.Block, _ float64) {
		order = append(order, "block")
	}, nil)
	tl.SetCompletionCallback(func() {
		order = append(order, "completion")
	})

	tl.SeekTo(10)

	if len(order) != 2 || order[0] != "block" || order[1] != "completion" {
		t.Errorf("dispatch order = %v, want [block completion]", order)
	}
}

func TestLoopWraparound(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("scene", 30, nil, nil)
	tl.SetLoopRange(5, 10)

	tl.SeekTo(9)
	tl.Advance(2)
	if tl.CurrentTime() != 5 {
		t.Errorf("CurrentTime = %v after loop wrap, want 5", tl.CurrentTime())
	}

	// Blocks are evaluated against the post-jump time.
	if got := tl.RangeProgress("scene"); got != 5.0/30.0 {
		t.Errorf("scene progress = %v, want %v", got, 5.0/30.0)
	}

	tl.RemoveLoopRange()
	tl.SeekTo(9)
	tl.Advance(2)
	if tl.CurrentTime() != 11 {
		t.Errorf("CurrentTime = %v with loop removed, want 11", tl.CurrentTime())
	}

	if _, _, ok := tl.LoopRange(); ok {
		t.Error("LoopRange should report disabled after removal")
	}
}

func TestLoopSuppressesCompletion(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("scene", 10, nil, nil)
	tl.SetLoopRange(0, 10)

	fired := 0
	tl.SetCompletionCallback(func() { fired++ })

	tl.SeekTo(10)
	if tl.CurrentTime() != 0 {
		t.Errorf("CurrentTime = %v, want wrapped to 0", tl.CurrentTime())
	}
	if fired != 0 {
		t.Errorf("completion fired %d times on a wrapped pass, want 0", fired)
	}
}

func TestResetClearsRangesKeepsConfiguration(t *testing.T) {
	tl := timeline.New()
	rec := &progressRecorder{}
	tl.AppendRange("scene", 10, rec.callback, nil)
	tl.SeekTo(5)

	fired := 0
	tl.SetCompletionCallback(func() { fired++ })
	tl.SetLoopRange(2, 8)
	tl.SetPaused(true)

	tl.Reset()

	if tl.Len() != 0 {
		t.Errorf("Len = %d after Reset, want 0", tl.Len())
	}
	if tl.Duration() != 0 {
		t.Errorf("Duration = %v after Reset, want 0", tl.Duration())
	}
	if tl.CurrentTime() != 0 {
		t.Errorf("CurrentTime = %v after Reset, want 0", tl.CurrentTime())
	}
	if !tl.IsPaused() {
		t.Error("Reset should not alter pause state")
	}
	if _, _, ok := tl.LoopRange(); !ok {
		t.Error("Reset should not clear the loop window")
	}
	if fired != 0 {
		t.Errorf("completion fired %d times during Reset, want 0", fired)
	}
}

func TestRangesAtAndCurrentRanges(t *testing.T) {
	tl := timeline.New()
	tl.AddRange("a", 0, 10, nil, nil)
	tl.AddRange("b", 5, 10, nil, nil)
	tl.AddRange("c", 20, 10, nil, nil)

	got := tl.RangesAt(7, nil)
	if len(got) != 2 {
		t.Fatalf("RangesAt(7) returned %d blocks, want 2", len(got))
	}
	if _, ok := got["a"]; !ok {
		t.Error("RangesAt(7) missing a")
	}
	if _, ok := got["b"]; !ok {
		t.Error("RangesAt(7) missing b")
	}

	// End time is exclusive.
	if res := tl.RangesAt(10, nil); len(res) != 1 {
		t.Errorf("RangesAt(10) returned %d blocks, want 1 (end is exclusive)", len(res))
	}

	onlyB := tl.RangesAt(7, func(b *timeline.Block) bool { return b.Name() == "b" })
	if len(onlyB) != 1 {
		t.Errorf("filtered RangesAt returned %d blocks, want 1", len(onlyB))
	}

	tl.SeekTo(7)
	current := tl.CurrentRanges(nil)
	if len(current) != 2 {
		t.Errorf("CurrentRanges returned %d blocks, want 2", len(current))
	}
}

func TestProgressChangedIsTransient(t *testing.T) {
	tl := timeline.New()
	tl.AppendRange("scene", 10, nil, nil)

	tl.SeekTo(5)
	if !tl.Range("scene").ProgressChanged() {
		t.Error("ProgressChanged should be true on the changing pass")
	}

	tl.SeekTo(5)
	if tl.Range("scene").ProgressChanged() {
		t.Error("ProgressChanged should clear on a pass without change")
	}
}
