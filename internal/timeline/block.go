package timeline

// ProgressFunc is invoked synchronously whenever a block's progress changes
// during an update pass. The block reference is only guaranteed valid for the
// duration of the call; callers must not retain it across range removal.
type ProgressFunc func(b *Block, progress float64)

// CompletionFunc is invoked when the clock reaches the end of the timeline
// from a different prior time.
type CompletionFunc func()

// Filter narrows block selection in queries and navigation. A nil Filter
// accepts every block.
type Filter func(b *Block) bool

// Block is a named half-open interval [StartTime, EndTime) on the timeline's
// clock. Timing is immutable after creation; remove and re-add a range to
// change it. All mutation happens inside the owning Timeline.
type Block struct {
	name      string
	startTime float64
	duration  float64
	endTime   float64

	active          bool
	progress        float64
	progressChanged bool

	callback ProgressFunc
	context  any
}

// Name returns the block's unique identifier.
func (b *Block) Name() string { return b.name }

// StartTime returns the clock time at which the block begins.
func (b *Block) StartTime() float64 { return b.startTime }

// Duration returns the block's length.
func (b *Block) Duration() float64 { return b.duration }

// EndTime returns StartTime + Duration, cached at creation.
func (b *Block) EndTime() float64 { return b.endTime }

// Active reports whether the clock currently lies in [StartTime, EndTime).
func (b *Block) Active() bool { return b.active }

// Progress returns the block's normalized position in [0, 1]: pinned to 0
// before the block starts and to 1 once the clock reaches EndTime.
func (b *Block) Progress() float64 { return b.progress }

// ProgressChanged reports whether the most recent update pass changed the
// block's progress. It is transient dispatch state, not a durable flag.
func (b *Block) ProgressChanged() bool { return b.progressChanged }

// Context returns the opaque payload attached at creation, or nil.
func (b *Block) Context() any { return b.context }

// contains reports whether t lies within the block's half-open interval.
func (b *Block) contains(t float64) bool {
	return b.startTime <= t && t < b.endTime
}
