package timeline

import (
	"fmt"
	"io"
	"sort"
)

// Dump writes the clock position and the currently active ranges, sorted by
// start time for a stable listing, to the given diagnostic sink. It is a debug
// collaborator, not part of the scheduling contract.
func (tl *Timeline) Dump(w io.Writer) {
	fmt.Fprintf(w, "timeline t=%.3f/%.3f progress=%.3f paused=%v ranges=%d\n",
		tl.currentTime, tl.duration, tl.Progress(), tl.paused, len(tl.blocks))

	active := make([]*Block, 0, len(tl.blocks))
	for _, b := range tl.blocks {
		if b.active {
			active = append(active, b)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].startTime < active[j].startTime
	})

	for _, b := range active {
		fmt.Fprintf(w, "  %s [%.3f, %.3f) progress=%.3f\n",
			b.name, b.startTime, b.endTime, b.progress)
	}
}
