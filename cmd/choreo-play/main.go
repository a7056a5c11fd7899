// choreo-play drives a timeline from the command line: it parses a range
// script, advances the clock at a fixed frame rate, and logs every progress
// change until the timeline completes. The playback loop owns the clock; the
// engine only ever sees the deltas it is handed.
// Usage: go run ./cmd/choreo-play -script "intro:0:3,body:3:5,outro:8:2"
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/seantiz/choreo/internal/config"
	"github.com/seantiz/choreo/internal/timeline"
)

func main() {
	var (
		script = flag.String("script", "intro:0:3,body:3:5,outro:8:2",
			"comma-separated ranges as name:start:duration (seconds)")
		fps  = flag.Float64("fps", 30, "frames per second to drive the clock at")
		rate = flag.Float64("rate", 1, "playback rate multiplier")
		dump = flag.Bool("dump", false, "dump active ranges after every frame")
	)
	flag.Parse()

	cfg := config.Load()
	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	tl := timeline.New()
	if err := buildScript(tl, *script, func(b *timeline.Block, progress float64) {
		logger.Info("progress",
			"range", b.Name(),
			"progress", fmt.Sprintf("%.3f", progress),
			"active", b.Active(),
			"t", fmt.Sprintf("%.3f", tl.CurrentTime()),
		)
	}); err != nil {
		log.Fatalf("invalid script: %v", err)
	}

	done := make(chan struct{})
	tl.SetCompletionCallback(func() {
		logger.Info("timeline complete", "duration", tl.Duration())
		close(done)
	})

	logger.Info("playing", "ranges", tl.Len(), "duration", tl.Duration(), "fps", *fps)

	frame := time.Duration(float64(time.Second) / *fps)
	dt := frame.Seconds() * *rate
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tl.Advance(dt)
			if *dump {
				tl.Dump(os.Stdout)
			}
		case <-done:
			return
		}
	}
}

// buildScript registers one range per name:start:duration entry, attaching fn
// to each.
func buildScript(tl *timeline.Timeline, script string, fn timeline.ProgressFunc) error {
	for _, entry := range strings.Split(script, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) != 3 {
			return fmt.Errorf("entry %q: want name:start:duration", entry)
		}
		start, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return fmt.Errorf("entry %q: bad start: %w", entry, err)
		}
		duration, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return fmt.Errorf("entry %q: bad duration: %w", entry, err)
		}
		if tl.AddRange(parts[0], start, duration, fn, nil) == nil {
			return fmt.Errorf("entry %q: zero duration rejected", entry)
		}
	}
	return nil
}
