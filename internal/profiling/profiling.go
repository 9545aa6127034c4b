package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Process-wide timing buckets for generation stages. Safe for use from
// any goroutine.

// Stat is the accumulated timing of one bucket.
type Stat struct {
	Count int
	Total time.Duration
}

// Mean returns the average duration per call.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

var (
	mu      sync.Mutex
	buckets = make(map[string]Stat)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("world.erode")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s := buckets[name]
		s.Count++
		s.Total += d
		buckets[name] = s
		mu.Unlock()
	}
}

// Reset clears every bucket.
func Reset() {
	mu.Lock()
	clear(buckets)
	mu.Unlock()
}

// Snapshot returns a copy of the current buckets.
func Snapshot() map[string]Stat {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Stat, len(buckets))
	for k, v := range buckets {
		out[k] = v
	}
	return out
}

// Summary formats the n buckets with the largest totals, e.g.
// "world.erode:1.2s/16 (75.0ms), world.noise:310.4ms/16 (19.4ms)".
func Summary(n int) string {
	ss := Snapshot()
	names := make([]string, 0, len(ss))
	for k := range ss {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if ss[names[i]].Total != ss[names[j]].Total {
			return ss[names[i]].Total > ss[names[j]].Total
		}
		return names[i] < names[j]
	})
	if n <= 0 || n > len(names) {
		n = len(names)
	}
	parts := make([]string, 0, n)
	for _, name := range names[:n] {
		s := ss[name]
		parts = append(parts, fmt.Sprintf("%s:%s/%d (%s)", name, round(s.Total), s.Count, round(s.Mean())))
	}
	return strings.Join(parts, ", ")
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(100 * time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(100 * time.Microsecond)
	default:
		return d.Round(time.Microsecond)
	}
}
