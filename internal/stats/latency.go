package stats

import (
	"fmt"
	"math"
)

// DefaultWindow is the tracker capacity used when none is configured.
const DefaultWindow = 100

// Tracker keeps the most recent latency samples in a fixed circular
// buffer and counts every sample ever added. It is not safe for
// concurrent use; the listener loop is its only caller.
type Tracker struct {
	samples []int64
	next    int // write cursor into samples
	size    int // number of valid entries, <= cap
	total   uint64
}

// NewTracker creates a tracker holding at most capacity samples.
// Non-positive capacities fall back to DefaultWindow.
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultWindow
	}
	return &Tracker{samples: make([]int64, capacity)}
}

// Add records one latency measurement in nanoseconds, evicting the
// oldest sample once the window is full.
func (t *Tracker) Add(latencyNs int64) {
	t.samples[t.next] = latencyNs
	t.next = (t.next + 1) % len(t.samples)
	if t.size < len(t.samples) {
		t.size++
	}
	t.total++
}

// Total returns the number of samples ever added, independent of
// window eviction.
func (t *Tracker) Total() uint64 {
	return t.total
}

// Summary holds statistics over the current window. Min, Max and
// Current are nanoseconds; Mean and StdDev are fractional nanoseconds.
type Summary struct {
	Current int64
	Mean    float64
	StdDev  float64
	Min     int64
	Max     int64
	Window  int    // samples currently in the window
	Total   uint64 // samples ever added
}

// Summary computes statistics over the live window without mutating it.
// The second return value is false while no samples have been added;
// callers must not read the Summary in that case.
func (t *Tracker) Summary() (Summary, bool) {
	if t.size == 0 {
		return Summary{}, false
	}

	s := Summary{
		Current: t.samples[(t.next-1+len(t.samples))%len(t.samples)],
		Min:     math.MaxInt64,
		Max:     math.MinInt64,
		Window:  t.size,
		Total:   t.total,
	}

	var sum float64
	for i := 0; i < t.size; i++ {
		v := t.samples[i]
		sum += float64(v)
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(t.size)

	// sample standard deviation (n-1 divisor), 0 for a single sample
	if t.size > 1 {
		var sq float64
		for i := 0; i < t.size; i++ {
			d := float64(t.samples[i]) - s.Mean
			sq += d * d
		}
		s.StdDev = math.Sqrt(sq / float64(t.size-1))
	}
	return s, true
}

// String renders the summary in the probe's one-line report form.
func (s Summary) String() string {
	return fmt.Sprintf("latency: %dns (current) | %.0fns (avg) | %.0fns (std) | %dns (min) | %dns (max) | messages: %d",
		s.Current, s.Mean, s.StdDev, s.Min, s.Max, s.Total)
}
