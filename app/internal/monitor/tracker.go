package monitor

import "sync"

// FailureTracker keeps track of consecutive probe failures per monitor
// tag. A monitor is only reported DOWN after reaching the configured
// threshold, so one flaky probe does not flip the status.
// It is safe for concurrent use.
type FailureTracker struct {
	mu        sync.Mutex
	counts    map[string]int
	threshold int
}

// NewFailureTracker creates a tracker that tolerates threshold-1
// consecutive failures. A threshold below 1 is treated as 1.
func NewFailureTracker(threshold int) *FailureTracker {
	if threshold < 1 {
		threshold = 1
	}
	return &FailureTracker{
		counts:    make(map[string]int),
		threshold: threshold,
	}
}

// Update increments or resets the failure count for a tag and reports
// whether the tag should now be considered down.
func (t *FailureTracker) Update(tag string, ok bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ok {
		t.counts[tag] = 0
		return false
	}

	t.counts[tag]++
	return t.counts[tag] >= t.threshold
}

// Reset clears the failure count for a tag.
func (t *FailureTracker) Reset(tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.counts, tag)
}

// Prune removes entries for tags that no longer exist.
func (t *FailureTracker) Prune(validTags map[string]struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for tag := range t.counts {
		if _, ok := validTags[tag]; !ok {
			delete(t.counts, tag)
		}
	}
}
