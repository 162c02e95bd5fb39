package crawler

import "sync"

// frontierEntry pairs a normalized URL with its link-hop distance from the
// seed. Depth is fixed at discovery time and never recomputed.
type frontierEntry struct {
	url   string
	depth int
}

// frontier is a FIFO queue of not-yet-visited entries. The Engine is the
// only owner; no locking is required on the queue itself.
type frontier struct {
	entries []frontierEntry
}

func (f *frontier) push(url string, depth int) {
	f.entries = append(f.entries, frontierEntry{url: url, depth: depth})
}

func (f *frontier) pop() (frontierEntry, bool) {
	if len(f.entries) == 0 {
		return frontierEntry{}, false
	}
	entry := f.entries[0]
	f.entries = f.entries[1:]
	return entry, true
}

func (f *frontier) len() int {
	return len(f.entries)
}

// visitTracker provides atomically-checked visited URL tracking so a
// normalized URL is never fetched twice, even if discovered via two
// different referring pages.
type visitTracker struct {
	seen sync.Map
}

func newVisitTracker() *visitTracker {
	return &visitTracker{}
}

// MarkIfNew stores the URL if it has not been seen before and returns true.
func (t *visitTracker) MarkIfNew(url string) bool {
	if url == "" {
		return false
	}
	_, loaded := t.seen.LoadOrStore(url, struct{}{})
	return !loaded
}

// Seen reports whether the URL has already been marked.
func (t *visitTracker) Seen(url string) bool {
	_, ok := t.seen.Load(url)
	return ok
}
