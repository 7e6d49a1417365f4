package crawler

import "sync"

// VisitedSet records page URLs discovered during one crawl.
// URLs are compared by exact string equality. It is safe for concurrent use.
type VisitedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewVisitedSet creates an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(map[string]struct{})}
}

// VisitIfNew atomically checks if a URL is visited and marks it if not.
// Returns true if the URL was new (not previously visited), false if already visited.
func (v *VisitedSet) VisitIfNew(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.seen[url]; ok {
		return false
	}
	v.seen[url] = struct{}{}
	return true
}

// IsVisited checks if a URL has been visited.
func (v *VisitedSet) IsVisited(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, ok := v.seen[url]
	return ok
}

// Len returns the number of visited URLs.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}
