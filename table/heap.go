package table

import (
	"container/heap"

	"github.com/relaybgp/bgpd/intern"
)

// entryHeap is a container/heap min-heap of interned handles, ordered
// by their decision summaries (spec §4.6: "each BgpTableEntry is a
// min-heap of handles ordered by §4.4").
type entryHeap []*intern.Handle

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].Less(h[j]) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(*intern.Handle)) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// BgpTableEntry holds every candidate path known for one destination;
// its bestpath is always heap[0].
type BgpTableEntry struct {
	h entryHeap
}

func newBgpTableEntry() *BgpTableEntry {
	e := &BgpTableEntry{h: entryHeap{}}
	heap.Init(&e.h)
	return e
}

// Peek returns the current bestpath, or nil if the entry is empty.
func (e *BgpTableEntry) Peek() *intern.Handle {
	if len(e.h) == 0 {
		return nil
	}
	return e.h[0]
}

// Len reports how many candidate paths remain.
func (e *BgpTableEntry) Len() int { return len(e.h) }

// Insert pushes handle onto the heap unless an identical handle (same
// interned record) is already present, per spec §4.6's "suppressing
// exact duplicates".
func (e *BgpTableEntry) Insert(handle *intern.Handle) {
	for _, existing := range e.h {
		if existing.Same(handle) {
			return
		}
	}
	heap.Push(&e.h, handle)
}

// RemovePeer drops every candidate that matches selects. Callers select
// by the candidate's decision-summary PeerID, per RFC 4271 §9.1.3: a
// withdrawal identifies routes by peer, not by attributes. It reports
// whether anything was removed.
func (e *BgpTableEntry) RemovePeer(matches func(*intern.Handle) bool) bool {
	kept := e.h[:0]
	removed := false
	for _, candidate := range e.h {
		if matches(candidate) {
			removed = true
			continue
		}
		kept = append(kept, candidate)
	}
	e.h = kept
	heap.Init(&e.h)
	return removed
}
