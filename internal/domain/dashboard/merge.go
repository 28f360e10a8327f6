package dashboard

import (
	"container/heap"
)

// newer reports whether a sorts before b in a feed: later date first,
// then higher id. Equal keys keep source order.
func newer(a, b TransactionRecord) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.ID > b.ID
}

type cursor struct {
	records []TransactionRecord
	pos     int
	source  int
}

type cursorHeap []*cursor

func (h cursorHeap) Len() int { return len(h) }

func (h cursorHeap) Less(i, j int) bool {
	a, b := h[i].records[h[i].pos], h[j].records[h[j].pos]
	if newer(a, b) {
		return true
	}
	if newer(b, a) {
		return false
	}
	return h[i].source < h[j].source
}

func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cursorHeap) Push(x any) { *h = append(*h, x.(*cursor)) }

func (h *cursorHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// MergeRecent k-way merges per-source feeds that are each already sorted
// newest first and returns at most limit records. A negative limit means no bound.
// Inputs are not modified.
func MergeRecent(limit int, sources ...[]TransactionRecord) []TransactionRecord {
	h := make(cursorHeap, 0, len(sources))
	total := 0
	for i, src := range sources {
		if len(src) == 0 {
			continue
		}
		h = append(h, &cursor{records: src, source: i})
		total += len(src)
	}
	heap.Init(&h)

	if limit < 0 || limit > total {
		limit = total
	}

	out := make([]TransactionRecord, 0, limit)
	for len(out) < limit && h.Len() > 0 {
		c := h[0]
		out = append(out, c.records[c.pos])
		c.pos++
		if c.pos == len(c.records) {
			heap.Pop(&h)
		} else {
			heap.Fix(&h, 0)
		}
	}
	return out
}
