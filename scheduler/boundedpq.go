package scheduler

import (
	"container/heap"

	"github.com/edmdsim/dynamogo/event"
)

// BoundedPQ is the canonical sorter: a container/heap priority queue
// bounded to exactly one live entry per particle, with an index map so a
// particle's existing slot can be replaced or removed in O(log n)
// instead of requiring a linear scan ("sort").
type BoundedPQ struct {
	items pqItems
	index map[int]int // particle id -> position in items
}

type pqItem struct {
	s   Stamped
	pos int
}

type pqItems []*pqItem

func (q pqItems) Len() int { return len(q) }
func (q pqItems) Less(i, j int) bool {
	return event.Less(q[i].s.Event, q[j].s.Event)
}
func (q pqItems) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].pos = i
	q[j].pos = j
}
func (q *pqItems) Push(x any) {
	it := x.(*pqItem)
	it.pos = len(*q)
	*q = append(*q, it)
}
func (q *pqItems) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return it
}

// NewBoundedPQ builds an empty priority queue.
func NewBoundedPQ() *BoundedPQ {
	return &BoundedPQ{index: make(map[int]int)}
}

func (q *BoundedPQ) Push(s Stamped) {
	if pos, ok := q.index[s.Event.Particle]; ok {
		item := q.items[pos]
		item.s = s
		heap.Fix(&q.items, pos)
		q.index[s.Event.Particle] = item.pos
		return
	}
	item := &pqItem{s: s}
	heap.Push(&q.items, item)
	q.index[s.Event.Particle] = item.pos
}

func (q *BoundedPQ) PopMin() (Stamped, bool) {
	if q.items.Len() == 0 {
		return Stamped{}, false
	}
	item := heap.Pop(&q.items).(*pqItem)
	delete(q.index, item.s.Event.Particle)
	return item.s, true
}

func (q *BoundedPQ) PeekMin() (Stamped, bool) {
	if q.items.Len() == 0 {
		return Stamped{}, false
	}
	return q.items[0].s, true
}

func (q *BoundedPQ) Remove(particle int) {
	pos, ok := q.index[particle]
	if !ok {
		return
	}
	heap.Remove(&q.items, pos)
	delete(q.index, particle)
}

func (q *BoundedPQ) Len() int { return q.items.Len() }
