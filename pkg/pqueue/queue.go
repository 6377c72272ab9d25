package pqueue

import "sort"

type order uint8

const (
	orderAsc order = iota
	orderDesc
)

type Option func(*Queue)

func WithOrderAsc() Option {
	return func(q *Queue) {
		q.order = orderAsc
	}
}

func WithOrderDesc() Option {
	return func(q *Queue) {
		q.order = orderDesc
	}
}

// WithCap keeps only the best size items under the configured order.
func WithCap(size uint) Option {
	return func(q *Queue) {
		q.cap = int(size)
	}
}

func New(opts ...Option) *Queue {
	q := &Queue{order: orderAsc, cap: -1}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Queue is a small sorted queue of float64 priorities. With WithCap it acts
// as a fixed-size top-k keeper: pushes beyond capacity evict the worst item.
type Queue struct {
	order order
	cap   int
	items []float64
}

func (q *Queue) Push(priority float64) {
	q.items = append(q.items, priority)
	sort.Sort(q)
	if q.cap >= 0 && q.cap < len(q.items) {
		q.items = q.items[:q.cap]
	}
}

// Seek returns the priority at position idx, or fallback when fewer than
// idx+1 items were kept.
func (q *Queue) Seek(idx int, fallback float64) float64 {
	if idx >= len(q.items) {
		return fallback
	}
	return q.items[idx]
}

func (q *Queue) PopAll() []float64 {
	pulled := q.items
	q.items = nil
	return pulled
}

func (q *Queue) Reset() { q.items = q.items[:0] }

func (q *Queue) Cap() int { return q.cap }

func (q *Queue) Len() int { return len(q.items) }

func (q *Queue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *Queue) Less(i, j int) bool {
	if q.order == orderAsc {
		return q.items[i] < q.items[j]
	}
	return q.items[i] > q.items[j]
}
