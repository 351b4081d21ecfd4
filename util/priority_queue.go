package util

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

//*******************************************
// priority queue
//*******************************************

type pq_item[T any, P constraints.Ordered] struct {
	value    T
	priority P
}

type pq_heap[T any, P constraints.Ordered] []pq_item[T, P]

func (self pq_heap[T, P]) Len() int {
	return len(self)
}
func (self pq_heap[T, P]) Less(i, j int) bool {
	return self[i].priority < self[j].priority
}
func (self pq_heap[T, P]) Swap(i, j int) {
	self[i], self[j] = self[j], self[i]
}
func (self *pq_heap[T, P]) Push(x any) {
	*self = append(*self, x.(pq_item[T, P]))
}
func (self *pq_heap[T, P]) Pop() any {
	old := *self
	n := len(old)
	item := old[n-1]
	*self = old[:n-1]
	return item
}

// Min-priority queue. Items with equal priority are dequeued in an
// order that only depends on the sequence of operations.
type PriorityQueue[T any, P constraints.Ordered] struct {
	items *pq_heap[T, P]
}

func NewPriorityQueue[T any, P constraints.Ordered](capacity int) PriorityQueue[T, P] {
	items := make(pq_heap[T, P], 0, capacity)
	return PriorityQueue[T, P]{
		items: &items,
	}
}

func (self *PriorityQueue[T, P]) Enqueue(value T, priority P) {
	heap.Push(self.items, pq_item[T, P]{value: value, priority: priority})
}

func (self *PriorityQueue[T, P]) Dequeue() (T, bool) {
	if self.items.Len() == 0 {
		var value T
		return value, false
	}
	item := heap.Pop(self.items).(pq_item[T, P])
	return item.value, true
}

func (self *PriorityQueue[T, P]) Length() int {
	return self.items.Len()
}

func (self *PriorityQueue[T, P]) Clear() {
	*self.items = (*self.items)[:0]
}
