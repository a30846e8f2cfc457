package queue

// Swap exchanges the positions of every two adjacent elements. An odd last
// element stays in place. Elements are relinked, values are not copied.
func (q *Queue) Swap() {
	if q.IsEmpty() || q.isSingular() {
		return
	}
	for first := q.head.next; first != &q.head && first.next != &q.head; first = first.next {
		moveAfter(first.next, first)
	}
}

// Reverse mirrors the order of q by swapping the links of every node,
// sentinel included.
func (q *Queue) Reverse() {
	if q.IsEmpty() {
		return
	}
	e := &q.head
	for {
		e.next, e.prev = e.prev, e.next
		if e = e.prev; e == &q.head {
			return
		}
	}
}

// ReverseK reverses the order of every consecutive run of k elements. A short
// final run is reversed as well, so k >= Size() reverses the whole queue.
// k <= 1 is a no-op.
func (q *Queue) ReverseK(k int) {
	if k <= 1 || q.IsEmpty() || q.isSingular() {
		return
	}
	anchor := &q.head
	for anchor.next != &q.head {
		// first ends up as the last element of its group
		first := anchor.next
		for n := 1; n < k && first.next != &q.head; n++ {
			moveAfter(anchor, first.next)
		}
		anchor = first
	}
}
