package queue

// DeleteMid removes and releases the element at index Size()/2, which is the
// second of the two middle elements when the size is even. It reports whether
// an element was removed.
func (q *Queue) DeleteMid() bool {
	if q.IsEmpty() {
		return false
	}
	slow, fast := q.head.next, q.head.next
	for fast != &q.head && fast.next != &q.head {
		slow = slow.next
		fast = fast.next.next
	}
	q.delete(slow)
	return true
}

// DeleteDup removes every element whose value appears more than once in a
// row, leaving none of the repeated values behind. q must already be sorted.
func (q *Queue) DeleteDup() bool {
	return q.DeleteDupFunc(Lexical)
}

func (q *Queue) DeleteDupFunc(cmp Compare) bool {
	if q == nil {
		return false
	}
	if q.IsEmpty() {
		return true
	}
	e := q.head.next
	for e != &q.head {
		next := e.next
		if next != &q.head && cmp(e.Value, next.Value) == 0 {
			for next != &q.head && cmp(e.Value, next.Value) == 0 {
				dup := next
				next = next.next
				q.delete(dup)
			}
			q.delete(e)
		}
		e = next
	}
	return true
}

// Descend keeps only the elements that are strictly greater than everything
// to their right and returns the resulting size. Elements equal to a value
// kept further right are removed. Values compare lexically; numeric callers
// use DescendFunc(Natural).
func (q *Queue) Descend() int {
	return q.DescendFunc(Lexical)
}

func (q *Queue) DescendFunc(cmp Compare) int {
	return q.filterSuffix(func(v, kept string) bool {
		return cmp(v, kept) > 0
	})
}

// Ascend keeps only the elements that are strictly smaller than everything
// to their right and returns the resulting size. Values compare lexically;
// numeric callers use AscendFunc(Natural).
func (q *Queue) Ascend() int {
	return q.AscendFunc(Lexical)
}

func (q *Queue) AscendFunc(cmp Compare) int {
	return q.filterSuffix(func(v, kept string) bool {
		return cmp(v, kept) < 0
	})
}

// filterSuffix walks from the tail towards the front, comparing every element
// with the closest element kept so far on its right.
func (q *Queue) filterSuffix(keep func(v, kept string) bool) int {
	if q.IsEmpty() || q.isSingular() {
		return q.Size()
	}
	kept := q.head.prev
	for e := kept.prev; e != &q.head; {
		prev := e.prev
		if keep(e.Value, kept.Value) {
			kept = e
		} else {
			q.delete(e)
		}
		e = prev
	}
	return q.Size()
}
