package queue

// Node is the link part of an element. Internally a queue is a ring, such
// that the sentinel is both the next element of the last queue element and
// the previous element of the first one. A detached node points to itself.
type Node struct {
	next, prev *Element
}

// Element is a queue entry. The value is owned by the element; the element
// itself belongs to the queue it is linked into, or to whoever removed it.
type Element struct {
	Node
	Value string
}

func newElement(v string) *Element {
	e := &Element{Value: v}
	e.next = e
	e.prev = e
	return e
}

// Detached reports whether e is self-linked, i.e. not part of any ring.
func (e *Element) Detached() bool {
	return e.next == e && e.prev == e
}

// InsertAfter links e right after at. e must be detached.
func InsertAfter(at, e *Element) {
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
}

// InsertBefore links e right before at. e must be detached.
func InsertBefore(at, e *Element) {
	InsertAfter(at.prev, e)
}

// Unlink removes e from whatever ring it is in and self-links it.
func Unlink(e *Element) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = e
	e.prev = e
}

// Release drops the payload of a detached element. Releasing an element that
// is still linked unlinks it first.
func Release(e *Element) {
	if e == nil {
		return
	}
	if e.next != nil && !e.Detached() {
		Unlink(e)
	}
	e.Value = ""
}

// moveAfter unlinks e and relinks it right after at.
func moveAfter(at, e *Element) {
	e.prev.next = e.next
	e.next.prev = e.prev
	InsertAfter(at, e)
}

// moveTail unlinks e and relinks it right before head.
func moveTail(head, e *Element) {
	moveAfter(head.prev, e)
}

// spliceTail moves every element of the ring anchored at from to the end of
// the ring anchored at head, leaving from empty.
func spliceTail(head, from *Element) {
	if from.next == from {
		return
	}
	first, last := from.next, from.prev
	first.prev = head.prev
	head.prev.next = first
	last.next = head
	head.prev = last
	from.next = from
	from.prev = from
}

// cutPosition moves the elements from head.next up to and including at into
// the empty ring anchored at left.
func cutPosition(left, head, at *Element) {
	if head.next == head || at == head {
		return
	}
	first := head.next
	left.next = first
	first.prev = left
	head.next = at.next
	at.next.prev = head
	at.next = left
	left.prev = at
}
