package queue

import (
	"errors"
	"strings"
)

var (
	ErrNilQueue = errors.New("nil queue")
)

// Queue is a circular doubly-linked list of string elements anchored by a
// sentinel. The sentinel's Value is never populated. A Queue is not safe for
// concurrent use.
type Queue struct {
	head Element
}

func New() *Queue {
	return new(Queue).init()
}

// init initializes or clears queue q.
func (q *Queue) init() *Queue {
	q.head.next = &q.head
	q.head.prev = &q.head
	return q
}

// lazyInit makes the zero value usable.
func (q *Queue) lazyInit() {
	if q.head.next == nil {
		q.init()
	}
}

func (q *Queue) IsEmpty() bool {
	return q == nil || q.head.next == nil || q.head.next == &q.head
}

func (q *Queue) isSingular() bool {
	return !q.IsEmpty() && q.head.next == q.head.prev
}

// Size counts the elements by walking the ring.
func (q *Queue) Size() int {
	if q.IsEmpty() {
		return 0
	}
	n := 0
	for e := q.head.next; e != &q.head; e = e.next {
		n++
	}
	return n
}

// Front returns the first element of queue q or nil if the queue is empty.
func (q *Queue) Front() *Element {
	if q.IsEmpty() {
		return nil
	}
	return q.head.next
}

// Back returns the last element of queue q or nil if the queue is empty.
func (q *Queue) Back() *Element {
	if q.IsEmpty() {
		return nil
	}
	return q.head.prev
}

// Next returns the element after e in q, or nil if e is the last one.
func (q *Queue) Next(e *Element) *Element {
	if e == nil || e.next == &q.head {
		return nil
	}
	return e.next
}

// Prev returns the element before e in q, or nil if e is the first one.
func (q *Queue) Prev(e *Element) *Element {
	if e == nil || e.prev == &q.head {
		return nil
	}
	return e.prev
}

// Each calls fn for every element from front to back until fn returns false.
func (q *Queue) Each(fn func(e *Element) bool) {
	if q.IsEmpty() {
		return
	}
	for e := q.head.next; e != &q.head; e = e.next {
		if !fn(e) {
			return
		}
	}
}

func (q *Queue) Values() []string {
	values := make([]string, 0)
	q.Each(func(e *Element) bool {
		values = append(values, e.Value)
		return true
	})
	return values
}

func (q *Queue) String() string {
	return "[" + strings.Join(q.Values(), " ") + "]"
}

// InsertHead links a new element holding a copy of v right after the sentinel.
func (q *Queue) InsertHead(v string) error {
	if q == nil {
		return ErrNilQueue
	}
	q.lazyInit()
	InsertAfter(&q.head, newElement(strings.Clone(v)))
	return nil
}

// InsertTail links a new element holding a copy of v right before the sentinel.
func (q *Queue) InsertTail(v string) error {
	if q == nil {
		return ErrNilQueue
	}
	q.lazyInit()
	InsertBefore(&q.head, newElement(strings.Clone(v)))
	return nil
}

// RemoveHead unlinks the first element and hands it to the caller. When buf
// is not empty, at most len(buf)-1 bytes of the value are copied into it,
// followed by a NUL byte.
func (q *Queue) RemoveHead(buf []byte) *Element {
	if q.IsEmpty() {
		return nil
	}
	return q.remove(q.head.next, buf)
}

// RemoveTail unlinks the last element and hands it to the caller, with the
// same bounded copy as RemoveHead.
func (q *Queue) RemoveTail(buf []byte) *Element {
	if q.IsEmpty() {
		return nil
	}
	return q.remove(q.head.prev, buf)
}

func (q *Queue) remove(e *Element, buf []byte) *Element {
	Unlink(e)
	if len(buf) > 0 {
		n := copy(buf[:len(buf)-1], e.Value)
		buf[n] = 0
	}
	return e
}

// delete unlinks and releases e.
func (q *Queue) delete(e *Element) {
	Unlink(e)
	Release(e)
}

// Free releases every element, then the sentinel, and returns the number of
// released elements. Afterwards q behaves like a zero Queue.
func (q *Queue) Free() int {
	if q == nil || q.head.next == nil {
		return 0
	}
	n := 0
	for e := q.head.next; e != &q.head; e = q.head.next {
		q.delete(e)
		n++
	}
	q.head.next = nil
	q.head.prev = nil
	return n
}
