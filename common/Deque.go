package common

// DequeElement is an element of a Deque.
type DequeElement[T any] struct {
	// Next and previous pointers in the doubly-linked list of elements.
	// Internally a deque d is a ring, such that &d.root is both the next
	// element of the last element (d.Back()) and the previous element of the
	// first one (d.Front()). Detached elements have nil links.
	next, prev *DequeElement[T]
	Value      T
}

type Deque[T any] struct {
	root DequeElement[T]
	size int
}

func NewDeque[T any]() *Deque[T] {
	return new(Deque[T]).init()
}

// init initializes or clears deque d.
func (d *Deque[T]) init() *Deque[T] {
	d.root.next = &d.root
	d.root.prev = &d.root
	d.size = 0
	return d
}

// link links e after at, increments size.
func (d *Deque[T]) link(e, at *DequeElement[T]) {
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
	d.size++
}

// unlink unlinks e from its deque, decrements size.
func (d *Deque[T]) unlink(e *DequeElement[T]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	d.size--
}

func (d *Deque[T]) Size() int {
	return d.size
}

// Remove removes e from d. Detached elements are ignored.
func (d *Deque[T]) Remove(e *DequeElement[T]) {
	if e.next == nil && e.prev == nil {
		return
	}
	if d.size > 0 {
		d.unlink(e)
	}
}

// Front returns the first element of deque d or nil if the deque is empty.
func (d *Deque[T]) Front() *DequeElement[T] {
	if d.size == 0 {
		return nil
	}
	return d.root.next
}

// Back returns the last element of deque d or nil if the deque is empty.
func (d *Deque[T]) Back() *DequeElement[T] {
	if d.size == 0 {
		return nil
	}
	return d.root.prev
}

// PopBack removes the element at the back of deque d and returns it.
func (d *Deque[T]) PopBack() *DequeElement[T] {
	if d.size == 0 {
		return nil
	}
	e := d.root.prev
	d.unlink(e)
	return e
}

// PushFront inserts a new element with value v at the front of deque d and returns it.
func (d *Deque[T]) PushFront(v T) *DequeElement[T] {
	e := &DequeElement[T]{Value: v}
	d.link(e, &d.root)
	return e
}

// MoveToFront moves e, which must belong to d, to the front of d.
func (d *Deque[T]) MoveToFront(e *DequeElement[T]) {
	if e.next == nil || d.root.next == e {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = &d.root
	e.next = d.root.next
	e.prev.next = e
	e.next.prev = e
}

// Each walks d from front to back.
func (d *Deque[T]) Each(fn func(v T)) {
	for e := d.root.next; e != &d.root; e = e.next {
		fn(e.Value)
	}
}
