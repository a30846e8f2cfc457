package queue

import (
	"strings"

	"github.com/maruel/natural"
)

// Compare returns a negative number when a < b, zero when a == b and a
// positive number when a > b.
type Compare func(a, b string) int

var (
	// Lexical orders values byte-wise, like strcmp.
	Lexical Compare = strings.Compare
	// Natural orders runs of digits by their numeric value, so "8" < "13".
	Natural Compare = naturalCompare
)

func naturalCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}

func initRing(head *Element) {
	head.next = head
	head.prev = head
}

// Sort orders q ascending with a stable merge sort.
func (q *Queue) Sort() {
	q.SortFunc(Lexical)
}

func (q *Queue) SortFunc(cmp Compare) {
	if q.IsEmpty() || q.isSingular() {
		return
	}
	mergeSort(&q.head, cmp)
}

func mergeSort(head *Element, cmp Compare) {
	if head.next == head || head.next == head.prev {
		return
	}
	// slow stops on the last element of the left half
	slow, fast := head.next, head.next.next
	for fast != head && fast.next != head {
		slow = slow.next
		fast = fast.next.next
	}
	var left, right Element
	initRing(&left)
	initRing(&right)
	cutPosition(&left, head, slow)
	spliceTail(&right, head)
	mergeSort(&left, cmp)
	mergeSort(&right, cmp)
	mergeRings(head, &left, &right, cmp)
}

// mergeRings moves the smaller front of left and right to the tail of head
// until one side runs out, then appends the rest. left wins ties.
func mergeRings(head, left, right *Element, cmp Compare) {
	for left.next != left && right.next != right {
		if cmp(left.next.Value, right.next.Value) <= 0 {
			moveTail(head, left.next)
		} else {
			moveTail(head, right.next)
		}
	}
	spliceTail(head, left)
	spliceTail(head, right)
}

// Merge combines already sorted queues into the first non-nil one and
// returns its size. The other queues are left empty. A queue listed more
// than once takes part once.
func Merge(queues []*Queue) int {
	return MergeFunc(queues, Lexical)
}

// MergeFunc merges the queues pairwise, doubling the stride each round, so
// every element takes part in about log(len(queues)) merges.
func MergeFunc(queues []*Queue, cmp Compare) int {
	live := make([]*Queue, 0, len(queues))
	seen := make(map[*Queue]struct{}, len(queues))
	for _, q := range queues {
		if q == nil {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		q.lazyInit()
		live = append(live, q)
	}
	if len(live) == 0 {
		return 0
	}
	for step := 1; step < len(live); step *= 2 {
		for i := 0; i+step < len(live); i += 2 * step {
			mergeInto(live[i], live[i+step], cmp)
		}
	}
	return live[0].Size()
}

func mergeInto(dst, src *Queue, cmp Compare) {
	if dst == src || src.IsEmpty() {
		return
	}
	var left Element
	initRing(&left)
	spliceTail(&left, &dst.head)
	mergeRings(&dst.head, &left, &src.head, cmp)
}
