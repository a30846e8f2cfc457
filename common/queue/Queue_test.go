package queue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func fromValues(t *testing.T, values ...string) *Queue {
	t.Helper()
	q := New()
	for _, v := range values {
		require.NoError(t, q.InsertTail(v))
	}
	return q
}

// checkRing walks the ring in both directions and verifies the link
// invariants around every node.
func checkRing(t *testing.T, q *Queue) {
	t.Helper()
	forward := 0
	for e := q.head.next; e != &q.head; e = e.next {
		require.Same(t, e, e.next.prev)
		require.Same(t, e, e.prev.next)
		forward++
	}
	backward := 0
	for e := q.head.prev; e != &q.head; e = e.prev {
		backward++
	}
	require.Equal(t, forward, backward)
	require.Same(t, &q.head, q.head.next.prev)
	require.Same(t, &q.head, q.head.prev.next)
}

func TestNewQueueIsEmpty(t *testing.T) {
	q := New()
	require.True(t, q.IsEmpty())
	require.Equal(t, 0, q.Size())
	require.Nil(t, q.Front())
	require.Nil(t, q.Back())
	require.Nil(t, q.RemoveHead(nil))
	require.Nil(t, q.RemoveTail(nil))
	require.Equal(t, "[]", q.String())
	checkRing(t, q)
}

func TestNilQueue(t *testing.T) {
	var q *Queue
	require.True(t, q.IsEmpty())
	require.Equal(t, 0, q.Size())
	require.ErrorIs(t, q.InsertHead("a"), ErrNilQueue)
	require.ErrorIs(t, q.InsertTail("a"), ErrNilQueue)
	require.Nil(t, q.RemoveHead(make([]byte, 4)))
	require.False(t, q.DeleteMid())
	require.False(t, q.DeleteDup())
	require.Equal(t, 0, q.Descend())
	require.Equal(t, 0, q.Free())
	q.Swap()
	q.Reverse()
	q.ReverseK(3)
	q.Sort()
}

func TestZeroValueQueue(t *testing.T) {
	var q Queue
	require.True(t, q.IsEmpty())
	require.NoError(t, q.InsertHead("b"))
	require.NoError(t, q.InsertHead("a"))
	require.Equal(t, []string{"a", "b"}, q.Values())
	checkRing(t, &q)
}

func TestInsertRemove(t *testing.T) {
	q := New()
	require.NoError(t, q.InsertHead("b"))
	require.NoError(t, q.InsertHead("a"))
	require.NoError(t, q.InsertTail("c"))
	require.Equal(t, []string{"a", "b", "c"}, q.Values())
	require.Equal(t, "a", q.Front().Value)
	require.Equal(t, "c", q.Back().Value)
	checkRing(t, q)

	e := q.RemoveHead(nil)
	require.Equal(t, "a", e.Value)
	require.True(t, e.Detached())
	e = q.RemoveTail(nil)
	require.Equal(t, "c", e.Value)
	require.True(t, e.Detached())
	require.Equal(t, []string{"b"}, q.Values())
	checkRing(t, q)
}

func TestInsertCopiesValue(t *testing.T) {
	buf := []byte("hello")
	q := New()
	require.NoError(t, q.InsertTail(string(buf)))
	buf[0] = 'j'
	require.Equal(t, "hello", q.Front().Value)
}

func TestRemoveBoundedCopy(t *testing.T) {
	for _, tc := range []struct {
		name   string
		value  string
		bufLen int
		wanted string
	}{
		{name: "fits", value: "abc", bufLen: 8, wanted: "abc"},
		{name: "exact", value: "abc", bufLen: 4, wanted: "abc"},
		{name: "truncated", value: "abcdef", bufLen: 4, wanted: "abc"},
		{name: "only-terminator", value: "abc", bufLen: 1, wanted: ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := fromValues(t, tc.value)
			buf := make([]byte, tc.bufLen)
			for i := range buf {
				buf[i] = 'x'
			}
			e := q.RemoveHead(buf)
			require.NotNil(t, e)
			require.Equal(t, tc.value, e.Value)
			n := len(tc.wanted)
			require.Equal(t, tc.wanted, string(buf[:n]))
			require.Equal(t, byte(0), buf[n])
		})
	}
}

func TestSizeTracksOperations(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	q := New()
	expected := 0
	for i := 0; i < 1000; i++ {
		switch r.Intn(4) {
		case 0:
			require.NoError(t, q.InsertHead("h"))
			expected++
		case 1:
			require.NoError(t, q.InsertTail("t"))
			expected++
		case 2:
			if q.RemoveHead(nil) != nil {
				expected--
			}
		case 3:
			if q.RemoveTail(make([]byte, 2)) != nil {
				expected--
			}
		}
		require.Equal(t, expected, q.Size())
	}
	checkRing(t, q)
}

func TestIteration(t *testing.T) {
	q := fromValues(t, "a", "b", "c")
	var forward []string
	for e := q.Front(); e != nil; e = q.Next(e) {
		forward = append(forward, e.Value)
	}
	require.Equal(t, []string{"a", "b", "c"}, forward)
	var backward []string
	for e := q.Back(); e != nil; e = q.Prev(e) {
		backward = append(backward, e.Value)
	}
	require.Equal(t, []string{"c", "b", "a"}, backward)

	var seen []string
	q.Each(func(e *Element) bool {
		seen = append(seen, e.Value)
		return e.Value != "b"
	})
	require.Equal(t, []string{"a", "b"}, seen)
	require.Equal(t, "[a b c]", q.String())
}

func TestPrimitives(t *testing.T) {
	q := fromValues(t, "a", "c")
	b := newElement("b")
	require.True(t, b.Detached())
	InsertAfter(q.Front(), b)
	require.Equal(t, []string{"a", "b", "c"}, q.Values())
	d := newElement("d")
	InsertBefore(&q.head, d)
	require.Equal(t, []string{"a", "b", "c", "d"}, q.Values())
	Unlink(b)
	require.True(t, b.Detached())
	require.Equal(t, []string{"a", "c", "d"}, q.Values())
	checkRing(t, q)
}

func TestFreeReleasesEveryElementOnce(t *testing.T) {
	q := fromValues(t, "a", "b", "c", "d")
	elements := make([]*Element, 0)
	q.Each(func(e *Element) bool {
		elements = append(elements, e)
		return true
	})
	require.Equal(t, 4, q.Free())
	for _, e := range elements {
		require.True(t, e.Detached())
		require.Empty(t, e.Value)
	}
	require.True(t, q.IsEmpty())
	require.Equal(t, 0, q.Free())
	require.Equal(t, 0, New().Free())
}

func TestReleaseLinkedElement(t *testing.T) {
	q := fromValues(t, "a", "b")
	Release(q.Front())
	require.Equal(t, []string{"b"}, q.Values())
	Release(nil)
	checkRing(t, q)
}
