package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func dequeValues(d *Deque[string]) []string {
	values := make([]string, 0, d.Size())
	d.Each(func(v string) { values = append(values, v) })
	return values
}

func TestDeque(t *testing.T) {
	d := NewDeque[string]()
	require.Nil(t, d.Front())
	require.Nil(t, d.PopBack())

	c := d.PushFront("c")
	b := d.PushFront("b")
	a := d.PushFront("a")
	require.Equal(t, []string{"a", "b", "c"}, dequeValues(d))
	require.Same(t, a, d.Front())
	require.Same(t, c, d.Back())

	d.MoveToFront(c)
	require.Equal(t, []string{"c", "a", "b"}, dequeValues(d))
	d.MoveToFront(c)
	require.Equal(t, []string{"c", "a", "b"}, dequeValues(d))

	d.Remove(a)
	d.Remove(a)
	require.Equal(t, 2, d.Size())
	require.Same(t, b, d.PopBack())
	require.Equal(t, []string{"c"}, dequeValues(d))

	d.MoveToFront(b)
	require.Equal(t, 1, d.Size())
}
