package queue

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSort(t *testing.T) {
	for _, tc := range []struct {
		name   string
		values []string
		wanted []string
	}{
		{name: "empty", values: nil, wanted: []string{}},
		{name: "single", values: []string{"a"}, wanted: []string{"a"}},
		{name: "pair", values: []string{"b", "a"}, wanted: []string{"a", "b"}},
		{name: "duplicates", values: []string{"c", "a", "b", "a", "c"}, wanted: []string{"a", "a", "b", "c", "c"}},
		{name: "sorted", values: []string{"a", "b", "c"}, wanted: []string{"a", "b", "c"}},
		{name: "reversed", values: []string{"e", "d", "c", "b", "a"}, wanted: []string{"a", "b", "c", "d", "e"}},
		{name: "lexical-digits", values: []string{"10", "9", "1"}, wanted: []string{"1", "10", "9"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := fromValues(t, tc.values...)
			q.Sort()
			require.Equal(t, tc.wanted, q.Values())
			checkRing(t, q)
		})
	}
}

func TestSortNatural(t *testing.T) {
	q := fromValues(t, "10", "9", "1", "100")
	q.SortFunc(Natural)
	require.Equal(t, []string{"1", "9", "10", "100"}, q.Values())
}

func TestSortRandomMatchesSlices(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, n := range []int{2, 3, 17, 64, 1000} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			values := make([]string, n)
			for i := range values {
				values[i] = fmt.Sprintf("%03d", r.Intn(n))
			}
			q := fromValues(t, values...)
			q.Sort()
			sort.Strings(values)
			require.Equal(t, values, q.Values())
			checkRing(t, q)
		})
	}
}

func TestSortIsIdempotent(t *testing.T) {
	q := fromValues(t, "d", "b", "a", "c", "b")
	q.Sort()
	once := q.Values()
	q.Sort()
	require.Equal(t, once, q.Values())
}

func TestSortIsStable(t *testing.T) {
	// compare on the first byte only, the suffix records the original order
	byKey := func(a, b string) int {
		return int(a[0]) - int(b[0])
	}
	q := fromValues(t, "b1", "a1", "b2", "a2", "c1", "a3", "b3")
	q.SortFunc(byKey)
	require.Equal(t, []string{"a1", "a2", "a3", "b1", "b2", "b3", "c1"}, q.Values())
}

func TestMerge(t *testing.T) {
	for _, tc := range []struct {
		name   string
		queues [][]string
		wanted []string
	}{
		{name: "basic", queues: [][]string{{"1", "3"}, {"2"}, {}}, wanted: []string{"1", "2", "3"}},
		{name: "single", queues: [][]string{{"a", "b"}}, wanted: []string{"a", "b"}},
		{name: "all-empty", queues: [][]string{{}, {}}, wanted: []string{}},
		{name: "first-empty", queues: [][]string{{}, {"b"}, {"a", "c"}}, wanted: []string{"a", "b", "c"}},
		{name: "five", queues: [][]string{{"a", "f"}, {"b", "g"}, {"c"}, {"d", "h"}, {"e"}}, wanted: []string{"a", "b", "c", "d", "e", "f", "g", "h"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			queues := make([]*Queue, 0, len(tc.queues))
			for _, values := range tc.queues {
				queues = append(queues, fromValues(t, values...))
			}
			require.Equal(t, len(tc.wanted), Merge(queues))
			require.Equal(t, tc.wanted, queues[0].Values())
			checkRing(t, queues[0])
			for _, q := range queues[1:] {
				require.True(t, q.IsEmpty())
				checkRing(t, q)
			}
		})
	}
	require.Equal(t, 0, Merge(nil))
	require.Equal(t, 0, Merge([]*Queue{nil}))
}

func TestMergeSkipsNilQueues(t *testing.T) {
	b := fromValues(t, "b")
	a := fromValues(t, "a", "c")
	require.Equal(t, 3, Merge([]*Queue{nil, b, nil, a}))
	require.Equal(t, []string{"a", "b", "c"}, b.Values())
	require.True(t, a.IsEmpty())
}

func TestMergeIsStableAcrossQueues(t *testing.T) {
	byKey := func(a, b string) int {
		return int(a[0]) - int(b[0])
	}
	queues := []*Queue{
		fromValues(t, "a0", "b0"),
		fromValues(t, "a1", "b1"),
		fromValues(t, "a2"),
	}
	require.Equal(t, 5, MergeFunc(queues, byKey))
	require.Equal(t, []string{"a0", "a1", "a2", "b0", "b1"}, queues[0].Values())
}

func TestMergeNaturalOrder(t *testing.T) {
	queues := []*Queue{fromValues(t, "2", "10"), fromValues(t, "9", "11")}
	require.Equal(t, 4, MergeFunc(queues, Natural))
	require.Equal(t, []string{"2", "9", "10", "11"}, queues[0].Values())
}

func TestMergeRepeatedQueue(t *testing.T) {
	q := fromValues(t, "a", "b")
	other := fromValues(t, "c")
	require.Equal(t, 2, Merge([]*Queue{q, q}))
	require.Equal(t, []string{"a", "b"}, q.Values())
	checkRing(t, q)

	require.Equal(t, 3, Merge([]*Queue{q, other, q, other}))
	require.Equal(t, []string{"a", "b", "c"}, q.Values())
	require.True(t, other.IsEmpty())
	checkRing(t, q)
}
