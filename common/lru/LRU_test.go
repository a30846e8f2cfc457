package lru

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/Qthai16/strqueue/utils/hashkit"
	"github.com/stretchr/testify/require"
)

type evictLog struct {
	keys []string
	mu   sync.Mutex
}

func (l *evictLog) cb(item *LRUItem[int]) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, item.Key)
}

func (l *evictLog) sorted() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := append([]string(nil), l.keys...)
	sort.Strings(keys)
	return keys
}

func TestInvalidConf(t *testing.T) {
	_, err := NewLRUTable[int](0, nil)
	require.ErrorIs(t, err, ErrInvalidParam)
}

func TestLRUTable(t *testing.T) {
	tests := map[string]func(*testing.T, hashkit.HashFn){
		"get/set":      lruTestGetSet,
		"eviction":     lruTestEviction,
		"remove/purge": lruTestRemovePurge,
		"peek":         lruTestPeek,
		"concurrent":   lruTestConcurrent,
	}
	for _, hashName := range []string{hashkit.Jenkins32Name, hashkit.FNV32Name, hashkit.Murmur32Name} {
		hashFn, err := hashkit.Lookup32(hashName)
		require.NoError(t, err)
		for name, testFn := range tests {
			t.Run(hashName+"/"+name, func(t *testing.T) {
				testFn(t, hashFn)
			})
		}
	}
}

func lruTestGetSet(t *testing.T, hashFn hashkit.HashFn) {
	tb, err := NewLRUTableConf(LRUConfig[int]{TableSize: 64, Shards: 4, Hash32: hashFn})
	require.NoError(t, err)
	for i := 0; i < 32; i++ {
		tb.Set(fmt.Sprintf("key_%d", i), i)
	}
	require.Equal(t, uint32(32), tb.Size())
	for i := 0; i < 32; i++ {
		v, ok := tb.Get(fmt.Sprintf("key_%d", i))
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	_, ok := tb.Get("missing")
	require.False(t, ok)

	v, created := tb.GetOrCreate("key_1", func() int { return -1 })
	require.False(t, created)
	require.Equal(t, 1, v)
	v, created = tb.GetOrCreate("fresh", func() int { return 99 })
	require.True(t, created)
	require.Equal(t, 99, v)
}

func lruTestEviction(t *testing.T, hashFn hashkit.HashFn) {
	log := &evictLog{}
	// one shard so the eviction order is fully determined
	tb, err := NewLRUTableConf(LRUConfig[int]{TableSize: 3, Shards: 1, Hash32: hashFn, EvictCb: log.cb})
	require.NoError(t, err)
	tb.Set("a", 1)
	tb.Set("b", 2)
	tb.Set("c", 3)
	_, ok := tb.Get("a") // warm up a, b becomes the oldest
	require.True(t, ok)
	tb.Set("d", 4)
	require.Equal(t, []string{"b"}, log.sorted())
	_, ok = tb.Get("b")
	require.False(t, ok)
	require.Equal(t, uint32(3), tb.Size())

	tb.Set("a", 10) // replace hands the old value to the callback
	require.Equal(t, []string{"a", "b"}, log.sorted())
	v, _ := tb.Get("a")
	require.Equal(t, 10, v)

	var order []string
	require.Equal(t, uint32(3), tb.Traverse(func(item *LRUItem[int]) {
		order = append(order, item.Key)
	}))
	require.Equal(t, []string{"a", "d", "c"}, order)
}

func lruTestRemovePurge(t *testing.T, hashFn hashkit.HashFn) {
	log := &evictLog{}
	tb, err := NewLRUTableConf(LRUConfig[int]{TableSize: 10, Shards: 3, Hash32: hashFn, EvictCb: log.cb})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		tb.Set(fmt.Sprintf("k%d", i), i)
	}
	require.True(t, tb.Remove("k1"))
	require.False(t, tb.Remove("k1"))
	require.Equal(t, []string{"k1"}, log.sorted())
	tb.Purge()
	require.Equal(t, uint32(0), tb.Size())
	require.Equal(t, []string{"k0", "k1", "k2"}, log.sorted())
}

func lruTestConcurrent(t *testing.T, hashFn hashkit.HashFn) {
	const (
		routines      = 5
		keyPerRoutine = 40
	)
	tb, err := NewLRUTableConf(LRUConfig[int]{TableSize: routines * keyPerRoutine, Shards: 8, Hash32: hashFn})
	require.NoError(t, err)
	wg := sync.WaitGroup{}
	wg.Add(routines)
	for r := 0; r < routines; r++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < keyPerRoutine; i++ {
				key := fmt.Sprintf("key_%d", base*keyPerRoutine+i)
				tb.GetOrCreate(key, func() int { return base })
				tb.Get(key)
			}
		}(r)
	}
	wg.Wait()
	require.LessOrEqual(t, tb.Size(), uint32(routines*keyPerRoutine))
	require.Positive(t, tb.Size())
}

func lruTestPeek(t *testing.T, hashFn hashkit.HashFn) {
	log := &evictLog{}
	tb, err := NewLRUTableConf(LRUConfig[int]{TableSize: 2, Shards: 1, Hash32: hashFn, EvictCb: log.cb})
	require.NoError(t, err)
	tb.Set("a", 1)
	tb.Set("b", 2)
	v, ok := tb.Peek("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
	_, ok = tb.Peek("z")
	require.False(t, ok)

	// peek does not warm "a" up, so it is still the first to go
	tb.Set("c", 3)
	require.Equal(t, []string{"a"}, log.sorted())
}
