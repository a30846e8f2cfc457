package lru

import (
	"errors"
	"sync"

	"github.com/Qthai16/strqueue/common"
	"github.com/Qthai16/strqueue/utils/hashkit"
)

var ErrInvalidParam = errors.New("invalid param")

type (
	EvictItemCb[V any]    func(item *LRUItem[V])
	TraverseItemFn[V any] func(item *LRUItem[V])

	LRUConfig[V any] struct {
		TableSize uint32 // max stored items over all shards
		Shards    uint32 // number of independently locked shards
		Hash32    hashkit.HashFn
		EvictCb   EvictItemCb[V] // called without any shard lock held
	}

	LRUTable[V any] struct {
		LRUConfig[V]
		shards []shard[V]
	}

	shard[V any] struct {
		mu       sync.Mutex
		items    map[string]*common.DequeElement[*LRUItem[V]]
		order    *common.Deque[*LRUItem[V]] // most recently used first
		capacity int
	}
)

const (
	DefaultShards = 16
)

var defaultHash = hashkit.Jenkins

func dummyEvictCb[V any](item *LRUItem[V]) {}

func NewLRUTable[V any](tableSize uint32, evictCb EvictItemCb[V]) (*LRUTable[V], error) {
	return NewLRUTableConf(LRUConfig[V]{
		TableSize: tableSize,
		Shards:    DefaultShards,
		Hash32:    defaultHash,
		EvictCb:   evictCb,
	})
}

func NewLRUTableConf[V any](config LRUConfig[V]) (*LRUTable[V], error) {
	if config.TableSize == 0 {
		return nil, ErrInvalidParam
	}
	if config.Shards == 0 {
		config.Shards = DefaultShards
	}
	if config.Shards > config.TableSize {
		config.Shards = config.TableSize
	}
	if config.Hash32 == nil {
		config.Hash32 = defaultHash
	}
	if config.EvictCb == nil {
		config.EvictCb = dummyEvictCb[V]
	}
	tb := &LRUTable[V]{
		LRUConfig: config,
		shards:    make([]shard[V], config.Shards),
	}
	// spread TableSize over the shards, the first ones take the remainder
	per, rest := config.TableSize/config.Shards, config.TableSize%config.Shards
	for i := range tb.shards {
		capacity := int(per)
		if uint32(i) < rest {
			capacity++
		}
		tb.shards[i] = shard[V]{
			items:    make(map[string]*common.DequeElement[*LRUItem[V]]),
			order:    common.NewDeque[*LRUItem[V]](),
			capacity: capacity,
		}
	}
	return tb, nil
}

func (p *LRUTable[V]) shardOf(key string) *shard[V] {
	return &p.shards[p.Hash32([]byte(key))%uint32(len(p.shards))]
}

// Get returns the value stored under key and warms it up.
func (p *LRUTable[V]) Get(key string) (v V, ok bool) {
	s := p.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	if !ok {
		return v, false
	}
	s.order.MoveToFront(e)
	return e.Value.Value, true
}

// Peek returns the value stored under key without warming it up.
func (p *LRUTable[V]) Peek(key string) (v V, ok bool) {
	s := p.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	if !ok {
		return v, false
	}
	return e.Value.Value, true
}

// GetOrCreate returns the value under key, creating it with ctor when
// missing. created reports whether ctor ran.
func (p *LRUTable[V]) GetOrCreate(key string, ctor func() V) (v V, created bool) {
	s := p.shardOf(key)
	s.mu.Lock()
	if e, ok := s.items[key]; ok {
		s.order.MoveToFront(e)
		s.mu.Unlock()
		return e.Value.Value, false
	}
	v = ctor()
	evicted := s.insert(key, v)
	s.mu.Unlock()
	p.evict(evicted)
	return v, true
}

// Set adds or replaces the value under key and warms it up. A replaced value
// goes through EvictCb.
func (p *LRUTable[V]) Set(key string, value V) {
	s := p.shardOf(key)
	s.mu.Lock()
	var evicted []*LRUItem[V]
	if e, ok := s.items[key]; ok {
		evicted = append(evicted, NewItem(key, e.Value.Value))
		e.Value.Value = value
		s.order.MoveToFront(e)
	} else {
		evicted = s.insert(key, value)
	}
	s.mu.Unlock()
	p.evict(evicted)
}

// Remove drops key from the table, passing it to EvictCb.
func (p *LRUTable[V]) Remove(key string) bool {
	s := p.shardOf(key)
	s.mu.Lock()
	e, ok := s.items[key]
	if ok {
		delete(s.items, key)
		s.order.Remove(e)
	}
	s.mu.Unlock()
	if ok {
		p.evict([]*LRUItem[V]{e.Value})
	}
	return ok
}

func (p *LRUTable[V]) Purge() {
	for i := range p.shards {
		s := &p.shards[i]
		s.mu.Lock()
		evicted := make([]*LRUItem[V], 0, len(s.items))
		for e := s.order.PopBack(); e != nil; e = s.order.PopBack() {
			evicted = append(evicted, e.Value)
		}
		s.items = make(map[string]*common.DequeElement[*LRUItem[V]])
		s.mu.Unlock()
		p.evict(evicted)
	}
}

func (p *LRUTable[V]) Size() uint32 {
	var n uint32
	for i := range p.shards {
		s := &p.shards[i]
		s.mu.Lock()
		n += uint32(s.order.Size())
		s.mu.Unlock()
	}
	return n
}

// Traverse visits every item, shard by shard, latest first within a shard.
func (p *LRUTable[V]) Traverse(fn TraverseItemFn[V]) (cnt uint32) {
	for i := range p.shards {
		s := &p.shards[i]
		s.mu.Lock()
		s.order.Each(func(item *LRUItem[V]) {
			fn(item)
			cnt++
		})
		s.mu.Unlock()
	}
	return cnt
}

// insert links a new item at the front and returns what had to make room.
// Caller holds s.mu.
func (s *shard[V]) insert(key string, value V) []*LRUItem[V] {
	var evicted []*LRUItem[V]
	for s.order.Size() >= s.capacity {
		e := s.order.PopBack()
		delete(s.items, e.Value.Key)
		evicted = append(evicted, e.Value)
	}
	s.items[key] = s.order.PushFront(NewItem(key, value))
	return evicted
}

func (p *LRUTable[V]) evict(items []*LRUItem[V]) {
	for _, item := range items {
		p.EvictCb(item)
	}
}
