package lru

type LRUItem[V any] struct {
	Key   string
	Value V
}

func NewItem[V any](key string, value V) *LRUItem[V] {
	return &LRUItem[V]{
		Key:   key,
		Value: value,
	}
}
