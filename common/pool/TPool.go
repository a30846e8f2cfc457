package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

type TPoolConfig[T any] struct {
	Generate func() *T // allocates a fresh T, new(T) when nil
	Reset    func(*T)  // runs on every Get
	Cleanup  func(*T)  // runs on every Put
}

// TPool is a typed sync.Pool that counts how often it had to allocate.
type TPool[T any] struct {
	conf   TPoolConfig[T]
	pool   sync.Pool
	gets   atomic.Int64
	allocs atomic.Int64
}

func NewTPool[T any](conf TPoolConfig[T]) *TPool[T] {
	if conf.Generate == nil {
		conf.Generate = func() *T {
			return new(T)
		}
	}
	p := &TPool[T]{conf: conf}
	p.pool.New = func() any {
		p.allocs.Add(1)
		return p.conf.Generate()
	}
	return p
}

func (p *TPool[T]) Get() *T {
	p.gets.Add(1)
	v := p.pool.Get().(*T)
	if p.conf.Reset != nil {
		p.conf.Reset(v)
	}
	return v
}

// Put hands *v back and clears the caller's reference.
func (p *TPool[T]) Put(v **T) {
	if v == nil || *v == nil {
		return
	}
	if p.conf.Cleanup != nil {
		p.conf.Cleanup(*v)
	}
	p.pool.Put(*v)
	*v = nil
}

// Counts reports the number of Get calls and of values allocated to serve
// them.
func (p *TPool[T]) Counts() (gets, allocs int64) {
	return p.gets.Load(), p.allocs.Load()
}

// NewBufferPool pools output buffers, handed out empty.
func NewBufferPool() *TPool[bytes.Buffer] {
	return NewTPool(TPoolConfig[bytes.Buffer]{
		Reset: func(b *bytes.Buffer) {
			b.Reset()
		},
	})
}
