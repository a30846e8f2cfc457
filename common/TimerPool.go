package common

import (
	"sync"
	"time"

	"github.com/Qthai16/strqueue/utils"
)

var _TimerPool sync.Pool

// BorrowTimer returns a stopped timer from the pool, reset to fire after d.
func BorrowTimer(d time.Duration) *time.Timer {
	x := _TimerPool.Get()
	if x == nil {
		return time.NewTimer(d)
	}
	t := x.(*time.Timer)
	if t.Reset(d) {
		utils.LogFatal("[timer_pool] pool returned an active timer")
	}
	return t
}

// ReturnTimer stops t, drains a pending fire and puts it back.
func ReturnTimer(t *time.Timer) {
	if !t.Stop() && len(t.C) != 0 {
		<-t.C
	}
	_TimerPool.Put(t)
}

// WaitTimeout waits for a value on ch for at most d using a pooled timer.
func WaitTimeout[T any](ch <-chan T, d time.Duration) (v T, ok bool, timedOut bool) {
	t := BorrowTimer(d)
	defer ReturnTimer(t)
	select {
	case v, ok = <-ch:
		return v, ok, false
	case <-t.C:
		return v, false, true
	}
}
