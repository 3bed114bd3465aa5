package vfornax

import (
	"sync"
	"time"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/models"
)

// futexTable parks waiters per guest address. The word is compared under mu,
// so a wake issued after a store cannot be missed by a waiter that saw the old value.
type futexTable struct {
	mu      sync.Mutex
	waiters map[uint64][]chan struct{}
}

func (f *futexTable) wait(m models.Memory, addr uint64, val uint32, timeout time.Duration) fornax.Errno {
	f.mu.Lock()
	cur, err := m.Load32(addr)
	if err != nil {
		f.mu.Unlock()
		return fornax.EFAULT
	}
	if cur != val {
		f.mu.Unlock()
		return fornax.EAGAIN
	}
	if f.waiters == nil {
		f.waiters = make(map[uint64][]chan struct{})
	}
	ch := make(chan struct{}, 1)
	f.waiters[addr] = append(f.waiters[addr], ch)
	f.mu.Unlock()

	if timeout <= 0 {
		<-ch
		return 0
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
		return 0
	case <-timer.C:
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.remove(addr, ch) {
		// woken while timing out
		return 0
	}
	return fornax.ETIMEDOUT
}

func (f *futexTable) remove(addr uint64, ch chan struct{}) bool {
	list := f.waiters[addr]
	for i, c := range list {
		if c == ch {
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(f.waiters, addr)
			} else {
				f.waiters[addr] = list
			}
			return true
		}
	}
	return false
}

func (f *futexTable) wake(addr uint64, n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.waiters[addr]
	if n > len(list) {
		n = len(list)
	}
	for _, ch := range list[:n] {
		ch <- struct{}{}
	}
	if n == len(list) {
		delete(f.waiters, addr)
	} else {
		f.waiters[addr] = list[n:]
	}
	return n
}

// Waiters reports how many threads are parked on addr.
func (k *Kernel) Waiters(addr uint64) int {
	k.futex.mu.Lock()
	defer k.futex.mu.Unlock()
	return len(k.futex.waiters[addr])
}
