package vfornax

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/models"
)

const (
	entryBase = 0x400000
	// futex ops may carry FUTEX_PRIVATE_FLAG
	futexCmdMask = 0x7f
)

// RegisterEntry gives fn a code address that can be placed on a clone stack.
// A cloned thread starts by calling fn with the argument word stored above it.
func (k *Kernel) RegisterEntry(fn func(arg uint64)) uint64 {
	k.entryMu.Lock()
	defer k.entryMu.Unlock()
	addr := uint64(entryBase + 0x10*len(k.entries))
	k.entries[addr] = fn
	return addr
}

func (k *Kernel) entry(addr uint64) func(uint64) {
	k.entryMu.Lock()
	defer k.entryMu.Unlock()
	return k.entries[addr]
}

// Clone syscall. The child stack holds the entry address at stack[0] and its
// argument at stack[8]. The new thread id is stored at ptid and ctid; when the
// thread ends ctid is cleared and woken so joiners can wait on it.
func (k *Kernel) Clone(stack, tls, ctid, ptid co.Ptr, flags uint64) uint64 {
	frame, err := k.space.MemRead(uint64(stack), 16)
	if err != nil {
		return fornax.EFAULT.Ret()
	}
	fn := k.entry(binary.LittleEndian.Uint64(frame))
	if fn == nil {
		return fornax.EINVAL.Ret()
	}
	arg := binary.LittleEndian.Uint64(frame[8:])
	tid := atomic.AddUint64(&k.nextTid, 1)
	for _, p := range []co.Ptr{ptid, ctid} {
		if p != 0 {
			if err := k.space.Store32(uint64(p), uint32(tid)); err != nil {
				return fornax.EFAULT.Ret()
			}
		}
	}
	k.threads.Add(1)
	k.log.Debug("thread start", "tid", tid, "stack", hclog.Fmt("%#x", stack), "tls", hclog.Fmt("%#x", tls))
	go k.runThread(tid, uint64(ctid), fn, arg)
	return tid
}

func (k *Kernel) runThread(tid, ctid uint64, fn func(uint64), arg uint64) {
	defer k.threads.Done()
	defer func() {
		if ctid != 0 {
			k.space.Store32(ctid, 0)
			k.futex.wake(ctid, 1<<30)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(models.ExitStatus); !ok {
				panic(r)
			}
		}
		k.log.Debug("thread exit", "tid", tid)
	}()
	fn(arg)
}

// WaitThreads blocks until every cloned thread has ended.
func (k *Kernel) WaitThreads() {
	k.threads.Wait()
}

// Futex syscall
func (k *Kernel) Futex(addr co.Ptr, op, val uint64, timeout co.Ptr) uint64 {
	if addr%4 != 0 {
		return fornax.EINVAL.Ret()
	}
	switch op & futexCmdMask {
	case fornax.FUTEX_WAIT:
		var d time.Duration
		if timeout != 0 {
			var ts fornax.Timespec
			if err := k.space.StrucAt(uint64(timeout)).Unpack(&ts); err != nil {
				return fornax.EFAULT.Ret()
			}
			if ts.Sec < 0 || ts.Nsec < 0 {
				return fornax.EINVAL.Ret()
			}
			d = time.Duration(ts.Sec)*time.Second + time.Duration(ts.Nsec)
			if d == 0 {
				d = 1
			}
		}
		return k.futex.wait(k.space, uint64(addr), uint32(val), d).Ret()
	case fornax.FUTEX_WAKE:
		n := int(int32(val))
		if n < 0 {
			n = 0
		}
		return uint64(k.futex.wake(uint64(addr), n))
	default:
		return fornax.ENOSYS.Ret()
	}
}
