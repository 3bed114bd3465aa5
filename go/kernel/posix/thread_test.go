package posix

import (
	"encoding/binary"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

// CLONE_VM|FS|FILES|SIGHAND|THREAD|SYSVSEM|SETTLS|PARENT_SETTID|CHILD_CLEARTID
const threadFlags = 0x3d0f00

func TestCloneArgumentOrder(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.rec.override = func(nr uint64, args []uint64, seen int) (uint64, bool) {
		return 7, nr == fornax.SYS_CLONE
	}
	const stack, ptid, ctid, tls = 0x11000, 0x22000, 0x33000, 0x44000
	assert.Equal(t, int64(7), h.call("clone", threadFlags, stack, ptid, ctid, tls))
	require.Len(t, h.rec.calls, 1)
	assert.Equal(t, nativeCall{fornax.SYS_CLONE, []uint64{stack, tls, ctid, ptid, threadFlags}}, h.rec.calls[0])
}

func TestCloneErrors(t *testing.T) {
	h := newHarness(t, nil, nil)
	stack := h.alloc(16)
	// nothing registered at the entry address
	assert.Equal(t, -int64(linux.EINVAL), h.call("clone", threadFlags, int64(stack), 0, 0, 0))
	assert.Equal(t, -int64(linux.EFAULT), h.call("clone", threadFlags, 0xdead0000, 0, 0, 0))
}

func TestFutexPassthrough(t *testing.T) {
	h := newHarness(t, nil, nil)
	word := h.alloc(4)
	require.NoError(t, h.space.Store32(word, 5))
	assert.Equal(t, -int64(linux.EAGAIN), h.call("futex", int64(word), linux.FUTEX_WAIT, 4, 0, 0, 0))
	assert.Equal(t, int64(0), h.call("futex", int64(word), linux.FUTEX_WAKE|0x80, 1, 0, 0, 0))

	ts := h.alloc(16)
	require.NoError(t, h.space.StrucAt(ts).Pack(&linux.Timespec{Nsec: 1000000}))
	assert.Equal(t, -int64(linux.ETIMEDOUT), h.call("futex", int64(word), linux.FUTEX_WAIT, 5, int64(ts), 0, 0))
	assert.Equal(t, nativeCall{fornax.SYS_FUTEX, []uint64{word, linux.FUTEX_WAIT, 5, ts}}, h.rec.calls[len(h.rec.calls)-1])
}

func (h *harness) stack(entry, arg uint64) int64 {
	const size = 0x4000
	base := h.call("mmap", 0, size, protRW, mapAnon, -1, 0)
	require.True(h.t, base > 0, "mmap: %d", base)
	top := uint64(base) + size - 16
	frame := make([]byte, 16)
	binary.LittleEndian.PutUint64(frame, entry)
	binary.LittleEndian.PutUint64(frame[8:], arg)
	require.NoError(h.t, h.space.MemWrite(top, frame))
	return int64(top)
}

func (h *harness) join(ctid uint64) {
	for {
		tid, err := h.space.Load32(ctid)
		require.NoError(h.t, err)
		if tid == 0 {
			return
		}
		h.call("futex", int64(ctid), linux.FUTEX_WAIT, int64(tid), 0, 0, 0)
	}
}

func TestLockedCounter(t *testing.T) {
	const threads, rounds = 4, 1000
	h := newHarness(t, nil, nil)
	lock := h.alloc(4)
	counter := h.alloc(4)

	var mu sync.Mutex
	var errs []error
	entry := h.vk.RegisterEntry(func(arg uint64) {
		for i := 0; i < rounds; i++ {
			if err := h.k.Lock(lock); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				break
			}
			v, _ := h.space.Load32(counter)
			runtime.Gosched()
			h.space.Store32(counter, v+1)
			h.k.Unlock(lock)
		}
		h.call("exit", 0)
	})

	ctids := make([]uint64, threads)
	ptids := make([]uint64, threads)
	for i := range ctids {
		ctids[i] = h.alloc(4)
		ptids[i] = h.alloc(4)
		tid := h.call("clone", threadFlags, h.stack(entry, uint64(i)), int64(ptids[i]), int64(ctids[i]), 0)
		require.True(t, tid > 0, "clone: %d", tid)
		got, err := h.space.Load32(ptids[i])
		require.NoError(t, err)
		assert.Equal(t, uint32(tid), got)
	}
	for _, ctid := range ctids {
		h.join(ctid)
	}
	h.vk.WaitThreads()

	assert.Empty(t, errs)
	total, err := h.space.Load32(counter)
	require.NoError(t, err)
	assert.Equal(t, uint32(threads*rounds), total)
	word, _ := h.space.Load32(lock)
	assert.Equal(t, uint32(0), word)
}

func TestInternalLockGuardsCwd(t *testing.T) {
	h := newHarness(t, nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if j%2 == 0 {
					assert.NoError(t, h.k.SetCwd([]string{"/a", "/b/c"}[i%2]))
				} else {
					assert.Contains(t, []string{"/", "/a", "/b/c"}, h.k.Cwd())
				}
			}
		}(i)
	}
	wg.Wait()
	word, err := h.space.Load32(h.k.lockAddr())
	require.NoError(t, err)
	assert.Equal(t, uint32(0), word)
}
