package posix

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/fornax/vfornax"
	"github.com/lunixbochs/fxshim/go/kernel/fornax/vfornax/memfs"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
	"github.com/lunixbochs/fxshim/go/models"
	"github.com/lunixbochs/fxshim/go/models/mem"
)

const (
	bufBase = 0x100000
	bufSize = 0x40000
)

type nativeCall struct {
	nr   uint64
	args []uint64
}

// recorder logs every native call and can replace results.
type recorder struct {
	fornax.Native
	mu    sync.Mutex
	calls []nativeCall
	// override returns a result to use instead of calling through.
	override func(nr uint64, args []uint64, seen int) (uint64, bool)
}

func (r *recorder) do(nr uint64, args []uint64, next func() uint64) uint64 {
	r.mu.Lock()
	seen := 0
	for _, c := range r.calls {
		if c.nr == nr {
			seen++
		}
	}
	r.calls = append(r.calls, nativeCall{nr, args})
	override := r.override
	r.mu.Unlock()
	if override != nil {
		if ret, ok := override(nr, args, seen+1); ok {
			return ret
		}
	}
	return next()
}

func (r *recorder) Syscall0(nr uint64) uint64 {
	return r.do(nr, nil, func() uint64 { return r.Native.Syscall0(nr) })
}

func (r *recorder) Syscall1(nr, a0 uint64) uint64 {
	return r.do(nr, []uint64{a0}, func() uint64 { return r.Native.Syscall1(nr, a0) })
}

func (r *recorder) Syscall2(nr, a0, a1 uint64) uint64 {
	return r.do(nr, []uint64{a0, a1}, func() uint64 { return r.Native.Syscall2(nr, a0, a1) })
}

func (r *recorder) Syscall3(nr, a0, a1, a2 uint64) uint64 {
	return r.do(nr, []uint64{a0, a1, a2}, func() uint64 { return r.Native.Syscall3(nr, a0, a1, a2) })
}

func (r *recorder) Syscall4(nr, a0, a1, a2, a3 uint64) uint64 {
	return r.do(nr, []uint64{a0, a1, a2, a3}, func() uint64 { return r.Native.Syscall4(nr, a0, a1, a2, a3) })
}

func (r *recorder) Syscall5(nr, a0, a1, a2, a3, a4 uint64) uint64 {
	return r.do(nr, []uint64{a0, a1, a2, a3, a4}, func() uint64 { return r.Native.Syscall5(nr, a0, a1, a2, a3, a4) })
}

func (r *recorder) count(nr uint64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.nr == nr {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

type harness struct {
	t      *testing.T
	k      *PosixKernel
	vk     *vfornax.Kernel
	rec    *recorder
	space  *mem.Space
	fs     *memfs.FS
	stdout bytes.Buffer
	next   uint64
}

func newHarness(t *testing.T, opts *vfornax.Options, config *models.Config) *harness {
	h := &harness{t: t, space: mem.NewSpace(), fs: memfs.New(), next: bufBase}
	if opts == nil {
		opts = &vfornax.Options{}
	}
	opts.Stdout = &h.stdout
	h.vk = vfornax.New(h.space, h.fs, opts)
	h.rec = &recorder{Native: h.vk}
	k, err := New(h.rec, h.space, config)
	require.NoError(t, err)
	h.k = k
	h.space.Map(bufBase, bufSize, "test")
	h.rec.reset()
	return h
}

// alloc carves n bytes out of the test buffer region.
func (h *harness) alloc(n uint64) uint64 {
	addr := h.next
	h.next += (n + 15) &^ 15
	require.True(h.t, h.next <= bufBase+bufSize, "test buffer region exhausted")
	return addr
}

func (h *harness) str(s string) int64 {
	addr := h.alloc(uint64(len(s)) + 1)
	require.NoError(h.t, h.space.MemWrite(addr, append([]byte(s), 0)))
	return int64(addr)
}

func (h *harness) call(name string, args ...int64) int64 {
	num, ok := linux.Numbers[name]
	require.True(h.t, ok, "no number for %s", name)
	var c Call
	c.Num = int64(num)
	copy(c.Args[:], args)
	return h.k.Dispatch(c)
}

func (h *harness) fstat(fd int64) *linux.Stat64 {
	buf := h.alloc(144)
	require.Equal(h.t, int64(0), h.call("fstat", fd, int64(buf)))
	var st linux.Stat64
	require.NoError(h.t, h.space.StrucAt(buf).Unpack(&st))
	return &st
}

func TestEveryNumberHasHandler(t *testing.T) {
	h := newHarness(t, nil, nil)
	for num, name := range linux.Names {
		assert.NotNil(t, co.Lookup(h.k, name), "%d %s", num, name)
	}
}

func TestUnknownNumbers(t *testing.T) {
	h := newHarness(t, nil, nil)
	enosys := -int64(linux.ENOSYS)
	for num := int64(-5); num < 600; num++ {
		if _, ok := linux.Names[int(num)]; ok {
			continue
		}
		assert.Equal(t, enosys, h.k.Dispatch(Call{Num: num, Args: [6]int64{1, 2, 3, 4, 5, 6}}), "num %d", num)
	}
	assert.Equal(t, enosys, h.k.Syscall(1<<40, 0, 0, 0, 0, 0, 0))
	assert.Equal(t, 0, len(h.rec.calls), "unknown numbers must not reach the kernel")
}

func TestBadPointerIsFault(t *testing.T) {
	h := newHarness(t, nil, nil)
	efault := -int64(linux.EFAULT)
	assert.Equal(t, efault, h.call("open", 0, 0))
	assert.Equal(t, efault, h.call("stat", 0xdead0000, int64(h.alloc(144))))
	assert.Equal(t, efault, h.call("openat", linux.AT_FDCWD, 0, 0))
	assert.Equal(t, efault, h.call("uname", 0))
}

func TestNativeErrorsTranslate(t *testing.T) {
	assert.Equal(t, int64(5), result(5))
	assert.Equal(t, -int64(linux.ENOENT), result(fornax.ENOENT.Ret()))
	assert.Equal(t, -int64(linux.ETIMEDOUT), result(fornax.ETIMEDOUT.Ret()))
	// codes without a foreign counterpart
	assert.Equal(t, -int64(linux.EIO), result(fornax.Errno(4000).Ret()))
	assert.Equal(t, linux.EIO, ForeignErrno(fornax.Errno(77)))
}

func TestExitNeverReturns(t *testing.T) {
	h := newHarness(t, nil, nil)
	// a kernel whose exit comes back
	h.rec.override = func(nr uint64, args []uint64, seen int) (uint64, bool) {
		return 0, nr == fornax.SYS_EXIT
	}
	assert.PanicsWithValue(t, ErrExitReturned, func() { h.call("exit", 0) })
	assert.PanicsWithValue(t, ErrExitReturned, func() { h.call("exit_group", 1) })
	assert.Equal(t, 2, h.rec.count(fornax.SYS_EXIT))

	h.rec.override = nil
	code := h.vk.Run(func() {
		h.call("exit_group", 3)
		t.Error("exit_group returned")
	})
	assert.Equal(t, 3, code)

	for _, name := range []string{"exit", "exit_group"} {
		code = h.vk.Run(func() {
			h.call(name, -1)
			t.Errorf("%s(-1) returned", name)
		})
		assert.Equal(t, -1, code, name)
	}
}

func TestNegativeIntArgs(t *testing.T) {
	h := newHarness(t, nil, nil)
	ts := h.alloc(16)
	assert.Equal(t, int64(0), h.call("clock_gettime", -2, int64(ts)))
	iov := h.alloc(16)
	assert.Equal(t, -int64(linux.EINVAL), h.call("readv", 0, int64(iov), -1))
	assert.Equal(t, -int64(linux.EINVAL), h.call("writev", 1, int64(iov), -1))
	assert.Equal(t, -int64(linux.ENOSYS), h.call("fcntl", 0, -1, 0))
}

func TestSyscallCP(t *testing.T) {
	h := newHarness(t, nil, nil)
	assert.Equal(t, int64(1), h.k.SyscallCP(int64(linux.Numbers["getpid"]), 0, 0, 0, 0, 0, 0))
	assert.Equal(t, int64(1), h.call("gettid"))
	assert.Equal(t, int64(1), h.call("set_tid_address", int64(h.alloc(4))))
}

type callLog struct {
	nums []int64
	rets []int64
}

func (c *callLog) Record(num int64, args [6]int64, ret int64) error {
	c.nums = append(c.nums, num)
	c.rets = append(c.rets, ret)
	return nil
}

func TestTraceAndRecord(t *testing.T) {
	var out bytes.Buffer
	h := newHarness(t, nil, &models.Config{TraceSys: true, Output: &out})
	log := &callLog{}
	h.k.Recorder = log
	msg := h.str("hi")
	assert.Equal(t, int64(2), h.call("write", 1, msg, 2))
	assert.Equal(t, -int64(linux.ENOSYS), h.call("getdents64", 3, 0, 0))
	h.k.Dispatch(Call{Num: 41})
	assert.Equal(t, "hi", h.stdout.String())
	assert.Equal(t, "write(1, \"hi\", 2) = 0x2\n"+
		"getdents64() = -1 ENOSYS\n"+
		"socket(...) = -1 ENOSYS\n", out.String())
	assert.Equal(t, []int64{1, 217, 41}, log.nums)
	assert.Equal(t, []int64{2, -38, -38}, log.rets)
}
