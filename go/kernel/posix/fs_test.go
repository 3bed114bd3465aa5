package posix

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

func TestPlanOpen(t *testing.T) {
	assert.Equal(t, openPlan{}, planOpen(linux.O_RDWR))
	assert.Equal(t, openPlan{truncate: true}, planOpen(linux.O_WRONLY|linux.O_TRUNC))
	assert.Equal(t, openPlan{create: true}, planOpen(linux.O_CREAT|linux.O_TRUNC|linux.O_WRONLY))
	assert.Equal(t, openPlan{create: true, flags: fornax.O_DIR}, planOpen(linux.O_CREAT|linux.O_DIRECTORY))
	assert.Equal(t, openPlan{create: true, flags: fornax.O_DIR | fornax.O_APPEND},
		planOpen(linux.O_CREAT|linux.O_DIRECTORY|linux.O_APPEND))
	// modifiers only matter to create
	assert.Equal(t, openPlan{}, planOpen(linux.O_DIRECTORY|linux.O_APPEND))
}

func TestOpenFlagsStatType(t *testing.T) {
	h := newHarness(t, nil, nil)
	for i, flags := range []int{
		linux.O_CREAT | linux.O_RDWR,
		linux.O_CREAT | linux.O_WRONLY | linux.O_TRUNC,
		linux.O_CREAT | linux.O_APPEND | linux.O_WRONLY,
		linux.O_CREAT | linux.O_DIRECTORY,
		linux.O_CREAT | linux.O_DIRECTORY | linux.O_APPEND,
	} {
		path := h.str("/node" + string(rune('a'+i)))
		fd := h.call("open", path, int64(flags), 0644)
		require.True(t, fd >= 3, "flags %#x: %d", flags, fd)
		st := h.fstat(fd)
		if flags&linux.O_DIRECTORY != 0 {
			assert.Equal(t, uint32(linux.S_IFDIR), st.Mode&linux.S_IFMT, "flags %#x", flags)
		} else {
			assert.Equal(t, uint32(linux.S_IFREG), st.Mode&linux.S_IFMT, "flags %#x", flags)
		}
		assert.Equal(t, uint64(1), st.Nlink)
		assert.Equal(t, uint64(1), st.Ino)
		assert.Equal(t, int64(4096), st.Blksize)
		assert.Equal(t, int64(0), h.call("close", fd))
	}
}

func TestOpenTruncate(t *testing.T) {
	h := newHarness(t, nil, nil)
	require.NoError(t, h.fs.WriteFile("/log", []byte("old contents")))
	path := h.str("/log")

	fd := h.call("open", path, linux.O_RDWR, 0)
	require.True(t, fd >= 0)
	assert.Equal(t, int64(12), h.fstat(fd).Size)
	assert.Equal(t, 0, h.rec.count(fornax.SYS_TRUNCATE))
	h.call("close", fd)

	h.rec.reset()
	fd = h.call("open", path, linux.O_WRONLY|linux.O_TRUNC, 0)
	require.True(t, fd >= 0)
	require.Len(t, h.rec.calls, 2)
	assert.Equal(t, uint64(fornax.SYS_OPEN), h.rec.calls[0].nr)
	assert.Equal(t, nativeCall{fornax.SYS_TRUNCATE, []uint64{uint64(fd), 0}}, h.rec.calls[1])
	assert.Equal(t, int64(0), h.fstat(fd).Size)

	assert.Equal(t, -int64(linux.ENOENT), h.call("open", h.str("/missing"), linux.O_RDONLY, 0))
}

func TestOpenTruncateFails(t *testing.T) {
	h := newHarness(t, nil, nil)
	require.NoError(t, h.fs.WriteFile("/log", []byte("old contents")))
	h.rec.override = func(nr uint64, args []uint64, seen int) (uint64, bool) {
		return fornax.ENOSPC.Ret(), nr == fornax.SYS_TRUNCATE
	}
	assert.Equal(t, -int64(linux.ENOSPC), h.call("open", h.str("/log"), linux.O_WRONLY|linux.O_TRUNC, 0))
	require.Len(t, h.rec.calls, 3)
	assert.Equal(t, uint64(fornax.SYS_CLOSE), h.rec.calls[2].nr)
	assert.Equal(t, h.rec.calls[1].args[0], h.rec.calls[2].args[0])

	h.rec.override = nil
	fd := h.call("open", h.str("/log"), linux.O_RDONLY, 0)
	require.True(t, fd >= 0)
	assert.Equal(t, int64(12), h.fstat(fd).Size)
}

func TestOpenCreateUsesLength(t *testing.T) {
	h := newHarness(t, nil, nil)
	path := h.str("/dir/../file.txt")
	fd := h.call("creat", path, 0644)
	require.True(t, fd >= 0)
	require.Len(t, h.rec.calls, 1)
	assert.Equal(t, nativeCall{fornax.SYS_CREATE, []uint64{uint64(path), 16, 0}}, h.rec.calls[0])
	assert.Contains(t, h.fs.Paths(), "/file.txt")
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 4095, 4096, 65536} {
		h := newHarness(t, nil, nil)
		data := bytes.Repeat([]byte("fornax!"), n/7+1)[:n]
		src := h.alloc(uint64(n))
		dst := h.alloc(uint64(n))
		require.NoError(t, h.space.MemWrite(src, data))

		fd := h.call("open", h.str("/rt"), linux.O_CREAT|linux.O_RDWR, 0644)
		require.True(t, fd >= 0)
		assert.Equal(t, int64(n), h.call("write", fd, int64(src), int64(n)), "n=%d", n)
		assert.Equal(t, int64(0), h.call("lseek", fd, 0, linux.SEEK_SET))

		// split the read across two segments
		half := uint64(n / 2)
		iov := h.alloc(32)
		require.NoError(t, h.space.StrucAt(iov).Pack(&linux.Iovec{Base: dst, Len: half}))
		require.NoError(t, h.space.StrucAt(iov+16).Pack(&linux.Iovec{Base: dst + half, Len: uint64(n) - half}))
		assert.Equal(t, int64(n), h.call("readv", fd, int64(iov), 2), "n=%d", n)

		got, err := h.space.MemRead(dst, uint64(n))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(data, got), "n=%d", n)
	}
}

func (h *harness) iovecs(lens ...uint64) (int64, uint64) {
	var total uint64
	for _, l := range lens {
		total += l
	}
	data := h.alloc(total)
	iov := h.alloc(uint64(16 * len(lens)))
	off := data
	for i, l := range lens {
		require.NoError(h.t, h.space.StrucAt(iov+uint64(16*i)).Pack(&linux.Iovec{Base: off, Len: l}))
		off += l
	}
	return int64(iov), data
}

func TestReadvShortRead(t *testing.T) {
	h := newHarness(t, nil, nil)
	require.NoError(t, h.fs.WriteFile("/six", []byte("abcdef")))
	fd := h.call("open", h.str("/six"), linux.O_RDONLY, 0)
	require.True(t, fd >= 0)
	iov, data := h.iovecs(4, 4, 4)

	h.rec.reset()
	assert.Equal(t, int64(6), h.call("readv", fd, iov, 3))
	assert.Equal(t, 2, h.rec.count(fornax.SYS_READ), "third segment must not be read")
	got, _ := h.space.MemRead(data, 6)
	assert.Equal(t, "abcdef", string(got))
}

func TestReadvSkipsEmpty(t *testing.T) {
	h := newHarness(t, nil, nil)
	require.NoError(t, h.fs.WriteFile("/f", []byte("xyz")))
	fd := h.call("open", h.str("/f"), linux.O_RDONLY, 0)
	iov, _ := h.iovecs(0, 3, 0)
	h.rec.reset()
	assert.Equal(t, int64(3), h.call("readv", fd, iov, 3))
	assert.Equal(t, 1, h.rec.count(fornax.SYS_READ))
	assert.Equal(t, -int64(linux.EINVAL), h.call("readv", fd, iov, -1))
}

func TestWritevStopsOnError(t *testing.T) {
	h := newHarness(t, nil, nil)
	fd := h.call("open", h.str("/sink"), linux.O_CREAT|linux.O_WRONLY, 0644)
	require.True(t, fd >= 0)
	iov, _ := h.iovecs(3, 3, 3)

	h.rec.reset()
	h.rec.override = func(nr uint64, args []uint64, seen int) (uint64, bool) {
		return fornax.ENOSPC.Ret(), nr == fornax.SYS_WRITE && seen == 2
	}
	assert.Equal(t, -int64(linux.ENOSPC), h.call("writev", fd, iov, 3))
	assert.Equal(t, 2, h.rec.count(fornax.SYS_WRITE), "third segment must not be attempted")

	h.rec.override = nil
	h.rec.reset()
	assert.Equal(t, int64(9), h.call("writev", fd, iov, 3))
	assert.Equal(t, 3, h.rec.count(fornax.SYS_WRITE))
}

func TestStatErrors(t *testing.T) {
	h := newHarness(t, nil, nil)
	require.NoError(t, h.fs.WriteFile("/present", []byte("12345")))
	buf := int64(h.alloc(144))

	assert.Equal(t, -int64(linux.ENOENT), h.call("stat", h.str("/absent"), buf))
	assert.Equal(t, -int64(linux.ENOENT), h.call("newfstatat", linux.AT_FDCWD, h.str("/absent"), buf, 0))

	path := h.str("/present")
	assert.Equal(t, int64(0), h.call("lstat", path, buf))
	var st linux.Stat64
	require.NoError(t, h.space.StrucAt(uint64(buf)).Unpack(&st))
	assert.Equal(t, int64(5), st.Size)
	assert.Equal(t, int64(1), st.Blocks)
	assert.Equal(t, st.Mtime, st.Atime)

	h.rec.reset()
	h.rec.override = func(nr uint64, args []uint64, seen int) (uint64, bool) {
		return fornax.EBADF.Ret(), nr == fornax.SYS_STAT
	}
	assert.Equal(t, -int64(linux.EIO), h.call("stat", path, buf))
	assert.Equal(t, 1, h.rec.count(fornax.SYS_CLOSE), "descriptor is closed after a failed query")
	assert.Equal(t, -int64(linux.EIO), h.call("fstat", 1, buf))
	assert.Equal(t, -int64(linux.ENOSYS), h.call("newfstatat", 3, path, buf, 0))
}

func TestStatFromNative(t *testing.T) {
	st := StatFromNative(&fornax.Stat{Size: 513, Type: fornax.FileDir, Mtime: 99, Mode: 0755, Uid: 3, Gid: 4})
	assert.Equal(t, uint32(linux.S_IFDIR|0755), st.Mode)
	assert.Equal(t, int64(2), st.Blocks)
	assert.Equal(t, uint32(3), st.Uid)
	assert.Equal(t, uint32(4), st.Gid)
	assert.Equal(t, uint64(99), st.Ctime)
	st = StatFromNative(&fornax.Stat{Mode: 0600})
	assert.Equal(t, uint32(linux.S_IFREG|0600), st.Mode)
	assert.Equal(t, int64(0), st.Blocks)
}

func TestPathCalls(t *testing.T) {
	h := newHarness(t, nil, nil)
	enosys := -int64(linux.ENOSYS)

	assert.Equal(t, int64(0), h.call("mkdir", h.str("/d"), 0755))
	assert.Equal(t, int64(0), h.call("mkdirat", linux.AT_FDCWD, h.str("/d/e"), 0755))
	assert.Equal(t, enosys, h.call("mkdirat", 4, h.str("/x"), 0755))
	assert.Equal(t, -int64(linux.EEXIST), h.call("mkdir", h.str("/d"), 0755))
	// mkdir leaves no descriptor behind
	assert.Len(t, h.vk.Fds(), 3)

	require.NoError(t, h.fs.WriteFile("/d/f", []byte("x")))
	assert.Equal(t, int64(0), h.call("access", h.str("/d/f"), 4))
	assert.Equal(t, -int64(linux.ENOENT), h.call("access", h.str("/d/g"), 0))

	assert.Equal(t, int64(0), h.call("rename", h.str("/d/f"), h.str("/d/g")))
	assert.Equal(t, int64(0), h.call("renameat", linux.AT_FDCWD, h.str("/d/g"), linux.AT_FDCWD, h.str("/g")))
	assert.Equal(t, enosys, h.call("renameat", linux.AT_FDCWD, h.str("/g"), 5, h.str("/h")))
	assert.Equal(t, enosys, h.call("renameat2", linux.AT_FDCWD, h.str("/g"), linux.AT_FDCWD, h.str("/h"), 1))
	assert.Equal(t, int64(0), h.call("renameat2", linux.AT_FDCWD, h.str("/g"), linux.AT_FDCWD, h.str("/h"), 0))
	assert.Equal(t, -int64(linux.ENOENT), h.call("rename", h.str("/g"), h.str("/i")))

	assert.Equal(t, -int64(linux.ENOTEMPTY), h.call("rmdir", h.str("/d")))
	assert.Equal(t, int64(0), h.call("unlinkat", linux.AT_FDCWD, h.str("/d/e"), 0x200))
	assert.Equal(t, int64(0), h.call("rmdir", h.str("/d")))
	assert.Equal(t, enosys, h.call("unlinkat", 7, h.str("/h"), 0))
	assert.Equal(t, int64(0), h.call("unlink", h.str("/h")))
	assert.Equal(t, []string{"/"}, h.fs.Paths())

	assert.Equal(t, enosys, h.call("openat", 3, h.str("/h"), linux.O_CREAT, 0))
	assert.Equal(t, enosys, h.call("openat", 3, 0, 0, 0), "base directory is checked first")
}

func TestDescriptorCalls(t *testing.T) {
	h := newHarness(t, nil, nil)
	fd := h.call("open", h.str("/f"), linux.O_CREAT|linux.O_RDWR, 0644)
	require.Equal(t, int64(3), fd)

	assert.Equal(t, int64(4), h.call("dup", fd))
	assert.Equal(t, int64(9), h.call("dup2", fd, 9))
	assert.Equal(t, int64(5), h.call("fcntl", fd, linux.F_DUPFD, 0))
	for _, cmd := range []int64{linux.F_GETFD, linux.F_SETFD, linux.F_GETFL, linux.F_SETFL} {
		assert.Equal(t, int64(0), h.call("fcntl", fd, cmd, 1))
	}
	assert.Equal(t, -int64(linux.ENOSYS), h.call("fcntl", fd, 1030, 0))

	buf := h.str("hello")
	assert.Equal(t, int64(5), h.call("write", 9, buf, 5))
	assert.Equal(t, int64(0), h.call("ftruncate", fd, 2))
	assert.Equal(t, int64(2), h.fstat(4).Size)
	assert.Equal(t, int64(2), h.call("lseek", fd, 0, linux.SEEK_END))
	assert.Equal(t, -int64(linux.EBADF), h.call("close", 77))
}
