package posix

import (
	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

// nativeStat queries fd into a scratch frame. Any failure of the query itself is EIO.
func (k *PosixKernel) nativeStat(fd uint64) (*fornax.Stat, int64) {
	frame, failed := k.frames.get()
	if failed != 0 {
		return nil, result(failed)
	}
	defer k.frames.put(frame)
	if r := k.fx.Stat(fd, frame); r != 0 {
		return nil, errno(linux.EIO)
	}
	var st fornax.Stat
	if err := k.Mem.StrucAt(frame).Unpack(&st); err != nil {
		return nil, errno(linux.EIO)
	}
	return &st, 0
}

func (k *PosixKernel) packStat(buf co.Obuf, st *fornax.Stat) int64 {
	if err := buf.Pack(StatFromNative(st)); err != nil {
		return errno(linux.EFAULT)
	}
	return 0
}

// statPath is open, stat, close. An open failure is ENOENT whatever the native reason.
func (k *PosixKernel) statPath(path co.Path, buf co.Obuf) int64 {
	fd := k.fx.Open(path.Addr, path.Len())
	if fornax.IsError(fd) {
		return errno(linux.ENOENT)
	}
	st, fail := k.nativeStat(fd)
	k.fx.Close(fd)
	if fail != 0 {
		return fail
	}
	return k.packStat(buf, st)
}

// Stat syscall
func (k *PosixKernel) Stat(path co.Path, buf co.Obuf) int64 {
	return k.statPath(path, buf)
}

// Lstat syscall. There are no symlinks, so it is Stat.
func (k *PosixKernel) Lstat(path co.Path, buf co.Obuf) int64 {
	return k.statPath(path, buf)
}

// Fstat syscall
func (k *PosixKernel) Fstat(fd co.Fd, buf co.Obuf) int64 {
	st, fail := k.nativeStat(uint64(fd))
	if fail != 0 {
		return fail
	}
	return k.packStat(buf, st)
}

// Newfstatat syscall. Only AT_FDCWD is accepted; flags are ignored.
func (k *PosixKernel) Newfstatat(dirfd co.Fd, pathBuf co.Buf, buf co.Obuf, flags int) int64 {
	if dirfd != linux.AT_FDCWD {
		return errno(linux.ENOSYS)
	}
	path, ok := k.readPath(pathBuf)
	if !ok {
		return errno(linux.EFAULT)
	}
	return k.statPath(path, buf)
}
