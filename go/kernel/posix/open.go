package posix

import (
	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

// readPath decodes a path argument that was taken as a plain buffer.
func (k *PosixKernel) readPath(buf co.Buf) (co.Path, bool) {
	if buf.Addr == 0 {
		return co.Path{}, false
	}
	s, err := k.Mem.ReadStrAt(buf.Addr)
	if err != nil {
		return co.Path{}, false
	}
	return co.Path{Buf: buf, Str: s}, true
}

func (k *PosixKernel) openPath(path co.Path, flags int) int64 {
	plan := planOpen(flags)
	if plan.create {
		return result(k.fx.Create(path.Addr, path.Len(), plan.flags))
	}
	fd := k.fx.Open(path.Addr, path.Len())
	if fornax.IsError(fd) {
		return result(fd)
	}
	if plan.truncate {
		if r := k.fx.Truncate(fd, 0); fornax.IsError(r) {
			k.log.Debug("open truncate failed", "path", path.Str, "error", fornax.ErrnoOf(r))
			k.fx.Close(fd)
			return result(r)
		}
	}
	return int64(fd)
}

// Open syscall
func (k *PosixKernel) Open(path co.Path, flags int, mode int) int64 {
	return k.openPath(path, flags)
}

// Openat syscall. Only AT_FDCWD is accepted as the base directory.
func (k *PosixKernel) Openat(dirfd co.Fd, pathBuf co.Buf, flags int, mode int) int64 {
	if dirfd != linux.AT_FDCWD {
		return errno(linux.ENOSYS)
	}
	path, ok := k.readPath(pathBuf)
	if !ok {
		return errno(linux.EFAULT)
	}
	return k.openPath(path, flags)
}

// Creat syscall
func (k *PosixKernel) Creat(path co.Path, mode int) int64 {
	return result(k.fx.Create(path.Addr, path.Len(), 0))
}
