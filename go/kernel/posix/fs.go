package posix

import (
	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

// Read syscall
func (k *PosixKernel) Read(fd co.Fd, buf co.Obuf, size co.Len) int64 {
	return result(k.fx.Read(uint64(fd), buf.Addr, uint64(size)))
}

// Write syscall
func (k *PosixKernel) Write(fd co.Fd, buf co.Buf, size co.Len) int64 {
	return result(k.fx.Write(uint64(fd), buf.Addr, uint64(size)))
}

// Close syscall
func (k *PosixKernel) Close(fd co.Fd) int64 {
	return result(k.fx.Close(uint64(fd)))
}

// Lseek syscall
func (k *PosixKernel) Lseek(fd co.Fd, offset co.Off, whence int) int64 {
	return result(k.fx.Seek(uint64(fd), uint64(offset), uint64(whence)))
}

// Dup syscall
func (k *PosixKernel) Dup(fd co.Fd) int64 {
	return result(k.fx.Dup(uint64(fd)))
}

// Dup2 syscall
func (k *PosixKernel) Dup2(oldFd, newFd co.Fd) int64 {
	return result(k.fx.Dup2(uint64(oldFd), uint64(newFd)))
}

// Fcntl syscall. Descriptor and status flags are not tracked: get returns 0, set is dropped.
func (k *PosixKernel) Fcntl(fd co.Fd, cmd int, arg uint64) int64 {
	if cmd == linux.F_DUPFD {
		return result(k.fx.Dup(uint64(fd)))
	}
	if p, ok := FcntlStubs[cmd]; ok {
		return p.Ret()
	}
	k.log.Debug("unsupported fcntl", "fd", fd, "cmd", cmd)
	return Stubs["fcntl"].Ret()
}

// Ftruncate syscall
func (k *PosixKernel) Ftruncate(fd co.Fd, length co.Len) int64 {
	return result(k.fx.Truncate(uint64(fd), uint64(length)))
}

func (k *PosixKernel) rename(oldPath, newPath co.Path) int64 {
	return result(k.fx.Rename(oldPath.Addr, oldPath.Len(), newPath.Addr, newPath.Len()))
}

// Rename syscall
func (k *PosixKernel) Rename(oldPath, newPath co.Path) int64 {
	return k.rename(oldPath, newPath)
}

func (k *PosixKernel) renameAt(oldDir co.Fd, oldBuf co.Buf, newDir co.Fd, newBuf co.Buf) int64 {
	if oldDir != linux.AT_FDCWD || newDir != linux.AT_FDCWD {
		return errno(linux.ENOSYS)
	}
	oldPath, ok := k.readPath(oldBuf)
	if !ok {
		return errno(linux.EFAULT)
	}
	newPath, ok := k.readPath(newBuf)
	if !ok {
		return errno(linux.EFAULT)
	}
	return k.rename(oldPath, newPath)
}

// Renameat syscall
func (k *PosixKernel) Renameat(oldDir co.Fd, oldPath co.Buf, newDir co.Fd, newPath co.Buf) int64 {
	return k.renameAt(oldDir, oldPath, newDir, newPath)
}

// Renameat2 syscall. No rename flags are supported.
func (k *PosixKernel) Renameat2(oldDir co.Fd, oldPath co.Buf, newDir co.Fd, newPath co.Buf, flags uint64) int64 {
	if flags != 0 {
		return errno(linux.ENOSYS)
	}
	return k.renameAt(oldDir, oldPath, newDir, newPath)
}

func (k *PosixKernel) mkdir(path co.Path) int64 {
	fd := k.fx.Create(path.Addr, path.Len(), fornax.O_DIR)
	if fornax.IsError(fd) {
		return result(fd)
	}
	k.fx.Close(fd)
	return 0
}

// Mkdir syscall
func (k *PosixKernel) Mkdir(path co.Path, mode int) int64 {
	return k.mkdir(path)
}

// Mkdirat syscall
func (k *PosixKernel) Mkdirat(dirfd co.Fd, pathBuf co.Buf, mode int) int64 {
	if dirfd != linux.AT_FDCWD {
		return errno(linux.ENOSYS)
	}
	path, ok := k.readPath(pathBuf)
	if !ok {
		return errno(linux.EFAULT)
	}
	return k.mkdir(path)
}

func (k *PosixKernel) remove(path co.Path) int64 {
	return result(k.fx.Remove(path.Addr, path.Len()))
}

// Unlink syscall
func (k *PosixKernel) Unlink(path co.Path) int64 {
	return k.remove(path)
}

// Rmdir syscall
func (k *PosixKernel) Rmdir(path co.Path) int64 {
	return k.remove(path)
}

// Unlinkat syscall. Native remove handles files and directories alike, so
// AT_REMOVEDIR needs no special handling.
func (k *PosixKernel) Unlinkat(dirfd co.Fd, pathBuf co.Buf, flags int) int64 {
	if dirfd != linux.AT_FDCWD {
		return errno(linux.ENOSYS)
	}
	path, ok := k.readPath(pathBuf)
	if !ok {
		return errno(linux.EFAULT)
	}
	return k.remove(path)
}

// Access syscall. The mode is not checked; a path that opens is accessible.
func (k *PosixKernel) Access(path co.Path, mode int) int64 {
	fd := k.fx.Open(path.Addr, path.Len())
	if fornax.IsError(fd) {
		return errno(linux.ENOENT)
	}
	k.fx.Close(fd)
	return 0
}
