package posix

import (
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

var errnoTable = map[fornax.Errno]int{
	fornax.EPERM:     linux.EPERM,
	fornax.ENOENT:    linux.ENOENT,
	fornax.EIO:       linux.EIO,
	fornax.EBADF:     linux.EBADF,
	fornax.EAGAIN:    linux.EAGAIN,
	fornax.ENOMEM:    linux.ENOMEM,
	fornax.EACCES:    linux.EACCES,
	fornax.EFAULT:    linux.EFAULT,
	fornax.EEXIST:    linux.EEXIST,
	fornax.ENOTDIR:   linux.ENOTDIR,
	fornax.EISDIR:    linux.EISDIR,
	fornax.EINVAL:    linux.EINVAL,
	fornax.EMFILE:    linux.EMFILE,
	fornax.ENOSPC:    linux.ENOSPC,
	fornax.ERANGE:    linux.ERANGE,
	fornax.ENOSYS:    linux.ENOSYS,
	fornax.ENOTEMPTY: linux.ENOTEMPTY,
	fornax.ETIMEDOUT: linux.ETIMEDOUT,
}

// ForeignErrno maps a native error code to its Linux errno. Unknown codes are EIO.
func ForeignErrno(e fornax.Errno) int {
	if n, ok := errnoTable[e]; ok {
		return n
	}
	return linux.EIO
}

// result converts a native result word to a foreign result.
func result(r uint64) int64 {
	if fornax.IsError(r) {
		return -int64(ForeignErrno(fornax.ErrnoOf(r)))
	}
	return int64(r)
}

func errno(n int) int64 {
	return -int64(n)
}
