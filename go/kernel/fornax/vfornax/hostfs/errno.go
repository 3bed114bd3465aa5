//go:build linux || darwin

package hostfs

import (
	"golang.org/x/sys/unix"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
)

var hostErrno = map[unix.Errno]fornax.Errno{
	unix.EPERM:     fornax.EPERM,
	unix.ENOENT:    fornax.ENOENT,
	unix.EIO:       fornax.EIO,
	unix.EBADF:     fornax.EBADF,
	unix.EAGAIN:    fornax.EAGAIN,
	unix.ENOMEM:    fornax.ENOMEM,
	unix.EACCES:    fornax.EACCES,
	unix.EFAULT:    fornax.EFAULT,
	unix.EEXIST:    fornax.EEXIST,
	unix.ENOTDIR:   fornax.ENOTDIR,
	unix.EISDIR:    fornax.EISDIR,
	unix.EINVAL:    fornax.EINVAL,
	unix.EMFILE:    fornax.EMFILE,
	unix.ENOSPC:    fornax.ENOSPC,
	unix.ERANGE:    fornax.ERANGE,
	unix.ENOSYS:    fornax.ENOSYS,
	unix.ENOTEMPTY: fornax.ENOTEMPTY,
	unix.ESPIPE:    fornax.EINVAL,
}

// errnoFor returns nil for nil, so callers can pass unix results straight through.
func errnoFor(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(unix.Errno); ok {
		if n, ok := hostErrno[e]; ok {
			return n
		}
	}
	return fornax.EIO
}
