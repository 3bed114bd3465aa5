package linux

import "fmt"

const (
	EPERM     = 1
	ENOENT    = 2
	EIO       = 5
	EBADF     = 9
	EAGAIN    = 11
	ENOMEM    = 12
	EACCES    = 13
	EFAULT    = 14
	EEXIST    = 17
	ENOTDIR   = 20
	EISDIR    = 21
	EINVAL    = 22
	EMFILE    = 24
	ENOTTY    = 25
	ENOSPC    = 28
	ERANGE    = 34
	ENOSYS    = 38
	ENOTEMPTY = 39
	ETIMEDOUT = 110
)

var errnoNames = map[int]string{
	EPERM:     "EPERM",
	ENOENT:    "ENOENT",
	EIO:       "EIO",
	EBADF:     "EBADF",
	EAGAIN:    "EAGAIN",
	ENOMEM:    "ENOMEM",
	EACCES:    "EACCES",
	EFAULT:    "EFAULT",
	EEXIST:    "EEXIST",
	ENOTDIR:   "ENOTDIR",
	EISDIR:    "EISDIR",
	EINVAL:    "EINVAL",
	EMFILE:    "EMFILE",
	ENOTTY:    "ENOTTY",
	ENOSPC:    "ENOSPC",
	ERANGE:    "ERANGE",
	ENOSYS:    "ENOSYS",
	ENOTEMPTY: "ENOTEMPTY",
	ETIMEDOUT: "ETIMEDOUT",
}

func ErrnoName(errno int) string {
	if name, ok := errnoNames[errno]; ok {
		return name
	}
	return fmt.Sprintf("E%d", errno)
}
