package fornax

import "fmt"

// ErrorThreshold is the lowest result that is not an error. Anything above it is -errno.
const ErrorThreshold = 0xFFFFFFFFFFFF0000

// Errno is a native kernel error code.
type Errno uint64

const (
	EPERM     Errno = 1
	ENOENT    Errno = 2
	EIO       Errno = 5
	EBADF     Errno = 9
	EAGAIN    Errno = 11
	ENOMEM    Errno = 12
	EACCES    Errno = 13
	EFAULT    Errno = 14
	EEXIST    Errno = 17
	ENOTDIR   Errno = 20
	EISDIR    Errno = 21
	EINVAL    Errno = 22
	EMFILE    Errno = 24
	ENOSPC    Errno = 28
	ERANGE    Errno = 34
	ENOSYS    Errno = 38
	ENOTEMPTY Errno = 39
	ETIMEDOUT Errno = 110
)

var errnoText = map[Errno]string{
	EPERM:     "operation not permitted",
	ENOENT:    "no such file or directory",
	EIO:       "i/o error",
	EBADF:     "bad file descriptor",
	EAGAIN:    "try again",
	ENOMEM:    "out of memory",
	EACCES:    "permission denied",
	EFAULT:    "bad address",
	EEXIST:    "file exists",
	ENOTDIR:   "not a directory",
	EISDIR:    "is a directory",
	EINVAL:    "invalid argument",
	EMFILE:    "too many open files",
	ENOSPC:    "no space left on device",
	ERANGE:    "result out of range",
	ENOSYS:    "not implemented",
	ENOTEMPTY: "directory not empty",
	ETIMEDOUT: "timed out",
}

func (e Errno) Error() string {
	if s, ok := errnoText[e]; ok {
		return s
	}
	return fmt.Sprintf("errno %d", uint64(e))
}

// Ret encodes e as a native call result.
func (e Errno) Ret() uint64 {
	return -uint64(e)
}

func IsError(r uint64) bool {
	return r > ErrorThreshold
}

// ErrnoOf decodes an error result. It returns 0 for successful results.
func ErrnoOf(r uint64) Errno {
	if !IsError(r) {
		return 0
	}
	return Errno(-r)
}
