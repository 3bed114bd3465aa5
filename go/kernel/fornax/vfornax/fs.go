package vfornax

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
)

// FS is the namespace a Kernel serves paths from.
// Paths are passed through as the caller wrote them.
type FS interface {
	Open(path string) (fornax.File, error)
	// Create makes a file (truncating an existing one) or, with dir set, a new directory.
	Create(path string, dir, append bool) (fornax.File, error)
	Remove(path string) error
	Rename(oldPath, newPath string) error
}

// ErrnoFor maps a backend error to the native code returned to the caller.
func ErrnoFor(err error) fornax.Errno {
	if e, ok := errors.Cause(err).(fornax.Errno); ok {
		return e
	}
	return fornax.EIO
}
