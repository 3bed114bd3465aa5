package posix

import (
	"strings"

	"github.com/pkg/errors"

	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

// Cwd returns the cached working directory. No call in the table changes it.
func (k *PosixKernel) Cwd() string {
	if err := k.Lock(k.lockAddr()); err != nil {
		k.log.Error("cwd lock failed", "error", err)
		return k.cwd
	}
	defer k.Unlock(k.lockAddr())
	return k.cwd
}

// SetCwd replaces the cached working directory for embedders.
func (k *PosixKernel) SetCwd(dir string) error {
	if !strings.HasPrefix(dir, "/") {
		return errors.Errorf("cwd %q is not absolute", dir)
	}
	if len(dir)+1 > cwdCap {
		return errors.Errorf("cwd longer than %d bytes", cwdCap-1)
	}
	if err := k.Lock(k.lockAddr()); err != nil {
		return err
	}
	k.cwd = dir
	return k.Unlock(k.lockAddr())
}

// Getcwd syscall. Served from the cache; the buffer must fit the path and its NUL.
func (k *PosixKernel) Getcwd(buf co.Obuf, size co.Len) int64 {
	cwd := k.Cwd()
	if buf.Addr == 0 || uint64(size) < uint64(len(cwd))+1 {
		return errno(linux.ERANGE)
	}
	if err := buf.Write(append([]byte(cwd), 0)); err != nil {
		return errno(linux.EFAULT)
	}
	return int64(buf.Addr)
}
