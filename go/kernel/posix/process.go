package posix

import (
	"github.com/pkg/errors"

	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
)

// ErrExitReturned is raised if the native exit call comes back.
var ErrExitReturned = errors.New("exit returned")

func (k *PosixKernel) exit(code int) {
	k.fx.Exit(uint64(code))
	panic(ErrExitReturned)
}

// Exit syscall. Does not return.
func (k *PosixKernel) Exit(code int) int64 {
	k.exit(code)
	return 0
}

// ExitGroup syscall. Does not return.
func (k *PosixKernel) ExitGroup(code int) int64 {
	k.exit(code)
	return 0
}

// Getpid syscall
func (k *PosixKernel) Getpid() int64 {
	return result(k.fx.Getpid())
}

// Gettid syscall. Threads share the process id.
func (k *PosixKernel) Gettid() int64 {
	return result(k.fx.Getpid())
}

// ArchPrctl syscall
func (k *PosixKernel) ArchPrctl(code, addr uint64) int64 {
	return result(k.fx.ArchPrctl(code, addr))
}

// SetThreadArea points the thread register at p.
func (k *PosixKernel) SetThreadArea(p uint64) int64 {
	return result(k.fx.ArchPrctl(fornax.ARCH_SET_FS, p))
}

// Mmap syscall. File mappings are not distinguished; fd and offset are dropped.
func (k *PosixKernel) Mmap(addr uint64, size co.Len, prot, flags uint64, fd co.Fd, off co.Off) int64 {
	return result(k.fx.Mmap(addr, uint64(size), prot, flags))
}

// Munmap syscall
func (k *PosixKernel) Munmap(addr uint64, size co.Len) int64 {
	return result(k.fx.Munmap(addr, uint64(size)))
}

// Brk syscall
func (k *PosixKernel) Brk(addr uint64) int64 {
	return result(k.fx.Brk(addr))
}
