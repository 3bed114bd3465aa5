package posix

import (
	co "github.com/lunixbochs/fxshim/go/kernel/common"
)

// Clone syscall. Linux order (flags, stack, ptid, ctid, tls) becomes the native
// (stack, tls, ctid, ptid, flags). The caller prepares the child stack.
func (k *PosixKernel) Clone(flags, stack, ptid, ctid, tls uint64) int64 {
	return result(k.fx.Clone(stack, tls, ctid, ptid, flags))
}

// Futex syscall. addr2 and val3 have no native counterpart.
func (k *PosixKernel) Futex(addr, op, val, timeout, addr2, val3 uint64) int64 {
	return result(k.fx.Futex(addr, op, val, timeout))
}

// SetTidAddress syscall. The address is not kept; the thread id is the process id.
func (k *PosixKernel) SetTidAddress(tidptr co.Ptr) int64 {
	return result(k.fx.Getpid())
}
