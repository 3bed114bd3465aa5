package posix

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
)

// Lock acquires the guest lock word at addr: 0 is free, 1 is held.
// Contended acquirers sleep in the native futex until the word changes.
func (k *PosixKernel) Lock(addr uint64) error {
	for {
		ok, err := k.Mem.CompareAndSwap32(addr, 0, 1)
		if err != nil {
			return errors.Wrapf(err, "lock %#x", addr)
		}
		if ok {
			return nil
		}
		k.fx.Futex(addr, fornax.FUTEX_WAIT, 1, 0)
	}
}

// Unlock releases the lock word at addr and wakes one waiter.
func (k *PosixKernel) Unlock(addr uint64) error {
	if err := k.Mem.Store32(addr, 0); err != nil {
		return errors.Wrapf(err, "unlock %#x", addr)
	}
	k.fx.Futex(addr, fornax.FUTEX_WAKE, 1, 0)
	return nil
}
