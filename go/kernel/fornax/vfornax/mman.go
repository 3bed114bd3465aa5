package vfornax

import (
	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
)

// Brk syscall
func (k *Kernel) Brk(addr uint64) uint64 {
	ret, err := k.space.Brk(addr)
	if err != nil {
		return fornax.ENOMEM.Ret()
	}
	return ret
}

// Mmap syscall. Every mapping is anonymous read-write memory; prot and flags are accepted as given.
func (k *Kernel) Mmap(addr uint64, size co.Len, prot, flags uint64) uint64 {
	if size == 0 {
		return fornax.EINVAL.Ret()
	}
	ret, err := k.space.Mmap(addr, uint64(size))
	if err != nil {
		return fornax.ENOMEM.Ret()
	}
	return ret
}

// Munmap syscall
func (k *Kernel) Munmap(addr uint64, size co.Len) uint64 {
	if err := k.space.Munmap(addr, uint64(size)); err != nil {
		return fornax.EINVAL.Ret()
	}
	return 0
}
