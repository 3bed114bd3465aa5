package vfornax

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"

	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/models"
)

// Exit syscall. It unwinds the calling thread with a models.ExitStatus panic,
// which Run and cloned threads recover.
func (k *Kernel) Exit(code int) uint64 {
	panic(models.ExitStatus(code))
}

// Getpid syscall
func (k *Kernel) Getpid() uint64 {
	return k.opts.Pid
}

// Rfork syscall. Process creation is not modelled.
func (k *Kernel) Rfork(flags uint64) uint64 {
	return fornax.ENOSYS.Ret()
}

// Sleep syscall
func (k *Kernel) Sleep(ms uint64) uint64 {
	time.Sleep(time.Duration(ms) * time.Millisecond)
	return 0
}

// Sysinfo syscall
func (k *Kernel) Sysinfo(buf co.Obuf) uint64 {
	var used uint64
	if m, ok := k.space.(interface{ Mapped() uint64 }); ok {
		used = m.Mapped() / 0x1000
	}
	if used > k.opts.TotalPages {
		used = k.opts.TotalPages
	}
	info := fornax.SysInfo{
		TotalPages: k.opts.TotalPages,
		FreePages:  k.opts.TotalPages - used,
		PageSize:   0x1000,
		UptimeSecs: uint64(k.opts.Now().Sub(k.start) / time.Second),
	}
	if err := buf.Pack(&info); err != nil {
		return fornax.EFAULT.Ret()
	}
	return 0
}

// ArchPrctl syscall. Only ARCH_SET_FS is understood.
func (k *Kernel) ArchPrctl(code, addr uint64) uint64 {
	if code != fornax.ARCH_SET_FS {
		return fornax.EINVAL.Ret()
	}
	k.entryMu.Lock()
	k.fsBase = addr
	k.entryMu.Unlock()
	return 0
}

// FSBase returns the last thread pointer set with ARCH_SET_FS.
func (k *Kernel) FSBase() uint64 {
	k.entryMu.Lock()
	defer k.entryMu.Unlock()
	return k.fsBase
}

// SetArgs maps the argument block at fornax.ArgvBase: argc, then argc pointers, then the strings.
func (k *Kernel) SetArgs(args []string) error {
	size := uint64(8 + 8*len(args))
	for _, a := range args {
		size += uint64(len(a)) + 1
	}
	if _, err := k.space.Mmap(fornax.ArgvBase, size); err != nil {
		return errors.Wrap(err, "mapping argv block")
	}
	block := make([]byte, size)
	binary.LittleEndian.PutUint64(block, uint64(len(args)))
	str := uint64(8 + 8*len(args))
	for i, a := range args {
		binary.LittleEndian.PutUint64(block[8+8*i:], fornax.ArgvBase+str)
		copy(block[str:], a)
		str += uint64(len(a)) + 1
	}
	return errors.Wrap(k.space.MemWrite(fornax.ArgvBase, block), "writing argv block")
}

// Run calls main as the initial thread and returns its exit code.
// Returning from main is exit(0).
func (k *Kernel) Run(main func()) int {
	done := make(chan int, 1)
	go func() {
		code := 0
		defer func() { done <- code }()
		defer func() {
			if r := recover(); r != nil {
				status, ok := r.(models.ExitStatus)
				if !ok {
					panic(r)
				}
				code = int(status)
			}
		}()
		main()
	}()
	code := <-done
	k.log.Debug("process exited", "code", code)
	return code
}
