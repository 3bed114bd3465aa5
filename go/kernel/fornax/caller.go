package fornax

import (
	hclog "github.com/hashicorp/go-hclog"
)

// Caller issues typed native calls through a Native.
type Caller struct {
	N      Native
	Logger hclog.Logger
	// Trace logs each call at Trace level.
	Trace bool
}

func NewCaller(n Native, logger hclog.Logger, trace bool) *Caller {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Caller{N: n, Logger: logger, Trace: trace}
}

func (c *Caller) log(nr uint64, ret uint64, args ...uint64) uint64 {
	if c.Trace {
		c.Logger.Trace("native call", "name", Names[int(nr)], "args", args, "ret", hclog.Fmt("%#x", ret))
	}
	return ret
}

func (c *Caller) call0(nr uint64) uint64 {
	return c.log(nr, c.N.Syscall0(nr))
}

func (c *Caller) call1(nr, a0 uint64) uint64 {
	return c.log(nr, c.N.Syscall1(nr, a0), a0)
}

func (c *Caller) call2(nr, a0, a1 uint64) uint64 {
	return c.log(nr, c.N.Syscall2(nr, a0, a1), a0, a1)
}

func (c *Caller) call3(nr, a0, a1, a2 uint64) uint64 {
	return c.log(nr, c.N.Syscall3(nr, a0, a1, a2), a0, a1, a2)
}

func (c *Caller) call4(nr, a0, a1, a2, a3 uint64) uint64 {
	return c.log(nr, c.N.Syscall4(nr, a0, a1, a2, a3), a0, a1, a2, a3)
}

func (c *Caller) call5(nr, a0, a1, a2, a3, a4 uint64) uint64 {
	return c.log(nr, c.N.Syscall5(nr, a0, a1, a2, a3, a4), a0, a1, a2, a3, a4)
}

func (c *Caller) Open(path, n uint64) uint64 { return c.call2(SYS_OPEN, path, n) }
func (c *Caller) Create(path, n, flags uint64) uint64 {
	return c.call3(SYS_CREATE, path, n, flags)
}
func (c *Caller) Read(fd, buf, n uint64) uint64 { return c.call3(SYS_READ, fd, buf, n) }
func (c *Caller) Write(fd, buf, n uint64) uint64 { return c.call3(SYS_WRITE, fd, buf, n) }
func (c *Caller) Close(fd uint64) uint64 { return c.call1(SYS_CLOSE, fd) }
func (c *Caller) Stat(fd, buf uint64) uint64 { return c.call2(SYS_STAT, fd, buf) }
func (c *Caller) Seek(fd, off, whence uint64) uint64 {
	return c.call3(SYS_SEEK, fd, off, whence)
}
func (c *Caller) Remove(path, n uint64) uint64 { return c.call2(SYS_REMOVE, path, n) }
func (c *Caller) Rename(oldPath, oldLen, newPath, newLen uint64) uint64 {
	return c.call4(SYS_RENAME, oldPath, oldLen, newPath, newLen)
}
func (c *Caller) Truncate(fd, n uint64) uint64 { return c.call2(SYS_TRUNCATE, fd, n) }
func (c *Caller) Dup(fd uint64) uint64 { return c.call1(SYS_DUP, fd) }
func (c *Caller) Dup2(oldFd, newFd uint64) uint64 { return c.call2(SYS_DUP2, oldFd, newFd) }
func (c *Caller) Rfork(flags uint64) uint64 { return c.call1(SYS_RFORK, flags) }

// Exit does not return on a real kernel.
func (c *Caller) Exit(code uint64) uint64 { return c.call1(SYS_EXIT, code) }

func (c *Caller) Getpid() uint64 { return c.call0(SYS_GETPID) }
func (c *Caller) Brk(addr uint64) uint64 { return c.call1(SYS_BRK, addr) }
func (c *Caller) Sysinfo(buf uint64) uint64 { return c.call1(SYS_SYSINFO, buf) }
func (c *Caller) Sleep(ms uint64) uint64 { return c.call1(SYS_SLEEP, ms) }
func (c *Caller) Mmap(addr, n, prot, flags uint64) uint64 {
	return c.call4(SYS_MMAP, addr, n, prot, flags)
}
func (c *Caller) Munmap(addr, n uint64) uint64 { return c.call2(SYS_MUNMAP, addr, n) }
func (c *Caller) ArchPrctl(code, addr uint64) uint64 {
	return c.call2(SYS_ARCH_PRCTL, code, addr)
}
func (c *Caller) Clone(stack, tls, ctid, ptid, flags uint64) uint64 {
	return c.call5(SYS_CLONE, stack, tls, ctid, ptid, flags)
}
func (c *Caller) Futex(addr, op, val, timeout uint64) uint64 {
	return c.call4(SYS_FUTEX, addr, op, val, timeout)
}
