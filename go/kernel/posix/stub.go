package posix

import (
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

type Class int

const (
	// Succeed calls do nothing and return 0.
	Succeed Class = iota
	// Fail calls always return Errno.
	Fail
	// Synthesize calls answer with fixed values without asking the kernel.
	Synthesize
)

func (c Class) String() string {
	switch c {
	case Succeed:
		return "succeed"
	case Fail:
		return "fail"
	case Synthesize:
		return "synthesize"
	}
	return "unknown"
}

// Policy is the defined behavior of a call with no native equivalent.
type Policy struct {
	Class Class
	// Errno is the failure for Fail, and for requests a Synthesize call does not answer.
	Errno int
	Note  string
}

func (p Policy) Ret() int64 {
	if p.Class == Succeed {
		return 0
	}
	return errno(p.Errno)
}

// Stubs classifies every call the native kernel cannot express.
var Stubs = map[string]Policy{
	"mprotect":        {Succeed, 0, "single address space without protection"},
	"madvise":         {Succeed, 0, "advice is ignored"},
	"rt_sigaction":    {Succeed, 0, "no signal delivery"},
	"rt_sigprocmask":  {Succeed, 0, "no signal delivery"},
	"fchmod":          {Succeed, 0, "modes are not changed"},
	"set_robust_list": {Succeed, 0, "no robust futex list"},
	"fcntl":           {Fail, linux.ENOSYS, "commands without an FcntlStubs entry; F_DUPFD is dup"},
	"readlink":        {Fail, linux.EINVAL, "no symlinks"},
	"getdents64":      {Fail, linux.ENOSYS, "directory listing unsupported"},
	"prlimit64":       {Fail, linux.ENOSYS, "no resource limits"},
	"ioctl":           {Synthesize, linux.ENOTTY, "TIOCGWINSZ is 80x25, other requests fail"},
	"uname":           {Synthesize, 0, "fixed Fornax identification"},
	"getcwd":          {Synthesize, 0, "served from the cached cwd"},
}

// FcntlStubs classifies fcntl commands by number. Descriptor flags are not tracked.
var FcntlStubs = map[int]Policy{
	linux.F_GETFD: {Succeed, 0, "no close-on-exec state"},
	linux.F_SETFD: {Succeed, 0, "no close-on-exec state"},
	linux.F_GETFL: {Succeed, 0, "status flags are not tracked"},
	linux.F_SETFL: {Succeed, 0, "status flags are not tracked"},
}

// Mprotect syscall
func (k *PosixKernel) Mprotect() int64 { return Stubs["mprotect"].Ret() }

// Madvise syscall
func (k *PosixKernel) Madvise() int64 { return Stubs["madvise"].Ret() }

// RtSigaction syscall
func (k *PosixKernel) RtSigaction() int64 { return Stubs["rt_sigaction"].Ret() }

// RtSigprocmask syscall
func (k *PosixKernel) RtSigprocmask() int64 { return Stubs["rt_sigprocmask"].Ret() }

// Fchmod syscall
func (k *PosixKernel) Fchmod() int64 { return Stubs["fchmod"].Ret() }

// SetRobustList syscall
func (k *PosixKernel) SetRobustList() int64 { return Stubs["set_robust_list"].Ret() }

// Readlink syscall
func (k *PosixKernel) Readlink() int64 { return Stubs["readlink"].Ret() }

// Getdents64 syscall
func (k *PosixKernel) Getdents64() int64 { return Stubs["getdents64"].Ret() }

// Prlimit64 syscall
func (k *PosixKernel) Prlimit64() int64 { return Stubs["prlimit64"].Ret() }
