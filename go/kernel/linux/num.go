package linux

import (
	"fmt"

	"github.com/lunixbochs/ghostrace/ghost/sys/num"
)

// Names is the closed set of x86_64 call numbers the shim dispatches.
// Anything outside it is answered with -ENOSYS.
var Names = map[int]string{
	0:   "read",
	1:   "write",
	2:   "open",
	3:   "close",
	4:   "stat",
	5:   "fstat",
	6:   "lstat",
	8:   "lseek",
	9:   "mmap",
	10:  "mprotect",
	11:  "munmap",
	12:  "brk",
	13:  "rt_sigaction",
	14:  "rt_sigprocmask",
	16:  "ioctl",
	19:  "readv",
	20:  "writev",
	21:  "access",
	28:  "madvise",
	32:  "dup",
	33:  "dup2",
	39:  "getpid",
	56:  "clone",
	60:  "exit",
	63:  "uname",
	72:  "fcntl",
	77:  "ftruncate",
	79:  "getcwd",
	82:  "rename",
	83:  "mkdir",
	84:  "rmdir",
	85:  "creat",
	87:  "unlink",
	89:  "readlink",
	91:  "fchmod",
	158: "arch_prctl",
	186: "gettid",
	202: "futex",
	217: "getdents64",
	218: "set_tid_address",
	228: "clock_gettime",
	231: "exit_group",
	257: "openat",
	258: "mkdirat",
	262: "newfstatat",
	263: "unlinkat",
	264: "renameat",
	273: "set_robust_list",
	302: "prlimit64",
	316: "renameat2",
	318: "getrandom",
}

var Numbers = make(map[string]int, len(Names))

func init() {
	for n, name := range Names {
		Numbers[name] = n
	}
}

// Name returns a printable name for any x86_64 call number, including ones outside Names.
func Name(n int) string {
	if name, ok := Names[n]; ok {
		return name
	}
	if name, ok := num.Linux_x86_64[n]; ok {
		return name
	}
	return fmt.Sprintf("syscall_%d", n)
}
