package fornax

const (
	SYS_OPEN       = 0
	SYS_CREATE     = 1
	SYS_READ       = 2
	SYS_WRITE      = 3
	SYS_CLOSE      = 4
	SYS_STAT       = 5
	SYS_SEEK       = 6
	SYS_REMOVE     = 7
	SYS_RFORK      = 11
	SYS_EXIT       = 14
	SYS_BRK        = 16
	SYS_SYSINFO    = 23
	SYS_SLEEP      = 24
	SYS_GETPID     = 26
	SYS_RENAME     = 27
	SYS_TRUNCATE   = 28
	SYS_MMAP       = 32
	SYS_MUNMAP     = 33
	SYS_DUP        = 34
	SYS_DUP2       = 35
	SYS_ARCH_PRCTL = 36
	SYS_CLONE      = 37
	SYS_FUTEX      = 38
)

var Names = map[int]string{
	SYS_OPEN:       "open",
	SYS_CREATE:     "create",
	SYS_READ:       "read",
	SYS_WRITE:      "write",
	SYS_CLOSE:      "close",
	SYS_STAT:       "stat",
	SYS_SEEK:       "seek",
	SYS_REMOVE:     "remove",
	SYS_RFORK:      "rfork",
	SYS_EXIT:       "exit",
	SYS_BRK:        "brk",
	SYS_SYSINFO:    "sysinfo",
	SYS_SLEEP:      "sleep",
	SYS_GETPID:     "getpid",
	SYS_RENAME:     "rename",
	SYS_TRUNCATE:   "truncate",
	SYS_MMAP:       "mmap",
	SYS_MUNMAP:     "munmap",
	SYS_DUP:        "dup",
	SYS_DUP2:       "dup2",
	SYS_ARCH_PRCTL: "arch_prctl",
	SYS_CLONE:      "clone",
	SYS_FUTEX:      "futex",
}

const (
	O_DIR    = 0x01
	O_APPEND = 0x02
)

const ARCH_SET_FS = 0x1002

const (
	FUTEX_WAIT = 0
	FUTEX_WAKE = 1
)

const (
	FileRegular = 0
	FileDir     = 1
)

// ArgvBase is where the kernel leaves argc followed by the argv pointer vector.
const ArgvBase = 0x7FFFFFEFF000
