package linux

const (
	O_RDONLY    = 0x0
	O_WRONLY    = 0x1
	O_RDWR      = 0x2
	O_CREAT     = 0x40
	O_EXCL      = 0x80
	O_TRUNC     = 0x200
	O_APPEND    = 0x400
	O_DIRECTORY = 0x10000
	O_CLOEXEC   = 0x80000
)

const AT_FDCWD = -100

const (
	F_DUPFD = 0
	F_GETFD = 1
	F_SETFD = 2
	F_GETFL = 3
	F_SETFL = 4
)

const TIOCGWINSZ = 0x5413

const (
	FUTEX_WAIT = 0
	FUTEX_WAKE = 1
)

const (
	S_IFMT  = 0170000
	S_IFDIR = 0040000
	S_IFREG = 0100000
)

const (
	SEEK_SET = 0
	SEEK_CUR = 1
	SEEK_END = 2
)
