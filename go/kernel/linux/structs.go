package linux

// Stat64 is the x86_64 struct stat (144 bytes).
type Stat64 struct {
	Dev      uint64
	Ino      uint64
	Nlink    uint64
	Mode     uint32
	Uid, Gid uint32
	Pad0     uint32
	Rdev     uint64
	Size     int64
	Blksize  int64
	Blocks   int64

	Atime     uint64
	AtimeNsec uint64
	Mtime     uint64
	MtimeNsec uint64
	Ctime     uint64
	CtimeNsec uint64

	Reserved [3]uint64
}

const UtsnameFieldLen = 65

type Winsize struct {
	Row, Col       uint16
	Xpixel, Ypixel uint16
}

type Timespec struct {
	Sec  int64
	Nsec int64
}

type Iovec struct {
	Base uint64
	Len  uint64
}
