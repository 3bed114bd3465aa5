package fornax

// Stat is the native file status record. Its 32-byte layout is shared with the kernel.
type Stat struct {
	Size      uint64
	Type      uint32
	Reserved0 uint32
	Mtime     uint64
	Mode      uint32
	Uid       uint16
	Gid       uint16
}

type SysInfo struct {
	TotalPages uint64
	FreePages  uint64
	PageSize   uint64
	UptimeSecs uint64
}

// Timespec is the futex timeout record, passed through from the caller unchanged.
type Timespec struct {
	Sec  int64
	Nsec int64
}
