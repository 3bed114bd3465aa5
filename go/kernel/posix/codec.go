package posix

import (
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
	"github.com/lunixbochs/fxshim/go/models"
)

// StatFromNative builds a Linux stat record from a native one.
// Inode, link count and block size are fixed placeholders, not file identity.
// All three timestamps are the native mtime.
func StatFromNative(fx *fornax.Stat) *linux.Stat64 {
	mode := fx.Mode
	if fx.Type == fornax.FileDir {
		mode |= linux.S_IFDIR
	} else {
		mode |= linux.S_IFREG
	}
	return &linux.Stat64{
		Ino:     1,
		Nlink:   1,
		Mode:    mode,
		Uid:     uint32(fx.Uid),
		Gid:     uint32(fx.Gid),
		Size:    int64(fx.Size),
		Blksize: 4096,
		Blocks:  int64((fx.Size + 511) / 512),
		Atime:   fx.Mtime,
		Mtime:   fx.Mtime,
		Ctime:   fx.Mtime,
	}
}

// UtsnameFor is the fixed host identification, each field padded to the utsname width.
func UtsnameFor() *models.Uname {
	uname := &models.Uname{
		Sysname:  "Fornax",
		Nodename: "fornax",
		Release:  "0.1.0",
		Version:  "Phase 1000",
		Machine:  "x86_64",
	}
	uname.Pad(linux.UtsnameFieldLen)
	return uname
}

// DefaultWinsize is the terminal geometry reported for every descriptor.
func DefaultWinsize() *linux.Winsize {
	return &linux.Winsize{Row: 25, Col: 80}
}
