//go:build linux || darwin

// Package hostfs serves a vfornax namespace from a host directory.
package hostfs

import (
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/log"
)

type FS struct {
	Root string
}

func New(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "resolving root")
	}
	var st unix.Stat_t
	if err := unix.Stat(abs, &st); err != nil {
		return nil, errors.Wrapf(err, "stat %s", abs)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return nil, errors.Errorf("%s is not a directory", abs)
	}
	log.L.Trace("creating host fs", "path", abs)
	return &FS{Root: abs}, nil
}

// host maps a guest path under Root. ".." cannot climb out.
func (fs *FS) host(p string) string {
	return filepath.Join(fs.Root, filepath.FromSlash(path.Clean("/"+p)))
}

func (fs *FS) open(full string, flags int, mode uint32) (fornax.File, error) {
	fd, err := unix.Open(full, flags|unix.O_CLOEXEC, mode)
	if err != nil {
		return nil, errnoFor(err)
	}
	return &File{fd: fd}, nil
}

func (fs *FS) Open(p string) (fornax.File, error) {
	full := fs.host(p)
	f, err := fs.open(full, unix.O_RDWR, 0)
	if e, ok := err.(fornax.Errno); ok && (e == fornax.EISDIR || e == fornax.EACCES) {
		return fs.open(full, unix.O_RDONLY, 0)
	}
	return f, err
}

func (fs *FS) Create(p string, dir, append bool) (fornax.File, error) {
	full := fs.host(p)
	if dir {
		if err := unix.Mkdir(full, 0755); err != nil {
			return nil, errnoFor(err)
		}
		return fs.open(full, unix.O_RDONLY|unix.O_DIRECTORY, 0)
	}
	flags := unix.O_RDWR | unix.O_CREAT | unix.O_TRUNC
	if append {
		flags |= unix.O_APPEND
	}
	return fs.open(full, flags, 0644)
}

func (fs *FS) Remove(p string) error {
	full := fs.host(p)
	if full == fs.Root {
		return fornax.EPERM
	}
	var st unix.Stat_t
	if err := unix.Lstat(full, &st); err != nil {
		return errnoFor(err)
	}
	if st.Mode&unix.S_IFMT == unix.S_IFDIR {
		return errnoFor(unix.Rmdir(full))
	}
	return errnoFor(unix.Unlink(full))
}

func (fs *FS) Rename(oldPath, newPath string) error {
	return errnoFor(unix.Rename(fs.host(oldPath), fs.host(newPath)))
}

type File struct {
	fd int
}

func (f *File) Read(p []byte) (int, error) {
	n, err := unix.Read(f.fd, p)
	if err != nil {
		return 0, errnoFor(err)
	}
	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	n, err := unix.Write(f.fd, p)
	if err != nil {
		return 0, errnoFor(err)
	}
	return n, nil
}

func (f *File) Seek(off int64, whence int) (int64, error) {
	pos, err := unix.Seek(f.fd, off, whence)
	return pos, errnoFor(err)
}

func (f *File) Truncate(size int64) error {
	return errnoFor(unix.Ftruncate(f.fd, size))
}

func (f *File) Stat() (fornax.Stat, error) {
	var st unix.Stat_t
	if err := unix.Fstat(f.fd, &st); err != nil {
		return fornax.Stat{}, errnoFor(err)
	}
	out := fornax.Stat{
		Size:  uint64(st.Size),
		Type:  fornax.FileRegular,
		Mtime: uint64(mtime(&st)),
		Mode:  uint32(st.Mode) & 07777,
		Uid:   uint16(st.Uid),
		Gid:   uint16(st.Gid),
	}
	if st.Mode&unix.S_IFMT == unix.S_IFDIR {
		out.Type = fornax.FileDir
	}
	return out, nil
}

func (f *File) Close() error {
	return errnoFor(unix.Close(f.fd))
}
