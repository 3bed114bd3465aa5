package vfornax

import (
	"io"

	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
)

// maxIO bounds a single read or write; larger requests complete short.
const maxIO = 1 << 24

func (k *Kernel) readPath(path co.Buf, n co.Len) (string, fornax.Errno) {
	if path.Addr == 0 {
		return "", fornax.EFAULT
	}
	b, err := path.Read(uint64(n))
	if err != nil {
		return "", fornax.EFAULT
	}
	return string(b), 0
}

func (k *Kernel) finishOpen(path string, f fornax.File, err error) uint64 {
	if err != nil {
		return ErrnoFor(err).Ret()
	}
	fd, errno := k.install(&openFile{f: f, path: path})
	if errno != 0 {
		f.Close()
		return errno.Ret()
	}
	return uint64(fd)
}

// Open syscall
func (k *Kernel) Open(path co.Buf, n co.Len) uint64 {
	p, errno := k.readPath(path, n)
	if errno != 0 {
		return errno.Ret()
	}
	if dev, ok := k.openDevice(p); ok {
		return k.finishOpen(p, dev, nil)
	}
	f, err := k.fs.Open(p)
	return k.finishOpen(p, f, err)
}

// Create syscall
func (k *Kernel) Create(path co.Buf, n co.Len, flags uint64) uint64 {
	p, errno := k.readPath(path, n)
	if errno != 0 {
		return errno.Ret()
	}
	f, err := k.fs.Create(p, flags&fornax.O_DIR != 0, flags&fornax.O_APPEND != 0)
	return k.finishOpen(p, f, err)
}

// Read syscall
func (k *Kernel) Read(fd co.Fd, buf co.Obuf, size co.Len) uint64 {
	of := k.getFd(int32(fd))
	if of == nil {
		return fornax.EBADF.Ret()
	}
	if size > maxIO {
		size = maxIO
	}
	tmp := make([]byte, size)
	of.mu.Lock()
	n, err := of.f.Read(tmp)
	of.mu.Unlock()
	if err == io.EOF {
		err = nil
	}
	if err != nil && n == 0 {
		return ErrnoFor(err).Ret()
	}
	if err := buf.Write(tmp[:n]); err != nil {
		return fornax.EFAULT.Ret()
	}
	return uint64(n)
}

// Write syscall
func (k *Kernel) Write(fd co.Fd, buf co.Buf, size co.Len) uint64 {
	of := k.getFd(int32(fd))
	if of == nil {
		return fornax.EBADF.Ret()
	}
	if size > maxIO {
		size = maxIO
	}
	tmp, err := buf.Read(uint64(size))
	if err != nil {
		return fornax.EFAULT.Ret()
	}
	of.mu.Lock()
	n, err := of.f.Write(tmp)
	of.mu.Unlock()
	if err != nil && n == 0 {
		return ErrnoFor(err).Ret()
	}
	return uint64(n)
}

// Close syscall
func (k *Kernel) Close(fd co.Fd) uint64 {
	return k.closeFd(int32(fd)).Ret()
}

// Stat syscall
func (k *Kernel) Stat(fd co.Fd, buf co.Obuf) uint64 {
	of := k.getFd(int32(fd))
	if of == nil {
		return fornax.EBADF.Ret()
	}
	of.mu.Lock()
	st, err := of.f.Stat()
	of.mu.Unlock()
	if err != nil {
		return ErrnoFor(err).Ret()
	}
	if err := buf.Pack(&st); err != nil {
		return fornax.EFAULT.Ret()
	}
	return 0
}

// Seek syscall
func (k *Kernel) Seek(fd co.Fd, off co.Off, whence int) uint64 {
	of := k.getFd(int32(fd))
	if of == nil {
		return fornax.EBADF.Ret()
	}
	of.mu.Lock()
	pos, err := of.f.Seek(int64(off), whence)
	of.mu.Unlock()
	if err != nil {
		return ErrnoFor(err).Ret()
	}
	return uint64(pos)
}

// Truncate syscall
func (k *Kernel) Truncate(fd co.Fd, size co.Len) uint64 {
	of := k.getFd(int32(fd))
	if of == nil {
		return fornax.EBADF.Ret()
	}
	of.mu.Lock()
	err := of.f.Truncate(int64(size))
	of.mu.Unlock()
	if err != nil {
		return ErrnoFor(err).Ret()
	}
	return 0
}

// Remove syscall
func (k *Kernel) Remove(path co.Buf, n co.Len) uint64 {
	p, errno := k.readPath(path, n)
	if errno != 0 {
		return errno.Ret()
	}
	if err := k.fs.Remove(p); err != nil {
		return ErrnoFor(err).Ret()
	}
	return 0
}

// Rename syscall
func (k *Kernel) Rename(oldPath co.Buf, oldLen co.Len, newPath co.Buf, newLen co.Len) uint64 {
	o, errno := k.readPath(oldPath, oldLen)
	if errno != 0 {
		return errno.Ret()
	}
	n, errno := k.readPath(newPath, newLen)
	if errno != 0 {
		return errno.Ret()
	}
	if err := k.fs.Rename(o, n); err != nil {
		return ErrnoFor(err).Ret()
	}
	return 0
}

// Dup syscall
func (k *Kernel) Dup(fd co.Fd) uint64 {
	of := k.getFd(int32(fd))
	if of == nil {
		return fornax.EBADF.Ret()
	}
	nfd, errno := k.install(of)
	if errno != 0 {
		return errno.Ret()
	}
	return uint64(nfd)
}

// Dup2 syscall
func (k *Kernel) Dup2(oldFd, newFd co.Fd) uint64 {
	if newFd < 0 || newFd >= maxFds {
		return fornax.EBADF.Ret()
	}
	k.fdMu.Lock()
	of, ok := k.fds[int32(oldFd)]
	if !ok {
		k.fdMu.Unlock()
		return fornax.EBADF.Ret()
	}
	if oldFd == newFd {
		k.fdMu.Unlock()
		return uint64(newFd)
	}
	prev := k.fds[int32(newFd)]
	of.refs++
	k.fds[int32(newFd)] = of
	closePrev := false
	if prev != nil {
		prev.refs--
		closePrev = prev.refs == 0
	}
	k.fdMu.Unlock()
	if closePrev {
		prev.f.Close()
	}
	return uint64(newFd)
}
