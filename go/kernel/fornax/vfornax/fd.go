package vfornax

import (
	"sync"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
)

// openFile is shared by every descriptor dup'd from the same open.
type openFile struct {
	mu   sync.Mutex
	f    fornax.File
	refs int
	path string
}

// install puts of at the lowest free descriptor.
func (k *Kernel) install(of *openFile) (int32, fornax.Errno) {
	k.fdMu.Lock()
	defer k.fdMu.Unlock()
	for fd := int32(0); fd < maxFds; fd++ {
		if _, ok := k.fds[fd]; !ok {
			of.refs++
			k.fds[fd] = of
			return fd, 0
		}
	}
	return -1, fornax.EMFILE
}

const maxFds = 1024

func (k *Kernel) getFd(fd int32) *openFile {
	k.fdMu.Lock()
	defer k.fdMu.Unlock()
	return k.fds[fd]
}

func (k *Kernel) closeFd(fd int32) fornax.Errno {
	k.fdMu.Lock()
	of, ok := k.fds[fd]
	if !ok {
		k.fdMu.Unlock()
		return fornax.EBADF
	}
	delete(k.fds, fd)
	of.refs--
	last := of.refs == 0
	k.fdMu.Unlock()
	if last {
		if err := of.f.Close(); err != nil {
			return ErrnoFor(err)
		}
	}
	return 0
}

// Fds lists open descriptors and the path each was opened with.
func (k *Kernel) Fds() map[int32]string {
	k.fdMu.Lock()
	defer k.fdMu.Unlock()
	out := make(map[int32]string, len(k.fds))
	for fd, of := range k.fds {
		out[fd] = of.path
	}
	return out
}
