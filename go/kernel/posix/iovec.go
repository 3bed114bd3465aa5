package posix

import (
	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

const iovMax = 1024

func (k *PosixKernel) iovecs(iov co.Buf, count int) ([]linux.Iovec, int64) {
	if count < 0 || count > iovMax {
		return nil, errno(linux.EINVAL)
	}
	if count > 0 && iov.Addr == 0 {
		return nil, errno(linux.EFAULT)
	}
	vecs := make([]linux.Iovec, count)
	s := iov.Struc()
	for i := range vecs {
		if err := s.Unpack(&vecs[i]); err != nil {
			return nil, errno(linux.EFAULT)
		}
	}
	return vecs, 0
}

// Readv syscall. Stops after the first short read.
func (k *PosixKernel) Readv(fd co.Fd, iov co.Buf, count int) int64 {
	vecs, fail := k.iovecs(iov, count)
	if fail != 0 {
		return fail
	}
	var total int64
	for _, vec := range vecs {
		if vec.Len == 0 {
			continue
		}
		r := k.fx.Read(uint64(fd), vec.Base, vec.Len)
		if fornax.IsError(r) {
			return result(r)
		}
		total += int64(r)
		if r < vec.Len {
			break
		}
	}
	return total
}

// Writev syscall. The first failing segment's error is returned as is.
func (k *PosixKernel) Writev(fd co.Fd, iov co.Buf, count int) int64 {
	vecs, fail := k.iovecs(iov, count)
	if fail != 0 {
		return fail
	}
	var total int64
	for _, vec := range vecs {
		if vec.Len == 0 {
			continue
		}
		r := k.fx.Write(uint64(fd), vec.Base, vec.Len)
		if fornax.IsError(r) {
			return result(r)
		}
		total += int64(r)
	}
	return total
}
