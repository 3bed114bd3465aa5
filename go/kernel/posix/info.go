package posix

import (
	"bytes"

	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

// Uname syscall
func (k *PosixKernel) Uname(buf co.Obuf) int64 {
	if buf.Addr == 0 {
		return errno(linux.EFAULT)
	}
	if err := buf.Pack(UtsnameFor()); err != nil {
		return errno(linux.EFAULT)
	}
	return 0
}

// Ioctl syscall. Only the terminal size query is answered.
func (k *PosixKernel) Ioctl(fd co.Fd, req uint64, arg co.Obuf) int64 {
	if req != linux.TIOCGWINSZ {
		k.log.Debug("unsupported ioctl", "fd", fd, "req", req)
		return Stubs["ioctl"].Ret()
	}
	if arg.Addr != 0 {
		if err := arg.Pack(DefaultWinsize()); err != nil {
			return errno(linux.EFAULT)
		}
	}
	return 0
}

// ClockGettime syscall. Every clock is uptime in whole seconds.
func (k *PosixKernel) ClockGettime(clock int, tp co.Obuf) int64 {
	if tp.Addr == 0 {
		return 0
	}
	frame, failed := k.frames.get()
	if failed != 0 {
		return result(failed)
	}
	defer k.frames.put(frame)
	if r := k.fx.Sysinfo(frame); fornax.IsError(r) {
		return result(r)
	}
	var info fornax.SysInfo
	if err := k.Mem.StrucAt(frame).Unpack(&info); err != nil {
		return errno(linux.EIO)
	}
	ts := linux.Timespec{Sec: int64(info.UptimeSecs)}
	if err := tp.Pack(&ts); err != nil {
		return errno(linux.EFAULT)
	}
	return 0
}

const (
	randomPath = "/dev/random"
	// randomFill is written when the random device cannot be opened. It is not random.
	randomFill = 0x42
)

// Getrandom syscall
func (k *PosixKernel) Getrandom(buf co.Obuf, size co.Len, flags uint64) int64 {
	frame, failed := k.frames.get()
	if failed != 0 {
		return result(failed)
	}
	defer k.frames.put(frame)
	if err := k.Mem.MemWrite(frame, []byte(randomPath)); err != nil {
		return errno(linux.EFAULT)
	}
	fd := k.fx.Open(frame, uint64(len(randomPath)))
	if fornax.IsError(fd) {
		return k.fillRandom(buf, uint64(size))
	}
	r := k.fx.Read(fd, buf.Addr, uint64(size))
	k.fx.Close(fd)
	if fornax.IsError(r) || r == 0 {
		return int64(size)
	}
	return int64(r)
}

func (k *PosixKernel) fillRandom(buf co.Obuf, size uint64) int64 {
	chunk := bytes.Repeat([]byte{randomFill}, pageSize)
	for off := uint64(0); off < size; off += pageSize {
		n := size - off
		if n > pageSize {
			n = pageSize
		}
		if err := k.Mem.MemWrite(buf.Addr+off, chunk[:n]); err != nil {
			return errno(linux.EFAULT)
		}
	}
	return int64(size)
}
