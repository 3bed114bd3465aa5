package common

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/fxshim/go/models"
)

type (
	Buf struct {
		Addr uint64
		K    *KernelBase
	}
	Obuf struct{ Buf }
	// Path is a NUL-terminated guest string, decoded at conversion time.
	// The native ABI wants (pointer, length) pairs, so both are kept.
	Path struct {
		Buf
		Str string
	}
	Len uint64
	Off int64
	Fd  int32
	Ptr uint64
)

func NewBuf(k Kernel, addr uint64) Buf {
	return Buf{K: k.Base(), Addr: addr}
}

func (b Buf) Struc() *models.StrucStream {
	return b.K.Mem.StrucAt(b.Addr)
}

func (b Buf) Pack(i interface{}) error {
	return errors.Wrap(b.Struc().Pack(i), "struc.Pack() failed")
}

func (b Buf) Unpack(i interface{}) error {
	return errors.Wrap(b.Struc().Unpack(i), "struc.Unpack() failed")
}

func (b Buf) Sizeof(i interface{}) (int, error) {
	n, err := b.Struc().Sizeof(i)
	return n, errors.Wrap(err, "struc.Sizeof() failed")
}

func (b Buf) Read(n uint64) ([]byte, error) {
	return b.K.Mem.MemRead(b.Addr, n)
}

func (b Buf) Write(p []byte) error {
	return b.K.Mem.MemWrite(b.Addr, p)
}

func (p Path) Len() uint64 {
	return uint64(len(p.Str))
}
