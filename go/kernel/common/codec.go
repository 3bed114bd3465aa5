package common

import (
	"github.com/lunixbochs/argjoy"
	"github.com/pkg/errors"
)

var ErrNullPath = errors.New("null path pointer")

func (k *KernelBase) commonArgCodec(arg interface{}, vals []interface{}) error {
	if reg, ok := vals[0].(uint64); ok {
		switch v := arg.(type) {
		case *Buf:
			*v = NewBuf(k, reg)
		case *Obuf:
			*v = Obuf{NewBuf(k, reg)}
		case *Path:
			if reg == 0 {
				return ErrNullPath
			}
			s, err := k.Mem.ReadStrAt(reg)
			if err != nil {
				return errors.Wrapf(err, "reading path at %#x", reg)
			}
			*v = Path{Buf: NewBuf(k, reg), Str: s}
		case *Len:
			*v = Len(reg)
		case *Off:
			*v = Off(reg)
		case *Fd:
			*v = Fd(reg)
		case *Ptr:
			*v = Ptr(reg)
		case *int:
			// C int: the low 32 bits, sign extended
			*v = int(int32(reg))
		case *int32:
			*v = int32(reg)
		default:
			return argjoy.NoMatch
		}
		return nil
	}
	return argjoy.NoMatch
}
