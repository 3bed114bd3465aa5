package trace

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/lunixbochs/fxshim/go/models"
)

var order = binary.LittleEndian

const (
	OP_NOP  = 0
	OP_CALL = 1
	OP_CWD  = 2
	OP_EXIT = 3
)

func Unpack(r io.Reader) (models.Op, int, error) {
	var tmp [1]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return nil, 0, err
	}
	var op models.Op
	switch tmp[0] {
	case OP_NOP:
		op = &OpNop{}
	case OP_CALL:
		op = &OpCall{}
	case OP_CWD:
		op = &OpCwd{}
	case OP_EXIT:
		op = &OpExit{}
	default:
		return nil, 1, errors.Errorf("Unknown op: %d", tmp[0])
	}
	n, err := op.Unpack(r)
	return op, n + 1, err
}

type OpNop struct{}

func (o *OpNop) Sizeof() int   { return 1 }
func (o *OpNop) Pack(p []byte) { p[0] = OP_NOP }

func (o *OpNop) Unpack(r io.Reader) (int, error) { return 0, nil }

// OpCall is one dispatched foreign call and the result it produced.
type OpCall struct {
	Num  int64
	Args [6]int64
	Ret  int64
}

func (o *OpCall) Sizeof() int { return 1 + 8 + 6*8 + 8 }
func (o *OpCall) Pack(p []byte) {
	p[0] = OP_CALL
	order.PutUint64(p[1:], uint64(o.Num))
	for i, a := range o.Args {
		order.PutUint64(p[9+i*8:], uint64(a))
	}
	order.PutUint64(p[57:], uint64(o.Ret))
}

func (o *OpCall) Unpack(r io.Reader) (int, error) {
	var tmp [8 + 6*8 + 8]byte
	n, err := io.ReadFull(r, tmp[:])
	if err == nil {
		o.Num = int64(order.Uint64(tmp[:]))
		for i := range o.Args {
			o.Args[i] = int64(order.Uint64(tmp[8+i*8:]))
		}
		o.Ret = int64(order.Uint64(tmp[56:]))
	}
	return n, err
}

// OpCwd records the working directory a session started in.
type OpCwd struct {
	Dir string
}

func (o *OpCwd) Sizeof() int { return 1 + 2 + len(o.Dir) }
func (o *OpCwd) Pack(p []byte) {
	p[0] = OP_CWD
	order.PutUint16(p[1:], uint16(len(o.Dir)))
	copy(p[3:], o.Dir)
}

func (o *OpCwd) Unpack(r io.Reader) (int, error) {
	var tmp [2]byte
	n, err := io.ReadFull(r, tmp[:])
	if err != nil {
		return n, err
	}
	dir := make([]byte, order.Uint16(tmp[:]))
	m, err := io.ReadFull(r, dir)
	o.Dir = string(dir)
	return n + m, err
}

type OpExit struct {
	Code int32
}

func (o *OpExit) Sizeof() int { return 1 + 4 }
func (o *OpExit) Pack(p []byte) {
	p[0] = OP_EXIT
	order.PutUint32(p[1:], uint32(o.Code))
}

func (o *OpExit) Unpack(r io.Reader) (int, error) {
	var tmp [4]byte
	n, err := io.ReadFull(r, tmp[:])
	if err == nil {
		o.Code = int32(order.Uint32(tmp[:]))
	}
	return n, err
}
