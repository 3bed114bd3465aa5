package common

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/lunixbochs/fxshim/go/models"
)

func (s Syscall) traceArg(args ...interface{}) string {
	hex := func(a interface{}) string {
		tmp := fmt.Sprintf("0x%x", a)
		if strings.HasPrefix(tmp, "0x-") {
			tmp = "-0x" + tmp[3:]
		}
		return tmp
	}
	strsize := s.Kernel.Config.Strsize

	switch arg := args[0].(type) {
	case Obuf:
		return hex(arg.Addr)
	case Buf:
		if len(args) > 1 {
			if length, ok := args[1].(Len); ok {
				mem, _ := s.Kernel.Mem.MemRead(arg.Addr, uint64(length))
				return models.Repr(mem, strsize)
			}
		}
		return hex(arg.Addr)
	case Path:
		return models.Repr([]byte(arg.Str), strsize)
	case Off:
		return hex(arg)
	case Ptr:
		return hex(arg)
	case Fd:
		return fmt.Sprintf("%d", int32(arg))
	case Len:
		return fmt.Sprintf("%d", uint64(arg))
	case uint64:
		return hex(arg)
	default:
		return fmt.Sprintf("%v", arg)
	}
}

// Trace renders a call as name(arg, ...). Unreadable arguments render as the conversion error.
func (s Syscall) Trace(regs []uint64) string {
	args := make([]uint64, len(s.In))
	copy(args, regs)
	inRef, err := s.Kernel.Argjoy.Convert(s.In, false, args)
	if err != nil {
		return fmt.Sprintf("%s(<%s>)", s.Name, err)
	}
	in := make([]interface{}, len(inRef))
	for i, val := range inRef {
		in[i] = val.Interface()
	}
	ret := make([]string, len(in))
	for i := range in {
		ret[i] = s.traceArg(in[i:]...)
	}
	return fmt.Sprintf("%s(%s)", s.Name, strings.Join(ret, ", "))
}

var (
	obufType = reflect.TypeOf(Obuf{})
	lenType  = reflect.TypeOf(Len(0))
)

// TraceOut renders the data a call wrote to its output buffers, for results
// that are a byte count within the buffer length.
func (s Syscall) TraceOut(args []uint64, ret int64) []string {
	var out []string
	for i, typ := range s.In {
		if typ == obufType && len(args) > i+1 && i+1 < len(s.In) && s.In[i+1] == lenType {
			if ret >= 0 && uint64(ret) <= args[i+1] {
				mem, _ := s.Kernel.Mem.MemRead(args[i], uint64(ret))
				out = append(out, models.Repr(mem, s.Kernel.Config.Strsize))
			}
		}
	}
	return out
}
