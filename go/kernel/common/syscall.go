package common

import (
	"reflect"

	"github.com/pkg/errors"
)

type Syscall struct {
	Name     string
	Kernel   *KernelBase
	Instance reflect.Value
	Method   reflect.Method
	In       []reflect.Type
	Out      []reflect.Type
}

var uint64Type = reflect.TypeOf(uint64(0))

// Call converts raw argument words to the handler's parameter types and invokes it.
// Missing trailing words are treated as zero; extra words are ignored.
func (sys Syscall) Call(args []uint64) (uint64, error) {
	regs := make([]uint64, len(sys.In))
	copy(regs, args)
	converted, err := sys.Kernel.Argjoy.Convert(sys.In, false, regs)
	if err != nil {
		return 0, errors.Wrapf(err, "calling %T.%s()", sys.Instance.Interface(), sys.Method.Name)
	}
	in := make([]reflect.Value, len(converted)+1)
	in[0] = sys.Instance
	copy(in[1:], converted)
	out := sys.Method.Func.Call(in)
	// return output if first return of function is representable as an int type
	if len(out) > 0 && out[0].Type().ConvertibleTo(uint64Type) {
		return out[0].Convert(uint64Type).Uint(), nil
	}
	return 0, nil
}
