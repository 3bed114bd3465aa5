package common

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/lunixbochs/argjoy"

	"github.com/lunixbochs/fxshim/go/models"
)

// KernelBase turns the exported methods of an embedding kernel into a call
// table keyed by snake_case name: SetTidAddress is "set_tid_address".
// A "Literal" prefix is dropped, so LiteralClose is "close".
type KernelBase struct {
	Syscalls map[string]Syscall
	Mem      models.Memory
	Config   *models.Config
	Argjoy   argjoy.Argjoy
}

func (k *KernelBase) Base() *KernelBase {
	return k
}

type Kernel interface {
	Base() *KernelBase
}

func snakeName(method string) string {
	method = strings.TrimPrefix(method, "Literal")
	var b strings.Builder
	for i, c := range method {
		if unicode.IsUpper(c) {
			if i > 0 {
				b.WriteByte('_')
			}
			c = unicode.ToLower(c)
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (k *KernelBase) entry(instance reflect.Value, method reflect.Method) Syscall {
	mt := method.Type
	sys := Syscall{
		Name:     snakeName(method.Name),
		Kernel:   k,
		Instance: instance,
		Method:   method,
	}
	// In[0] of a method expression is the receiver.
	for i := 1; i < mt.NumIn(); i++ {
		sys.In = append(sys.In, mt.In(i))
	}
	for i := 0; i < mt.NumOut(); i++ {
		sys.Out = append(sys.Out, mt.Out(i))
	}
	return sys
}

// KernelInit builds the call table for kf. It must be called once before Lookup.
func KernelInit(kf Kernel, mem models.Memory, config *models.Config) {
	k := kf.Base()
	k.Mem = mem
	k.Config = config.Init()
	k.Syscalls = make(map[string]Syscall)
	instance := reflect.ValueOf(kf)
	typ := instance.Type()
	// reflect only lists exported methods
	for i := 0; i < typ.NumMethod(); i++ {
		sys := k.entry(instance, typ.Method(i))
		k.Syscalls[sys.Name] = sys
	}
	k.Argjoy.Register(k.commonArgCodec)
	k.Argjoy.Register(argjoy.IntToInt)
}

func Lookup(kf Kernel, name string) *Syscall {
	if sys, ok := kf.Base().Syscalls[name]; ok {
		return &sys
	}
	return nil
}
