// Package posix translates Linux x86_64 calls into calls on a Fornax native kernel.
package posix

import (
	"fmt"
	"strings"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/mgutz/ansi"
	"github.com/pkg/errors"

	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
	"github.com/lunixbochs/fxshim/go/models"
)

// Call is one foreign call record: a number and six argument words.
type Call struct {
	Num  int64
	Args [6]int64
}

// Recorder observes every dispatched call and its result.
type Recorder interface {
	Record(num int64, args [6]int64, ret int64) error
}

type PosixKernel struct {
	co.KernelBase

	fx     *fornax.Caller
	log    hclog.Logger
	frames framePool

	// globals is a shim-owned guest page holding the internal lock word.
	globals uint64
	cwd     string

	Recorder Recorder
}

const (
	cwdCap = 256

	protRW   = 0x3
	mapAnon  = 0x22
	pageSize = 0x1000
)

// New builds a shim over native. m must be the address space native serves.
func New(native fornax.Native, m models.Memory, config *models.Config) (*PosixKernel, error) {
	k := &PosixKernel{cwd: "/"}
	co.KernelInit(k, m, config)
	k.log = k.Config.Logger
	k.fx = fornax.NewCaller(native, k.log, k.Config.TraceNative)
	k.frames.fx = k.fx

	page := k.fx.Mmap(0, pageSize, protRW, mapAnon)
	if fornax.IsError(page) {
		return nil, errors.Wrap(fornax.ErrnoOf(page), "mapping shim globals")
	}
	k.globals = page
	return k, nil
}

func (k *PosixKernel) lockAddr() uint64 {
	return k.globals
}

// Dispatch runs one foreign call. It never fails: every outcome is a result word,
// negative values being foreign errnos.
func (k *PosixKernel) Dispatch(c Call) int64 {
	var args [6]uint64
	for i, a := range c.Args {
		args[i] = uint64(a)
	}
	name, ok := linux.Names[int(c.Num)]
	var sys *co.Syscall
	if ok {
		sys = co.Lookup(k, name)
	}
	if sys == nil {
		k.log.Debug("unsupported syscall", "num", c.Num, "name", linux.Name(int(c.Num)))
		ret := -int64(linux.ENOSYS)
		k.finish(c, nil, args[:], ret)
		return ret
	}
	if k.Config.TraceSys {
		k.traceStart(sys, args[:])
	}
	out, err := sys.Call(args[:])
	ret := int64(out)
	if err != nil {
		k.log.Debug("argument conversion failed", "name", name, "error", err)
		ret = -int64(linux.EFAULT)
	}
	k.finish(c, sys, args[:], ret)
	return ret
}

// Syscall is Dispatch in the libc calling shape.
func (k *PosixKernel) Syscall(n, a, b, c, d, e, f int64) int64 {
	return k.Dispatch(Call{Num: n, Args: [6]int64{a, b, c, d, e, f}})
}

// SyscallCP is the cancellation-point entry. There is no cancellation, so it is Syscall.
func (k *PosixKernel) SyscallCP(n, a, b, c, d, e, f int64) int64 {
	return k.Syscall(n, a, b, c, d, e, f)
}

func (k *PosixKernel) finish(c Call, sys *co.Syscall, args []uint64, ret int64) {
	if k.Config.TraceSys {
		if sys == nil {
			fmt.Fprintf(k.Config.Output, "%s(...)", linux.Name(int(c.Num)))
		}
		k.traceEnd(sys, args, ret)
	}
	if k.Recorder != nil {
		if err := k.Recorder.Record(c.Num, c.Args, ret); err != nil {
			k.log.Warn("recording call failed", "error", err)
		}
	}
}

func (k *PosixKernel) traceStart(sys *co.Syscall, args []uint64) {
	line := sys.Trace(args)
	if k.Config.Color {
		line = ansi.Color(line, "cyan")
	}
	fmt.Fprint(k.Config.Output, line)
}

func (k *PosixKernel) traceEnd(sys *co.Syscall, args []uint64, ret int64) {
	var out []string
	if sys != nil {
		out = sys.TraceOut(args, ret)
	}
	var r string
	if ret < 0 && ret > -4096 {
		r = fmt.Sprintf("-1 %s", linux.ErrnoName(int(-ret)))
		if k.Config.Color {
			r = ansi.Color(r, "red")
		}
	} else {
		r = fmt.Sprintf("%#x", ret)
	}
	out = append(out, r)
	fmt.Fprintf(k.Config.Output, " = %s\n", strings.Join(out, ", "))
}
