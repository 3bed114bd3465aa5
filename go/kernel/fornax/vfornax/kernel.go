// Package vfornax is an in-process kernel serving the Fornax native call set
// over a pluggable filesystem and a simulated address space.
package vfornax

import (
	"io"
	"io/ioutil"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/models"
)

type Options struct {
	Stdin          io.Reader
	Stdout, Stderr io.Writer
	// Random backs /dev/random. Without it the device does not exist.
	Random     io.Reader
	Logger     hclog.Logger
	Now        func() time.Time
	Pid        uint64
	TotalPages uint64
}

type Kernel struct {
	co.KernelBase
	opts  Options
	space models.AddressSpace
	fs    FS

	fdMu sync.Mutex
	fds  map[int32]*openFile

	futex   futexTable
	threads sync.WaitGroup

	entryMu sync.Mutex
	entries map[uint64]func(arg uint64)
	nextTid uint64

	fsBase uint64
	start  time.Time
	log    hclog.Logger
}

func New(space models.AddressSpace, fs FS, opts *Options) *Kernel {
	k := &Kernel{
		space:   space,
		fs:      fs,
		fds:     make(map[int32]*openFile),
		entries: make(map[uint64]func(uint64)),
	}
	if opts != nil {
		k.opts = *opts
	}
	if k.opts.Stdin == nil {
		k.opts.Stdin = eofReader{}
	}
	if k.opts.Stdout == nil {
		k.opts.Stdout = ioutil.Discard
	}
	if k.opts.Stderr == nil {
		k.opts.Stderr = ioutil.Discard
	}
	if k.opts.Logger == nil {
		k.opts.Logger = hclog.NewNullLogger()
	}
	if k.opts.Now == nil {
		k.opts.Now = time.Now
	}
	if k.opts.Pid == 0 {
		k.opts.Pid = 1
	}
	if k.opts.TotalPages == 0 {
		k.opts.TotalPages = 0x10000
	}
	k.nextTid = k.opts.Pid
	k.log = k.opts.Logger
	k.start = k.opts.Now()
	k.initConsole()
	co.KernelInit(k, space, &models.Config{Logger: k.log})
	return k
}

type eofReader struct{}

func (eofReader) Read(p []byte) (int, error) { return 0, io.EOF }

func (k *Kernel) call(nr uint64, args ...uint64) uint64 {
	name, ok := fornax.Names[int(nr)]
	if !ok {
		return fornax.ENOSYS.Ret()
	}
	sys := co.Lookup(k, name)
	if sys == nil {
		return fornax.ENOSYS.Ret()
	}
	ret, err := sys.Call(args)
	if err != nil {
		k.log.Debug("bad native call arguments", "name", name, "error", err)
		return fornax.EFAULT.Ret()
	}
	return ret
}

func (k *Kernel) Syscall0(nr uint64) uint64 { return k.call(nr) }
func (k *Kernel) Syscall1(nr, a0 uint64) uint64 { return k.call(nr, a0) }
func (k *Kernel) Syscall2(nr, a0, a1 uint64) uint64 { return k.call(nr, a0, a1) }
func (k *Kernel) Syscall3(nr, a0, a1, a2 uint64) uint64 {
	return k.call(nr, a0, a1, a2)
}
func (k *Kernel) Syscall4(nr, a0, a1, a2, a3 uint64) uint64 {
	return k.call(nr, a0, a1, a2, a3)
}
func (k *Kernel) Syscall5(nr, a0, a1, a2, a3, a4 uint64) uint64 {
	return k.call(nr, a0, a1, a2, a3, a4)
}

var _ fornax.Native = &Kernel{}
