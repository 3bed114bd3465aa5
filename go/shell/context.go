package shell

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/lunixbochs/fxshim/go/kernel/fornax/vfornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
	"github.com/lunixbochs/fxshim/go/kernel/posix"
	"github.com/lunixbochs/fxshim/go/models"
)

const heapChunk = 0x10000

type Context struct {
	io.Writer
	K   *posix.PosixKernel
	Mem models.Memory
	// Native is optional; it enables the fds command.
	Native *vfornax.Kernel

	// Last is the most recent result, substituted for "$" in arguments.
	Last int64

	heap, heapEnd uint64
}

func NewContext(w io.Writer, k *posix.PosixKernel, native *vfornax.Kernel) *Context {
	return &Context{Writer: w, K: k, Mem: k.Mem, Native: native}
}

func (c *Context) Printf(format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(c, format, a...)
}

func (c *Context) expand(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "$" {
			a = strconv.FormatInt(c.Last, 10)
		}
		out[i] = a
	}
	return out
}

// Sys issues one foreign call by name.
func (c *Context) Sys(name string, args ...int64) int64 {
	call := posix.Call{Num: -1}
	if num, ok := linux.Numbers[name]; ok {
		call.Num = int64(num)
	}
	copy(call.Args[:], args)
	return c.K.Dispatch(call)
}

// Alloc returns n bytes of guest memory, mapped through the shim's own mmap.
func (c *Context) Alloc(n uint64) (uint64, error) {
	n = (n + 15) &^ 15
	if c.heap+n > c.heapEnd || c.heap == 0 {
		size := uint64(heapChunk)
		if n > size {
			size = (n + 0xfff) &^ 0xfff
		}
		addr := c.Sys("mmap", 0, int64(size), 3, 0x22, -1, 0)
		if addr < 0 {
			return 0, errors.Errorf("mmap failed: %s", linux.ErrnoName(int(-addr)))
		}
		c.heap, c.heapEnd = uint64(addr), uint64(addr)+size
	}
	addr := c.heap
	c.heap += n
	return addr, nil
}

// Str places a NUL-terminated copy of s in guest memory.
func (c *Context) Str(s string) (uint64, error) {
	addr, err := c.Alloc(uint64(len(s)) + 1)
	if err != nil {
		return 0, err
	}
	return addr, errors.Wrap(c.Mem.MemWrite(addr, append([]byte(s), 0)), "writing string")
}

func (c *Context) result(ret int64) string {
	if ret < 0 && ret > -4096 {
		return fmt.Sprintf("-1 %s", linux.ErrnoName(int(-ret)))
	}
	return fmt.Sprintf("%#x", ret)
}
