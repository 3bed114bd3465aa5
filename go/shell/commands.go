package shell

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/lunixbochs/fxshim/go/kernel/linux"
	"github.com/lunixbochs/fxshim/go/models"
)

var dump = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}

var HelpCmd = cmd(&Command{
	Name: "help",
	Desc: "List commands.",
	Run: func(c *Context) error {
		for _, name := range names() {
			c.Printf("  %-6s %s\n", name, Commands[name].Desc)
		}
		return nil
	},
})

var SysCmd = cmd(&Command{
	Name: "sys",
	Desc: "Issue a foreign call by name or number: sys write 1 $ 5",
	Run: func(c *Context, call string, args ...int64) error {
		var ret int64
		if n, err := strconv.ParseInt(call, 0, 64); err == nil {
			var a [6]int64
			copy(a[:], args)
			ret = c.K.Syscall(n, a[0], a[1], a[2], a[3], a[4], a[5])
		} else {
			if _, ok := linux.Numbers[call]; !ok {
				return errors.Errorf("unknown call %q", call)
			}
			ret = c.Sys(call, args...)
		}
		c.Last = ret
		c.Printf("= %s\n", c.result(ret))
		return nil
	},
})

var AllocCmd = cmd(&Command{
	Name: "alloc",
	Desc: "Allocate guest memory.",
	Run: func(c *Context, size uint64) error {
		addr, err := c.Alloc(size)
		if err != nil {
			return err
		}
		c.Last = int64(addr)
		c.Printf("%#x\n", addr)
		return nil
	},
})

var StrCmd = cmd(&Command{
	Name: "str",
	Desc: "Place a NUL-terminated string in guest memory.",
	Run: func(c *Context, s string) error {
		addr, err := c.Str(s)
		if err != nil {
			return err
		}
		c.Last = int64(addr)
		c.Printf("%#x\n", addr)
		return nil
	},
})

var HexCmd = cmd(&Command{
	Name: "hex",
	Desc: "Dump guest memory.",
	Run: func(c *Context, addr, size uint64) error {
		mem, err := c.Mem.MemRead(addr, size)
		if err != nil {
			return err
		}
		for _, line := range models.HexDump(addr, mem) {
			c.Printf("  %s\n", line)
		}
		return nil
	},
})

var StatCmd = cmd(&Command{
	Name: "stat",
	Desc: "Show the stat record of a path.",
	Run: func(c *Context, path string) error {
		p, err := c.Str(path)
		if err != nil {
			return err
		}
		buf, err := c.Alloc(144)
		if err != nil {
			return err
		}
		if ret := c.Sys("stat", int64(p), int64(buf)); ret != 0 {
			return errors.Errorf("stat: %s", c.result(ret))
		}
		var st linux.Stat64
		if err := c.Mem.StrucAt(buf).Unpack(&st); err != nil {
			return err
		}
		c.Printf("%s", dump.Sdump(st))
		return nil
	},
})

var CatCmd = cmd(&Command{
	Name: "cat",
	Desc: "Print a file through open, read and close.",
	Run: func(c *Context, path string) error {
		p, err := c.Str(path)
		if err != nil {
			return err
		}
		fd := c.Sys("open", int64(p), linux.O_RDONLY, 0)
		if fd < 0 {
			return errors.Errorf("open: %s", c.result(fd))
		}
		defer c.Sys("close", fd)
		buf, err := c.Alloc(0x1000)
		if err != nil {
			return err
		}
		for {
			n := c.Sys("read", fd, int64(buf), 0x1000)
			if n < 0 {
				return errors.Errorf("read: %s", c.result(n))
			}
			if n == 0 {
				return nil
			}
			data, err := c.Mem.MemRead(buf, uint64(n))
			if err != nil {
				return err
			}
			c.Write(data)
		}
	},
})

var WriteCmd = cmd(&Command{
	Name: "write",
	Desc: "Write text to a descriptor.",
	Run: func(c *Context, fd int64, text string) error {
		p, err := c.Str(text)
		if err != nil {
			return err
		}
		c.Last = c.Sys("write", fd, int64(p), int64(len(text)))
		c.Printf("= %s\n", c.result(c.Last))
		return nil
	},
})

var CwdCmd = cmd(&Command{
	Name: "cwd",
	Desc: "Show or set the cached working directory.",
	Run: func(c *Context, dir ...string) error {
		if len(dir) > 0 {
			return c.K.SetCwd(dir[0])
		}
		c.Printf("%s\n", c.K.Cwd())
		return nil
	},
})

var UnameCmd = cmd(&Command{
	Name: "uname",
	Desc: "Show the host identification.",
	Run: func(c *Context) error {
		size := uint64(6 * linux.UtsnameFieldLen)
		buf, err := c.Alloc(size)
		if err != nil {
			return err
		}
		if ret := c.Sys("uname", int64(buf)); ret != 0 {
			return errors.Errorf("uname: %s", c.result(ret))
		}
		raw, err := c.Mem.MemRead(buf, size)
		if err != nil {
			return err
		}
		field := func(i int) string {
			f := raw[i*linux.UtsnameFieldLen : (i+1)*linux.UtsnameFieldLen]
			return string(bytes.TrimRight(f, "\x00"))
		}
		c.Printf("%s", dump.Sdump(models.Uname{
			Sysname: field(0), Nodename: field(1), Release: field(2),
			Version: field(3), Machine: field(4), Domainname: field(5),
		}))
		return nil
	},
})

var FdsCmd = cmd(&Command{
	Name: "fds",
	Desc: "List open native descriptors.",
	Run: func(c *Context) error {
		if c.Native == nil {
			return errors.New("descriptor table not available")
		}
		fds := c.Native.Fds()
		nums := make([]int, 0, len(fds))
		for fd := range fds {
			nums = append(nums, int(fd))
		}
		sort.Ints(nums)
		for _, fd := range nums {
			c.Printf("  %3d %s\n", fd, fds[int32(fd)])
		}
		return nil
	},
})
