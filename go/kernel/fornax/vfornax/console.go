package vfornax

import (
	"io"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
)

type console struct {
	r io.Reader
	w io.Writer
}

func (c *console) Read(p []byte) (int, error) {
	if c.r == nil {
		return 0, fornax.EBADF
	}
	n, err := c.r.Read(p)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (c *console) Write(p []byte) (int, error) {
	if c.w == nil {
		return 0, fornax.EBADF
	}
	return c.w.Write(p)
}

func (c *console) Seek(off int64, whence int) (int64, error) { return 0, fornax.EINVAL }
func (c *console) Truncate(size int64) error                 { return fornax.EINVAL }
func (c *console) Close() error                              { return nil }

func (c *console) Stat() (fornax.Stat, error) {
	return fornax.Stat{Type: fornax.FileRegular, Mode: 0620}, nil
}

func (k *Kernel) initConsole() {
	k.install(&openFile{f: &console{r: k.opts.Stdin}, path: "/dev/cons"})
	k.install(&openFile{f: &console{w: k.opts.Stdout}, path: "/dev/cons"})
	k.install(&openFile{f: &console{w: k.opts.Stderr}, path: "/dev/cons"})
}

// device is a read-only character source such as /dev/random.
type device struct {
	r io.Reader
}

func (d *device) Read(p []byte) (int, error)                { return io.ReadFull(d.r, p) }
func (d *device) Write(p []byte) (int, error)               { return 0, fornax.EPERM }
func (d *device) Seek(off int64, whence int) (int64, error) { return 0, fornax.EINVAL }
func (d *device) Truncate(size int64) error                 { return fornax.EPERM }
func (d *device) Close() error                              { return nil }

func (d *device) Stat() (fornax.Stat, error) {
	return fornax.Stat{Type: fornax.FileRegular, Mode: 0444}, nil
}

func (k *Kernel) openDevice(path string) (fornax.File, bool) {
	if path == "/dev/random" && k.opts.Random != nil {
		return &device{r: k.opts.Random}, true
	}
	return nil, false
}
