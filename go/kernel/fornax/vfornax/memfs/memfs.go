// Package memfs is an in-memory vfornax filesystem.
package memfs

import (
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
)

type node struct {
	mu    sync.Mutex
	dir   bool
	data  []byte
	mode  uint32
	mtime uint64
}

type FS struct {
	mu    sync.RWMutex
	nodes map[string]*node
	Now   func() time.Time
}

func New() *FS {
	fs := &FS{nodes: make(map[string]*node), Now: time.Now}
	fs.nodes["/"] = &node{dir: true, mode: 0755, mtime: fs.now()}
	return fs
}

func (fs *FS) now() uint64 {
	return uint64(fs.Now().Unix())
}

func clean(p string) string {
	return path.Clean("/" + p)
}

func (fs *FS) hasChildren(p string) bool {
	prefix := p + "/"
	if p == "/" {
		prefix = "/"
	}
	for name := range fs.nodes {
		if name != p && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (fs *FS) checkParent(p string) error {
	parent, ok := fs.nodes[path.Dir(p)]
	if !ok {
		return fornax.ENOENT
	}
	if !parent.dir {
		return fornax.ENOTDIR
	}
	return nil
}

func (fs *FS) Open(p string) (fornax.File, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	n, ok := fs.nodes[clean(p)]
	if !ok {
		return nil, fornax.ENOENT
	}
	return &handle{n: n, fs: fs}, nil
}

func (fs *FS) Create(p string, dir, append bool) (fornax.File, error) {
	p = clean(p)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err := fs.checkParent(p); err != nil {
		return nil, err
	}
	if n, ok := fs.nodes[p]; ok {
		if dir {
			return nil, fornax.EEXIST
		}
		if n.dir {
			return nil, fornax.EISDIR
		}
		n.mu.Lock()
		n.data = n.data[:0]
		n.mtime = fs.now()
		n.mu.Unlock()
		return &handle{n: n, fs: fs, append: append}, nil
	}
	n := &node{dir: dir, mode: 0644, mtime: fs.now()}
	if dir {
		n.mode = 0755
	}
	fs.nodes[p] = n
	return &handle{n: n, fs: fs, append: append}, nil
}

func (fs *FS) Remove(p string) error {
	p = clean(p)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if p == "/" {
		return fornax.EPERM
	}
	n, ok := fs.nodes[p]
	if !ok {
		return fornax.ENOENT
	}
	if n.dir && fs.hasChildren(p) {
		return fornax.ENOTEMPTY
	}
	delete(fs.nodes, p)
	return nil
}

func (fs *FS) Rename(oldPath, newPath string) error {
	oldPath, newPath = clean(oldPath), clean(newPath)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	src, ok := fs.nodes[oldPath]
	if !ok {
		return fornax.ENOENT
	}
	if oldPath == "/" || strings.HasPrefix(newPath, oldPath+"/") {
		return fornax.EINVAL
	}
	if oldPath == newPath {
		return nil
	}
	if err := fs.checkParent(newPath); err != nil {
		return err
	}
	if dst, ok := fs.nodes[newPath]; ok {
		switch {
		case dst.dir && !src.dir:
			return fornax.EISDIR
		case !dst.dir && src.dir:
			return fornax.ENOTDIR
		case dst.dir && fs.hasChildren(newPath):
			return fornax.ENOTEMPTY
		}
	}
	moved := map[string]*node{newPath: src}
	prefix := oldPath + "/"
	for name, n := range fs.nodes {
		if strings.HasPrefix(name, prefix) {
			moved[newPath+"/"+name[len(prefix):]] = n
			delete(fs.nodes, name)
		}
	}
	delete(fs.nodes, oldPath)
	for name, n := range moved {
		fs.nodes[name] = n
	}
	return nil
}

// WriteFile creates or replaces a file with data.
func (fs *FS) WriteFile(p string, data []byte) error {
	f, err := fs.Create(p, false, false)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

// ReadFile returns a copy of a file's contents.
func (fs *FS) ReadFile(p string) ([]byte, error) {
	fs.mu.RLock()
	n, ok := fs.nodes[clean(p)]
	fs.mu.RUnlock()
	if !ok {
		return nil, fornax.ENOENT
	}
	if n.dir {
		return nil, fornax.EISDIR
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]byte(nil), n.data...), nil
}

// Paths lists every path in the filesystem, sorted.
func (fs *FS) Paths() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]string, 0, len(fs.nodes))
	for name := range fs.nodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type handle struct {
	fs     *FS
	n      *node
	off    int64
	append bool
}

func (h *handle) Read(p []byte) (int, error) {
	h.n.mu.Lock()
	defer h.n.mu.Unlock()
	if h.n.dir {
		return 0, fornax.EISDIR
	}
	if h.off >= int64(len(h.n.data)) {
		return 0, io.EOF
	}
	n := copy(p, h.n.data[h.off:])
	h.off += int64(n)
	return n, nil
}

func (h *handle) Write(p []byte) (int, error) {
	h.n.mu.Lock()
	defer h.n.mu.Unlock()
	if h.n.dir {
		return 0, fornax.EISDIR
	}
	if h.append {
		h.off = int64(len(h.n.data))
	}
	end := h.off + int64(len(p))
	if size := int64(len(h.n.data)); end > size {
		if end > int64(cap(h.n.data)) {
			grown := make([]byte, end, end*2)
			copy(grown, h.n.data)
			h.n.data = grown
		} else {
			h.n.data = h.n.data[:end]
			// a write past the end leaves a zeroed hole
			for i := size; i < h.off; i++ {
				h.n.data[i] = 0
			}
		}
	}
	copy(h.n.data[h.off:], p)
	h.off = end
	if len(p) > 0 {
		h.n.mtime = h.fs.now()
	}
	return len(p), nil
}

func (h *handle) Seek(off int64, whence int) (int64, error) {
	h.n.mu.Lock()
	defer h.n.mu.Unlock()
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = h.off
	case io.SeekEnd:
		base = int64(len(h.n.data))
	default:
		return 0, fornax.EINVAL
	}
	if base+off < 0 {
		return 0, fornax.EINVAL
	}
	h.off = base + off
	return h.off, nil
}

func (h *handle) Truncate(size int64) error {
	h.n.mu.Lock()
	defer h.n.mu.Unlock()
	if h.n.dir {
		return fornax.EISDIR
	}
	if size < 0 {
		return fornax.EINVAL
	}
	if size <= int64(len(h.n.data)) {
		h.n.data = h.n.data[:size]
	} else {
		h.n.data = append(h.n.data, make([]byte, size-int64(len(h.n.data)))...)
	}
	h.n.mtime = h.fs.now()
	return nil
}

func (h *handle) Stat() (fornax.Stat, error) {
	h.n.mu.Lock()
	defer h.n.mu.Unlock()
	st := fornax.Stat{
		Size:  uint64(len(h.n.data)),
		Type:  fornax.FileRegular,
		Mtime: h.n.mtime,
		Mode:  h.n.mode,
	}
	if h.n.dir {
		st.Type = fornax.FileDir
	}
	return st, nil
}

func (h *handle) Close() error { return nil }
