package mem

import (
	"fmt"
	"strings"
)

// Region is one contiguous mapped range of guest memory.
type Region struct {
	Addr uint64
	Size uint64
	Data []byte
	Desc string
}

func (r *Region) String() string {
	desc := fmt.Sprintf("0x%x-0x%x", r.Addr, r.Addr+r.Size)
	if r.Desc != "" {
		desc += fmt.Sprintf(" [%s]", r.Desc)
	}
	return desc
}

func (r *Region) Contains(addr uint64) bool {
	return addr >= r.Addr && addr < r.Addr+r.Size
}

// start = max(s1, s2), end = min(e1, e2), ok = end > start
func (r *Region) Intersect(addr, size uint64) (uint64, uint64, bool) {
	start := r.Addr
	end := r.Addr + r.Size
	e2 := addr + size
	if end > e2 {
		end = e2
	}
	if start < addr {
		start = addr
	}
	return start, end - start, end > start
}

func (r *Region) Overlaps(addr, size uint64) bool {
	_, _, ok := r.Intersect(addr, size)
	return ok
}

func (r *Region) slice(addr, size uint64) *Region {
	o := addr - r.Addr
	return &Region{Addr: addr, Size: size, Data: r.Data[o : o+size], Desc: r.Desc}
}

// Cut removes addr:addr+size from the region, returning what is left on either side.
func (r *Region) Cut(addr, size uint64) (left, right *Region) {
	end := addr + size
	if end < r.Addr+r.Size {
		right = r.slice(end, r.Addr+r.Size-end)
	}
	if addr > r.Addr {
		left = r.slice(r.Addr, addr-r.Addr)
	}
	return left, right
}

type Regions []*Region

func (p Regions) Len() int           { return len(p) }
func (p Regions) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p Regions) Less(i, j int) bool { return p[i].Addr < p[j].Addr }

func (p Regions) String() string {
	s := make([]string, len(p))
	for i, v := range p {
		s[i] = v.String()
	}
	return strings.Join(s, "\n")
}

// binary search to find index of first region containing addr, if any, else -1
func (p Regions) bsearch(addr uint64) int {
	l := 0
	r := len(p) - 1
	for l <= r {
		mid := (l + r) / 2
		e := p[mid]
		if addr >= e.Addr {
			if addr < e.Addr+e.Size {
				return mid
			}
			l = mid + 1
		} else if addr < e.Addr {
			r = mid - 1
		}
	}
	return -1
}

func (p Regions) Find(addr uint64) *Region {
	i := p.bsearch(addr)
	if i >= 0 {
		return p[i]
	}
	return nil
}
