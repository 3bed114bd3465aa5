package mem

import (
	"fmt"
	"sort"
)

const (
	MEM_READ_UNMAPPED  = 19
	MEM_WRITE_UNMAPPED = 20
)

type MemError struct {
	Addr uint64
	Size int
	Enum int
}

func (m *MemError) Error() string {
	reason := "memory error"
	switch m.Enum {
	case MEM_WRITE_UNMAPPED:
		reason = "unmapped write"
	case MEM_READ_UNMAPPED:
		reason = "unmapped read"
	}
	return fmt.Sprintf("%s at %#x(%d)", reason, m.Addr, m.Size)
}

// Sim is a sorted list of mapped regions. It is not safe for concurrent use; see Space.
type Sim struct {
	Mem Regions
}

// RangeValid checks whether the whole address range is currently mapped.
func (m *Sim) RangeValid(addr, size uint64) bool {
	if size == 0 {
		return true
	}
	first := m.Mem.bsearch(addr)
	if first == -1 {
		return false
	}
	end := addr + size
	for _, mm := range m.Mem[first:] {
		if mm.Contains(addr) {
			addr = mm.Addr + mm.Size
			if addr >= end {
				break
			}
		} else {
			break
		}
	}
	return addr >= end
}

// Map maps addr:addr+size, zero filled. Overlapping regions are unmapped first.
func (m *Sim) Map(addr, size uint64, desc string) *Region {
	m.Unmap(addr, size)
	region := &Region{Addr: addr, Size: size, Data: make([]byte, size), Desc: desc}
	m.Mem = append(m.Mem, region)
	sort.Sort(m.Mem)
	return region
}

func (m *Sim) Unmap(addr, size uint64) {
	tmp := make(Regions, 0, len(m.Mem))
	for _, mm := range m.Mem {
		if mm.Overlaps(addr, size) {
			left, right := mm.Cut(addr, size)
			if left != nil {
				tmp = append(tmp, left)
			}
			if right != nil {
				tmp = append(tmp, right)
			}
		} else {
			tmp = append(tmp, mm)
		}
	}
	m.Mem = tmp
}

// Free reports whether nothing is mapped in addr:addr+size.
func (m *Sim) Free(addr, size uint64) bool {
	for _, mm := range m.Mem {
		if mm.Overlaps(addr, size) {
			return false
		}
	}
	return true
}

func (m *Sim) Read(addr uint64, p []byte) error {
	if !m.RangeValid(addr, uint64(len(p))) {
		return &MemError{Addr: addr, Size: len(p), Enum: MEM_READ_UNMAPPED}
	}
	i := m.Mem.bsearch(addr)
	if i >= 0 {
		for _, mm := range m.Mem[i:] {
			if len(p) == 0 || !mm.Contains(addr) {
				break
			}
			n := copy(p, mm.Data[addr-mm.Addr:])
			addr, p = addr+uint64(n), p[n:]
		}
	}
	return nil
}

func (m *Sim) Write(addr uint64, p []byte) error {
	if !m.RangeValid(addr, uint64(len(p))) {
		return &MemError{Addr: addr, Size: len(p), Enum: MEM_WRITE_UNMAPPED}
	}
	i := m.Mem.bsearch(addr)
	if i >= 0 {
		for _, mm := range m.Mem[i:] {
			if len(p) == 0 || !mm.Contains(addr) {
				break
			}
			n := copy(mm.Data[addr-mm.Addr:], p)
			addr, p = addr+uint64(n), p[n:]
		}
	}
	return nil
}
