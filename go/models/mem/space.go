package mem

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"

	"github.com/lunixbochs/fxshim/go/models"
)

const (
	PageSize = 0x1000

	DefaultMmapBase = 0x7f0000000000
	DefaultBrkBase  = 0x10000000
)

var ErrNoSpace = errors.New("no free address range")

func align(n uint64) uint64 {
	return (n + PageSize - 1) &^ (PageSize - 1)
}

// Space is a thread-safe guest address space with mmap and brk allocation on top of Sim.
type Space struct {
	mu  sync.RWMutex
	sim Sim

	mmapNext uint64
	brkBase  uint64
	brk      uint64
}

func NewSpace() *Space {
	return &Space{mmapNext: DefaultMmapBase, brkBase: DefaultBrkBase, brk: DefaultBrkBase}
}

// Map maps a fixed range, replacing anything already there.
func (s *Space) Map(addr, size uint64, desc string) {
	s.mu.Lock()
	s.sim.Map(addr, align(size), desc)
	s.mu.Unlock()
}

func (s *Space) Regions() Regions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Regions, len(s.sim.Mem))
	copy(out, s.sim.Mem)
	return out
}

// Mapped is the total size of all mapped regions.
func (s *Space) Mapped() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total uint64
	for _, r := range s.sim.Mem {
		total += r.Size
	}
	return total
}

func (s *Space) Mmap(addr, size uint64) (uint64, error) {
	if size == 0 {
		return 0, errors.New("mmap: zero length")
	}
	size = align(size)
	s.mu.Lock()
	defer s.mu.Unlock()
	if addr != 0 && addr%PageSize == 0 && s.sim.Free(addr, size) {
		s.sim.Map(addr, size, "mmap")
		return addr, nil
	}
	for try := s.mmapNext; try+size > try; try += PageSize {
		if s.sim.Free(try, size) {
			s.sim.Map(try, size, "mmap")
			s.mmapNext = try + size
			return try, nil
		}
	}
	return 0, ErrNoSpace
}

func (s *Space) Munmap(addr, size uint64) error {
	if addr%PageSize != 0 {
		return errors.Errorf("munmap: unaligned address %#x", addr)
	}
	s.mu.Lock()
	s.sim.Unmap(addr, align(size))
	s.mu.Unlock()
	return nil
}

// Brk returns the current break for addr == 0 or any address below the base.
func (s *Space) Brk(addr uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if addr < s.brkBase {
		return s.brk, nil
	}
	cur, next := align(s.brk), align(addr)
	if next > cur {
		if !s.sim.Free(cur, next-cur) {
			return s.brk, ErrNoSpace
		}
		s.sim.Map(cur, next-cur, "brk")
	} else if next < cur {
		s.sim.Unmap(next, cur-next)
	}
	s.brk = addr
	return s.brk, nil
}

func (s *Space) MemReadInto(p []byte, addr uint64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sim.Read(addr, p)
}

func (s *Space) MemRead(addr, size uint64) ([]byte, error) {
	p := make([]byte, size)
	return p, s.MemReadInto(p, addr)
}

func (s *Space) MemWrite(addr uint64, p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Write(addr, p)
}

func (s *Space) ReadStrAt(addr uint64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []byte
	for {
		r := s.sim.Mem.Find(addr)
		if r == nil {
			return "", &MemError{Addr: addr, Size: 1, Enum: MEM_READ_UNMAPPED}
		}
		chunk := r.Data[addr-r.Addr:]
		for i, c := range chunk {
			if c == 0 {
				return string(append(out, chunk[:i]...)), nil
			}
		}
		out = append(out, chunk...)
		addr += uint64(len(chunk))
	}
}

func (s *Space) StrucAt(addr uint64) *models.StrucStream {
	return models.NewStrucAt(s, addr)
}

// word returns the backing slice for an aligned 32-bit word. Callers hold s.mu.
func (s *Space) word(addr uint64) ([]byte, error) {
	if addr%4 != 0 {
		return nil, errors.Errorf("unaligned word access at %#x", addr)
	}
	r := s.sim.Mem.Find(addr)
	if r == nil || !r.Contains(addr+3) {
		return nil, &MemError{Addr: addr, Size: 4, Enum: MEM_READ_UNMAPPED}
	}
	o := addr - r.Addr
	return r.Data[o : o+4], nil
}

func (s *Space) Load32(addr uint64) (uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, err := s.word(addr)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(w), nil
}

func (s *Space) Store32(addr uint64, val uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.word(addr)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(w, val)
	return nil
}

func (s *Space) CompareAndSwap32(addr uint64, old, new uint32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.word(addr)
	if err != nil {
		return false, err
	}
	if binary.LittleEndian.Uint32(w) != old {
		return false, nil
	}
	binary.LittleEndian.PutUint32(w, new)
	return true, nil
}

var _ models.AddressSpace = &Space{}
