package models

import (
	"encoding/binary"
	"io"
)

// Memory is a guest address space as seen by the shim and the native kernel.
// Addresses are guest addresses; nothing here aliases host memory.
type Memory interface {
	MemReadInto(p []byte, addr uint64) error
	MemRead(addr, size uint64) ([]byte, error)
	MemWrite(addr uint64, p []byte) error
	// ReadStrAt reads a NUL-terminated string.
	ReadStrAt(addr uint64) (string, error)
	StrucAt(addr uint64) *StrucStream

	Load32(addr uint64) (uint32, error)
	Store32(addr uint64, val uint32) error
	CompareAndSwap32(addr uint64, old, new uint32) (bool, error)
}

// AddressSpace is a Memory that can also be mapped and grown.
type AddressSpace interface {
	Memory
	Mmap(addr, size uint64) (uint64, error)
	Munmap(addr, size uint64) error
	Brk(addr uint64) (uint64, error)
}

type MemReader struct {
	M    Memory
	Addr uint64
}

func (m *MemReader) Read(p []byte) (int, error) {
	err := m.M.MemReadInto(p, m.Addr)
	if err != nil {
		return 0, err
	}
	m.Addr += uint64(len(p))
	return len(p), nil
}

type MemWriter struct {
	M    Memory
	Addr uint64
}

func (m *MemWriter) Write(p []byte) (int, error) {
	err := m.M.MemWrite(m.Addr, p)
	if err != nil {
		return 0, err
	}
	m.Addr += uint64(len(p))
	return len(p), nil
}

// MemStream reads and writes sequentially from a single cursor.
type MemStream struct {
	M    Memory
	Addr uint64
}

func (m *MemStream) Read(p []byte) (int, error) {
	r := MemReader{m.M, m.Addr}
	n, err := r.Read(p)
	m.Addr = r.Addr
	return n, err
}

func (m *MemStream) Write(p []byte) (int, error) {
	w := MemWriter{m.M, m.Addr}
	n, err := w.Write(p)
	m.Addr = w.Addr
	return n, err
}

// NewStrucAt is the usual Memory.StrucAt implementation. Guest structs are x86_64 little-endian.
func NewStrucAt(m Memory, addr uint64) *StrucStream {
	return &StrucStream{Stream: &MemStream{M: m, Addr: addr}, Order: binary.LittleEndian}
}

var _ io.ReadWriter = &MemStream{}
