package posix

import (
	"sync"

	"github.com/lunixbochs/fxshim/go/kernel/fornax"
)

// framePool hands out guest pages for native calls that need an output or
// input buffer the caller did not provide.
type framePool struct {
	mu   sync.Mutex
	free []uint64
	fx   *fornax.Caller
}

// get returns a page address, or a native error result.
func (p *framePool) get() (uint64, uint64) {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		addr := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		return addr, 0
	}
	p.mu.Unlock()
	addr := p.fx.Mmap(0, pageSize, protRW, mapAnon)
	if fornax.IsError(addr) {
		return 0, addr
	}
	return addr, 0
}

func (p *framePool) put(addr uint64) {
	p.mu.Lock()
	p.free = append(p.free, addr)
	p.mu.Unlock()
}
