package fornax

// Native is the raw kernel call boundary: one primitive per arity.
// Arguments and results are machine words; errors come back above ErrorThreshold.
type Native interface {
	Syscall0(nr uint64) uint64
	Syscall1(nr, a0 uint64) uint64
	Syscall2(nr, a0, a1 uint64) uint64
	Syscall3(nr, a0, a1, a2 uint64) uint64
	Syscall4(nr, a0, a1, a2, a3 uint64) uint64
	Syscall5(nr, a0, a1, a2, a3, a4 uint64) uint64
}
